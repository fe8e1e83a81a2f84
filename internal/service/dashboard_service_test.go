package service

import (
	"testing"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type dashFixture struct {
	db          *gorm.DB
	svc         *DashboardService
	instructorA *util.Claims
	instructorB *util.Claims
	student     *model.User
	courseA     *model.Course
	courseB     *model.Course
	quizA       *model.Quiz
	quizB       *model.Quiz
}

// Two instructors with one course each and a student enrolled in both,
// with quiz attempts in both.
func newDashFixture(t *testing.T) *dashFixture {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	instrA := &model.User{Username: "ama", Email: "ama@example.com", Role: model.Instructor}
	instrB := &model.User{Username: "yaw", Email: "yaw@example.com", Role: model.Instructor}
	student := &model.User{Username: "kofi", Email: "kofi@example.com", Role: model.Student}
	require.NoError(t, db.Create(instrA).Error)
	require.NoError(t, db.Create(instrB).Error)
	require.NoError(t, db.Create(student).Error)

	courseA := &model.Course{Title: "Biology", InstructorID: &instrA.ID}
	courseB := &model.Course{Title: "Physics", InstructorID: &instrB.ID}
	require.NoError(t, db.Create(courseA).Error)
	require.NoError(t, db.Create(courseB).Error)

	lessonA := &model.Lesson{CourseID: courseA.ID, Title: "Cells"}
	lessonB := &model.Lesson{CourseID: courseB.ID, Title: "Motion"}
	require.NoError(t, db.Create(lessonA).Error)
	require.NoError(t, db.Create(lessonB).Error)

	quizA := &model.Quiz{LessonID: lessonA.ID, Title: "Cell quiz", PassingScore: 70, MaxAttempts: 3, IsActive: true}
	quizB := &model.Quiz{LessonID: lessonB.ID, Title: "Motion quiz", PassingScore: 70, MaxAttempts: 3, IsActive: true}
	require.NoError(t, db.Create(quizA).Error)
	require.NoError(t, db.Create(quizB).Error)

	require.NoError(t, db.Create(&model.Enrollment{StudentID: student.ID, CourseID: courseA.ID}).Error)
	require.NoError(t, db.Create(&model.Enrollment{StudentID: student.ID, CourseID: courseB.ID}).Error)

	now := time.Now()
	require.NoError(t, db.Create(&model.QuizAttempt{
		QuizID: quizA.ID, StudentID: student.ID, Score: 80, TotalPoints: 5, EarnedPoints: 4,
		Passed: true, CompletedAt: &now,
	}).Error)
	require.NoError(t, db.Create(&model.QuizAttempt{
		QuizID: quizB.ID, StudentID: student.ID, Score: 40, TotalPoints: 5, EarnedPoints: 2,
		CompletedAt: &now,
	}).Error)

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	svc := NewDashboardService(
		repository.NewCourseRepository(db),
		enrollmentRepo,
		repository.NewProgressRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewUserRepository(db),
		repository.NewQuizRepository(db),
		NewAuthorizationService(enrollmentRepo),
	)

	return &dashFixture{
		db:          db,
		svc:         svc,
		instructorA: &util.Claims{UserID: instrA.ID, Role: model.Instructor},
		instructorB: &util.Claims{UserID: instrB.ID, Role: model.Instructor},
		student:     student,
		courseA:     courseA,
		courseB:     courseB,
		quizA:       quizA,
		quizB:       quizB,
	}
}

func TestCourseStudentDetailScopedToCourse(t *testing.T) {
	f := newDashFixture(t)

	detail, err := f.svc.CourseStudentDetail(f.instructorA, f.courseA.ID, f.student.ID)
	require.NoError(t, err)
	require.Len(t, detail.Attempts, 1)
	assert.Equal(t, f.quizA.ID, detail.Attempts[0].QuizID)

	// The other course's view shows only its own attempt.
	detail, err = f.svc.CourseStudentDetail(f.instructorB, f.courseB.ID, f.student.ID)
	require.NoError(t, err)
	require.Len(t, detail.Attempts, 1)
	assert.Equal(t, f.quizB.ID, detail.Attempts[0].QuizID)
}

func TestCourseStudentDetailDeniedForOtherInstructor(t *testing.T) {
	f := newDashFixture(t)

	_, err := f.svc.CourseStudentDetail(f.instructorA, f.courseB.ID, f.student.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestInstructorOverviewCountsQuizzes(t *testing.T) {
	f := newDashFixture(t)

	overview, err := f.svc.InstructorOverview(f.instructorA.UserID)
	require.NoError(t, err)
	require.Len(t, overview.Courses, 1)
	assert.Equal(t, 1, overview.Courses[0].QuizCount)
	assert.Equal(t, int64(1), overview.Courses[0].StudentCount)
}
