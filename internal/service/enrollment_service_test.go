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

type enrollFixture struct {
	db      *gorm.DB
	svc     *EnrollmentService
	student *model.User
}

func newEnrollFixture(t *testing.T) *enrollFixture {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	student := &model.User{Username: "kofi", Email: "kofi@example.com", Role: model.Student}
	require.NoError(t, db.Create(student).Error)

	return &enrollFixture{
		db: db,
		svc: NewEnrollmentService(
			repository.NewEnrollmentRepository(db),
			repository.NewProgressRepository(db),
			repository.NewCourseRepository(db),
			repository.NewLessonRepository(db),
			repository.NewPaymentRepository(db),
		),
		student: student,
	}
}

func (f *enrollFixture) createCourse(t *testing.T, price float64) *model.Course {
	t.Helper()
	course := &model.Course{Title: "Course", Price: price}
	require.NoError(t, f.db.Create(course).Error)
	return course
}

func TestEnrollFreeCourse(t *testing.T) {
	f := newEnrollFixture(t)
	course := f.createCourse(t, 0)

	enrollment, err := f.svc.Enroll(f.student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, enrollment.CourseID)

	_, err = f.svc.Enroll(f.student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollPaidCourseRequiresPayment(t *testing.T) {
	f := newEnrollFixture(t)
	course := f.createCourse(t, 49.99)

	_, err := f.svc.Enroll(f.student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrPaymentRequired)

	now := time.Now()
	require.NoError(t, f.db.Create(&model.Payment{
		UserID:    f.student.ID,
		CourseID:  course.ID,
		Reference: "ref-1",
		Amount:    49.99,
		Status:    model.PaymentSuccess,
		PaidAt:    &now,
	}).Error)

	_, err = f.svc.Enroll(f.student.ID, course.ID)
	require.NoError(t, err)
}

func TestEnrollPendingPaymentDoesNotCount(t *testing.T) {
	f := newEnrollFixture(t)
	course := f.createCourse(t, 10)

	require.NoError(t, f.db.Create(&model.Payment{
		UserID:    f.student.ID,
		CourseID:  course.ID,
		Reference: "ref-2",
		Amount:    10,
		Status:    model.PaymentPending,
	}).Error)

	_, err := f.svc.Enroll(f.student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrPaymentRequired)
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := newEnrollFixture(t)
	_, err := f.svc.Enroll(f.student.ID, 404)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCompleteLessonAndProgress(t *testing.T) {
	f := newEnrollFixture(t)
	course := f.createCourse(t, 0)

	lessons := make([]*model.Lesson, 4)
	for i := range lessons {
		lessons[i] = &model.Lesson{CourseID: course.ID, Title: "L", Position: i}
		require.NoError(t, f.db.Create(lessons[i]).Error)
	}

	_, err := f.svc.Enroll(f.student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.CompleteLesson(f.student.ID, lessons[0].ID))
	// Marking twice stays a single completion.
	require.NoError(t, f.svc.CompleteLesson(f.student.ID, lessons[0].ID))
	require.NoError(t, f.svc.CompleteLesson(f.student.ID, lessons[1].ID))

	courses, err := f.svc.ListEnrolledCourses(f.student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, int64(4), courses[0].TotalLessons)
	assert.Equal(t, int64(2), courses[0].LessonsComplete)
	assert.Equal(t, 50.0, courses[0].ProgressPercent)
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	f := newEnrollFixture(t)
	course := f.createCourse(t, 0)
	lesson := &model.Lesson{CourseID: course.ID, Title: "L"}
	require.NoError(t, f.db.Create(lesson).Error)

	err := f.svc.CompleteLesson(f.student.ID, lesson.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestLearningViewCountsUnassignedLessons(t *testing.T) {
	f := newEnrollFixture(t)
	course := f.createCourse(t, 0)

	module := &model.CourseModule{CourseID: course.ID, Title: "Basics"}
	require.NoError(t, f.db.Create(module).Error)

	inModule := &model.Lesson{CourseID: course.ID, ModuleID: &module.ID, Title: "A"}
	loose := &model.Lesson{CourseID: course.ID, Title: "B"}
	require.NoError(t, f.db.Create(inModule).Error)
	require.NoError(t, f.db.Create(loose).Error)

	_, err := f.svc.Enroll(f.student.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.CompleteLesson(f.student.ID, loose.ID))

	view, err := f.svc.GetLearningView(f.student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalLessons)
	assert.Equal(t, 1, view.LessonsComplete)
	assert.Equal(t, 50.0, view.ProgressPercent)
	require.Len(t, view.Modules, 1)
	require.Len(t, view.Unassigned, 1)
	assert.True(t, view.Unassigned[0].Completed)
}

func TestLearningViewRequiresEnrollment(t *testing.T) {
	f := newEnrollFixture(t)
	course := f.createCourse(t, 0)

	_, err := f.svc.GetLearningView(f.student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}
