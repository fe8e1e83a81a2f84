package service

import (
	"testing"

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

type courseFixture struct {
	db         *gorm.DB
	svc        *CourseService
	lessons    *LessonService
	instructor *util.Claims
	student    *util.Claims
	course     *model.Course
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	instructor := &model.User{Username: "ama", Email: "ama@example.com", Role: model.Instructor, FirstName: "Ama"}
	student := &model.User{Username: "kofi", Email: "kofi@example.com", Role: model.Student}
	require.NoError(t, db.Create(instructor).Error)
	require.NoError(t, db.Create(student).Error)

	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	authz := NewAuthorizationService(enrollmentRepo)

	f := &courseFixture{
		db:         db,
		svc:        NewCourseService(courseRepo, moduleRepo, userRepo, enrollmentRepo, authz, nil),
		lessons:    NewLessonService(lessonRepo, moduleRepo, courseRepo, authz),
		instructor: &util.Claims{UserID: instructor.ID, Role: model.Instructor},
		student:    &util.Claims{UserID: student.ID, Role: model.Student},
	}

	course, err := f.svc.CreateCourse(f.instructor, &CreateCourseRequest{
		Title:        "Intro to Chemistry",
		Outcomes:     []string{"Balance equations", "Name compounds"},
		Requirements: []string{"Basic algebra"},
	})
	require.NoError(t, err)
	f.course = course

	require.NoError(t, db.Create(&model.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error)
	return f
}

func TestAddOutcomeAppendsToList(t *testing.T) {
	f := newCourseFixture(t)

	outcome, err := f.svc.AddOutcome(f.instructor, f.course.ID, &OutcomeRequest{Text: "Read the periodic table"})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Position)

	outcomes, err := f.svc.ListOutcomes(f.instructor, f.course.ID)
	require.NoError(t, err)
	assert.Len(t, outcomes, 3)
}

func TestUpdateAndDeleteOutcome(t *testing.T) {
	f := newCourseFixture(t)
	outcomes, err := f.svc.ListOutcomes(f.instructor, f.course.ID)
	require.NoError(t, err)
	require.NotEmpty(t, outcomes)

	text := "Balance redox equations"
	updated, err := f.svc.UpdateOutcome(f.instructor, outcomes[0].ID, &UpdateOutcomeRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, text, updated.Text)

	require.NoError(t, f.svc.DeleteOutcome(f.instructor, outcomes[0].ID))
	remaining, err := f.svc.ListOutcomes(f.instructor, f.course.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, len(outcomes)-1)

	_, err = f.svc.UpdateOutcome(f.instructor, 9999, &UpdateOutcomeRequest{Text: &text})
	assert.ErrorIs(t, err, util.ErrOutcomeNotFound)
}

func TestOutcomeManageOnly(t *testing.T) {
	f := newCourseFixture(t)

	_, err := f.svc.AddOutcome(f.student, f.course.ID, &OutcomeRequest{Text: "Nope"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.svc.ListOutcomes(f.student, f.course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestRequirementLifecycle(t *testing.T) {
	f := newCourseFixture(t)

	requirement, err := f.svc.AddRequirement(f.instructor, f.course.ID, &OutcomeRequest{Text: "A lab notebook"})
	require.NoError(t, err)
	assert.Equal(t, 1, requirement.Position)

	text := "A bound lab notebook"
	updated, err := f.svc.UpdateRequirement(f.instructor, requirement.ID, &UpdateOutcomeRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, text, updated.Text)

	require.NoError(t, f.svc.DeleteRequirement(f.instructor, requirement.ID))
	err = f.svc.DeleteRequirement(f.instructor, requirement.ID)
	assert.ErrorIs(t, err, util.ErrRequirementNotFound)
}

func TestGetInstructorProfile(t *testing.T) {
	f := newCourseFixture(t)

	profile, err := f.svc.GetInstructorProfile(f.instructor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ama", profile.Instructor.Username)
	assert.Empty(t, profile.Instructor.Password)
	require.Len(t, profile.Courses, 1)
	assert.Equal(t, f.course.ID, profile.Courses[0].ID)

	// Students are not instructors, even with a valid user id.
	_, err = f.svc.GetInstructorProfile(f.student.UserID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestListLessonsByModule(t *testing.T) {
	f := newCourseFixture(t)

	m, err := f.svc.CreateModule(f.instructor, &CreateModuleRequest{CourseID: f.course.ID, Title: "Atoms"})
	require.NoError(t, err)

	second := &model.Lesson{CourseID: f.course.ID, ModuleID: &m.ID, Title: "Isotopes", Position: 1}
	first := &model.Lesson{CourseID: f.course.ID, ModuleID: &m.ID, Title: "Elements", Position: 0}
	require.NoError(t, f.db.Create(second).Error)
	require.NoError(t, f.db.Create(first).Error)

	lessons, err := f.lessons.ListByModule(f.student, m.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "Elements", lessons[0].Title)
	assert.Equal(t, "Isotopes", lessons[1].Title)

	outsider := &model.User{Username: "esi", Email: "esi@example.com", Role: model.Student}
	require.NoError(t, f.db.Create(outsider).Error)
	_, err = f.lessons.ListByModule(&util.Claims{UserID: outsider.ID, Role: model.Student}, m.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = f.lessons.ListByModule(f.student, 9999)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}
