package service

import (
	"encoding/json"
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

type quizFixture struct {
	db         *gorm.DB
	svc        *QuizService
	instructor *util.Claims
	student    *util.Claims
	quiz       *model.Quiz
	course     *model.Course
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()

	// A named in-memory database per test keeps gorm's pooled connections
	// on the same data without leaking state across tests.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	instructor := &model.User{Username: "ama", Email: "ama@example.com", Role: model.Instructor}
	student := &model.User{Username: "kofi", Email: "kofi@example.com", Role: model.Student}
	require.NoError(t, db.Create(instructor).Error)
	require.NoError(t, db.Create(student).Error)

	course := &model.Course{Title: "Intro to Biology", InstructorID: &instructor.ID}
	require.NoError(t, db.Create(course).Error)

	lesson := &model.Lesson{CourseID: course.ID, Title: "Cells"}
	require.NoError(t, db.Create(lesson).Error)

	require.NoError(t, db.Create(&model.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error)

	quiz := &model.Quiz{
		LessonID:     lesson.ID,
		Title:        "Cell quiz",
		PassingScore: 70,
		MaxAttempts:  3,
		IsActive:     true,
	}
	require.NoError(t, db.Create(quiz).Error)

	q1 := question(0, model.SingleChoice, []string{"Nucleus", "Ribosome", "Vacuole"}, "A", 1)
	q1.QuizID = quiz.ID
	q1.Text = "Which organelle holds DNA?"
	q1.Position = 0
	require.NoError(t, ValidateQuestion(&q1))
	require.NoError(t, db.Create(&q1).Error)

	q2 := question(0, model.MultipleChoice, []string{"Plant", "Animal", "Mineral"}, []string{"A", "B"}, 2)
	q2.QuizID = quiz.ID
	q2.Text = "Which kingdoms have cells?"
	q2.Position = 1
	require.NoError(t, ValidateQuestion(&q2))
	require.NoError(t, db.Create(&q2).Error)

	quizRepo := repository.NewQuizRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	authz := NewAuthorizationService(enrollmentRepo)

	return &quizFixture{
		db:         db,
		svc:        NewQuizService(quizRepo, attemptRepo, lessonRepo, courseRepo, authz),
		instructor: &util.Claims{UserID: instructor.ID, Role: model.Instructor},
		student:    &util.Claims{UserID: student.ID, Role: model.Student},
		quiz:       quiz,
		course:     course,
	}
}

func (f *quizFixture) correctAnswers(t *testing.T) *SubmitQuizRequest {
	t.Helper()
	quiz, err := repository.NewQuizRepository(f.db).FindByIDWithQuestions(f.quiz.ID)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)
	return &SubmitQuizRequest{Answers: map[uint]json.RawMessage{
		quiz.Questions[0].ID: json.RawMessage(`"A"`),
		quiz.Questions[1].ID: json.RawMessage(`["B","A"]`),
	}}
}

func TestSubmitQuizRecordsAttempt(t *testing.T) {
	f := newQuizFixture(t)

	result, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, f.correctAnswers(t))
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.TotalPoints)
	assert.Equal(t, 2, result.AttemptsRemaining)
	assert.NotZero(t, result.AttemptID)

	var count int64
	require.NoError(t, f.db.Model(&model.QuizAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitQuizCeiling(t *testing.T) {
	f := newQuizFixture(t)
	req := f.correctAnswers(t)

	for i := 0; i < 3; i++ {
		result, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, req)
		require.NoError(t, err)
		assert.Equal(t, 2-i, result.AttemptsRemaining)
	}

	_, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, req)
	assert.ErrorIs(t, err, util.ErrAttemptsExhausted)

	// The rejected submission must not add a row.
	var count int64
	require.NoError(t, f.db.Model(&model.QuizAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestSubmitQuizSingleAttempt(t *testing.T) {
	f := newQuizFixture(t)
	require.NoError(t, f.db.Model(&model.Quiz{}).Where("id = ?", f.quiz.ID).Update("max_attempts", 1).Error)

	req := f.correctAnswers(t)
	_, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, req)
	require.NoError(t, err)

	_, err = f.svc.SubmitQuiz(f.student, f.quiz.ID, req)
	assert.ErrorIs(t, err, util.ErrAttemptsExhausted)
}

func TestSubmitQuizInactive(t *testing.T) {
	f := newQuizFixture(t)
	require.NoError(t, f.db.Model(&model.Quiz{}).Where("id = ?", f.quiz.ID).Update("is_active", false).Error)

	_, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, f.correctAnswers(t))
	assert.ErrorIs(t, err, util.ErrQuizInactive)
}

func TestSubmitQuizNotEnrolled(t *testing.T) {
	f := newQuizFixture(t)
	outsider := &model.User{Username: "esi", Email: "esi@example.com", Role: model.Student}
	require.NoError(t, f.db.Create(outsider).Error)

	_, err := f.svc.SubmitQuiz(&util.Claims{UserID: outsider.ID, Role: model.Student}, f.quiz.ID, f.correctAnswers(t))
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestSubmitQuizBlankAnswers(t *testing.T) {
	f := newQuizFixture(t)

	// An all-blank submission is still a submission: it scores zero and
	// consumes an attempt.
	result, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, &SubmitQuizRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.AttemptsRemaining)

	var count int64
	require.NoError(t, f.db.Model(&model.QuizAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitQuizUnknownQuiz(t *testing.T) {
	f := newQuizFixture(t)
	_, err := f.svc.SubmitQuiz(f.student, 9999, &SubmitQuizRequest{Answers: map[uint]json.RawMessage{}})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestMyResultsBestAttempt(t *testing.T) {
	f := newQuizFixture(t)

	// First attempt has one question wrong, second is perfect.
	partial := f.correctAnswers(t)
	for id := range partial.Answers {
		partial.Answers[id] = json.RawMessage(`"C"`)
		break
	}
	_, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, partial)
	require.NoError(t, err)

	_, err = f.svc.SubmitQuiz(f.student, f.quiz.ID, f.correctAnswers(t))
	require.NoError(t, err)

	results, err := f.svc.MyResults(f.student, f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, results.AttemptsUsed)
	assert.Equal(t, 1, results.AttemptsRemaining)
	require.NotNil(t, results.BestAttempt)
	assert.Equal(t, 100.0, results.BestAttempt.Score)
}

func TestTakeQuizHidesAnswers(t *testing.T) {
	f := newQuizFixture(t)

	view, err := f.svc.TakeQuiz(f.student, f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.AttemptsRemaining)
	require.Len(t, view.Questions, 2)

	payload, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "answer")
	assert.NotContains(t, string(payload), "explanation")
}

func TestTakeQuizAfterExhaustion(t *testing.T) {
	f := newQuizFixture(t)
	req := f.correctAnswers(t)
	for i := 0; i < 3; i++ {
		_, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, req)
		require.NoError(t, err)
	}

	_, err := f.svc.TakeQuiz(f.student, f.quiz.ID)
	assert.ErrorIs(t, err, util.ErrAttemptsExhausted)
}

func TestGetAttemptAccess(t *testing.T) {
	f := newQuizFixture(t)
	result, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, f.correctAnswers(t))
	require.NoError(t, err)

	// The student who made the attempt and the course's instructor can
	// read it; another enrolled student cannot.
	attempt, err := f.svc.GetAttempt(f.student, result.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, result.AttemptID, attempt.ID)

	_, err = f.svc.GetAttempt(f.instructor, result.AttemptID)
	require.NoError(t, err)

	peer := &model.User{Username: "esi", Email: "esi@example.com", Role: model.Student}
	require.NoError(t, f.db.Create(peer).Error)
	require.NoError(t, f.db.Create(&model.Enrollment{StudentID: peer.ID, CourseID: f.course.ID}).Error)

	_, err = f.svc.GetAttempt(&util.Claims{UserID: peer.ID, Role: model.Student}, result.AttemptID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.svc.GetAttempt(f.student, 9999)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestListQuestionsManageOnly(t *testing.T) {
	f := newQuizFixture(t)

	questions, err := f.svc.ListQuestions(f.instructor, f.quiz.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	_, err = f.svc.ListQuestions(f.student, f.quiz.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestCreateQuestionRejectsInvalid(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.svc.CreateQuestion(f.instructor, &CreateQuestionRequest{
		QuizID:       f.quiz.ID,
		Text:         "Pick one",
		QuestionType: model.SingleChoice,
		Choices:      []string{"Only"},
		Answer:       json.RawMessage(`"A"`),
		Position:     5,
	})
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)
}

func TestCreateQuestionDeniedForStudent(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.svc.CreateQuestion(f.student, &CreateQuestionRequest{
		QuizID:       f.quiz.ID,
		Text:         "Pick one",
		QuestionType: model.TrueFalse,
		Answer:       json.RawMessage(`"True"`),
		Position:     5,
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestDeleteQuizKeepsAttempts(t *testing.T) {
	f := newQuizFixture(t)
	_, err := f.svc.SubmitQuiz(f.student, f.quiz.ID, f.correctAnswers(t))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteQuiz(f.instructor, f.quiz.ID))

	var attempts int64
	require.NoError(t, f.db.Model(&model.QuizAttempt{}).Count(&attempts).Error)
	assert.Equal(t, int64(1), attempts)

	var questions int64
	require.NoError(t, f.db.Model(&model.Question{}).Count(&questions).Error)
	assert.Equal(t, int64(0), questions)
}
