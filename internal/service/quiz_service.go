package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/monitoring"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	LessonRepo  *repository.LessonRepository
	CourseRepo  *repository.CourseRepository
	Authz       *AuthorizationService
}

func NewQuizService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository,
	lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository,
	authz *AuthorizationService) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		LessonRepo:  lessonRepo,
		CourseRepo:  courseRepo,
		Authz:       authz,
	}
}

func (s *QuizService) courseForLesson(lessonID uint) (*model.Course, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *QuizService) courseForQuiz(quiz *model.Quiz) (*model.Course, error) {
	return s.courseForLesson(quiz.LessonID)
}

type CreateQuizRequest struct {
	LessonID         uint   `json:"lessonId" binding:"required"`
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	PassingScore     *int   `json:"passingScore" binding:"omitempty,min=0,max=100"`
	MaxAttempts      *int   `json:"maxAttempts" binding:"omitempty,min=1"`
	IsActive         *bool  `json:"isActive"`
	ShuffleQuestions bool   `json:"shuffleQuestions"`
	TimeLimit        int    `json:"timeLimit" binding:"omitempty,min=0"`
}

func (s *QuizService) CreateQuiz(actor *util.Claims, req *CreateQuizRequest) (*model.Quiz, error) {
	course, err := s.courseForLesson(req.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		LessonID:         req.LessonID,
		Title:            req.Title,
		Description:      req.Description,
		PassingScore:     70,
		MaxAttempts:      3,
		IsActive:         true,
		ShuffleQuestions: req.ShuffleQuestions,
		TimeLimit:        req.TimeLimit,
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

type UpdateQuizRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	PassingScore     *int    `json:"passingScore" binding:"omitempty,min=0,max=100"`
	MaxAttempts      *int    `json:"maxAttempts" binding:"omitempty,min=1"`
	IsActive         *bool   `json:"isActive"`
	ShuffleQuestions *bool   `json:"shuffleQuestions"`
	TimeLimit        *int    `json:"timeLimit" binding:"omitempty,min=0"`
}

func (s *QuizService) UpdateQuiz(actor *util.Claims, quizID uint, req *UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}
	if req.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(actor *util.Claims, quizID uint) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

// GetQuiz returns the quiz with questions including answers. Manage-only:
// students take quizzes through TakeQuiz.
func (s *QuizService) GetQuiz(actor *util.Claims, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListByLesson(actor *util.Claims, lessonID uint) ([]model.Quiz, error) {
	course, err := s.courseForLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListByLesson(lessonID)
}

type CreateQuestionRequest struct {
	QuizID       uint               `json:"quizId" binding:"required"`
	Text         string             `json:"text" binding:"required"`
	QuestionType model.QuestionType `json:"questionType" binding:"required"`
	Choices      []string           `json:"choices"`
	Answer       json.RawMessage    `json:"answer" binding:"required"`
	Points       int                `json:"points"`
	Position     int                `json:"position"`
	Explanation  string             `json:"explanation"`
}

func (s *QuizService) CreateQuestion(actor *util.Claims, req *CreateQuestionRequest) (*model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	question := &model.Question{
		QuizID:       req.QuizID,
		Text:         req.Text,
		QuestionType: req.QuestionType,
		Choices:      datatypes.NewJSONSlice(req.Choices),
		Answer:       datatypes.JSON(req.Answer),
		Points:       req.Points,
		Position:     req.Position,
		Explanation:  req.Explanation,
	}
	if question.Points == 0 {
		question.Points = 1
	}
	if err := ValidateQuestion(question); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

type UpdateQuestionRequest struct {
	Text         *string             `json:"text"`
	QuestionType *model.QuestionType `json:"questionType"`
	Choices      *[]string           `json:"choices"`
	Answer       json.RawMessage     `json:"answer"`
	Points       *int                `json:"points" binding:"omitempty,min=1"`
	Position     *int                `json:"position"`
	Explanation  *string             `json:"explanation"`
}

func (s *QuizService) UpdateQuestion(actor *util.Claims, questionID uint, req *UpdateQuestionRequest) (*model.Question, error) {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	quiz, err := s.QuizRepo.FindByID(question.QuizID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.QuestionType != nil {
		question.QuestionType = *req.QuestionType
	}
	if req.Choices != nil {
		question.Choices = datatypes.NewJSONSlice(*req.Choices)
	}
	if req.Answer != nil {
		question.Answer = datatypes.JSON(req.Answer)
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Position != nil {
		question.Position = *req.Position
	}
	if req.Explanation != nil {
		question.Explanation = *req.Explanation
	}

	// Re-validate the full question: a type change can invalidate a
	// previously valid answer shape.
	if err := ValidateQuestion(question); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) DeleteQuestion(actor *util.Claims, questionID uint) error {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	quiz, err := s.QuizRepo.FindByID(question.QuizID)
	if err != nil {
		return err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.QuizRepo.DeleteQuestion(questionID)
}

// TakeQuestion is the student-facing projection of a question: no answer,
// no explanation.
type TakeQuestion struct {
	ID           uint               `json:"id"`
	Text         string             `json:"text"`
	QuestionType model.QuestionType `json:"questionType"`
	Choices      []string           `json:"choices"`
	Points       int                `json:"points"`
	Position     int                `json:"position"`
}

type QuizTakeView struct {
	ID                uint           `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	PassingScore      int            `json:"passingScore"`
	TimeLimit         int            `json:"timeLimit"`
	MaxAttempts       int            `json:"maxAttempts"`
	AttemptsRemaining int            `json:"attemptsRemaining"`
	Questions         []TakeQuestion `json:"questions"`
}

// TakeQuiz returns the quiz as presented to a student: questions without
// answers, shuffled when the quiz asks for it. Shuffling is presentation
// only; grading is keyed by question id.
func (s *QuizService) TakeQuiz(actor *util.Claims, quizID uint) (*QuizTakeView, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizInactive
	}

	count, err := s.AttemptRepo.CountByStudentAndQuiz(actor.UserID, quizID)
	if err != nil {
		return nil, err
	}
	if count >= int64(quiz.MaxAttempts) {
		return nil, util.ErrAttemptsExhausted
	}

	view := &QuizTakeView{
		ID:                quiz.ID,
		Title:             quiz.Title,
		Description:       quiz.Description,
		PassingScore:      quiz.PassingScore,
		TimeLimit:         quiz.TimeLimit,
		MaxAttempts:       quiz.MaxAttempts,
		AttemptsRemaining: int(int64(quiz.MaxAttempts) - count),
		Questions:         make([]TakeQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, TakeQuestion{
			ID:           q.ID,
			Text:         q.Text,
			QuestionType: q.QuestionType,
			Choices:      q.Choices,
			Points:       q.Points,
			Position:     q.Position,
		})
	}
	if quiz.ShuffleQuestions {
		rand.Shuffle(len(view.Questions), func(i, j int) {
			view.Questions[i], view.Questions[j] = view.Questions[j], view.Questions[i]
		})
	}
	return view, nil
}

// SubmitQuizRequest carries the student's answers keyed by question id.
// Answers may be empty or missing entries; unanswered questions grade as
// incorrect.
type SubmitQuizRequest struct {
	Answers   map[uint]json.RawMessage `json:"answers"`
	TimeTaken int                      `json:"timeTaken"`
}

type SubmissionResult struct {
	AttemptID         uint             `json:"attemptId"`
	Score             float64          `json:"score"`
	EarnedPoints      int              `json:"earnedPoints"`
	TotalPoints       int              `json:"totalPoints"`
	Passed            bool             `json:"passed"`
	AttemptsRemaining int              `json:"attemptsRemaining"`
	Results           []QuestionResult `json:"results"`
}

// SubmitQuiz grades a submission and records the attempt. The
// ceiling check and the insert are not atomic; a student racing their
// own requests can land one extra attempt, which we accept.
func (s *QuizService) SubmitQuiz(actor *util.Claims, quizID uint, req *SubmitQuizRequest) (*SubmissionResult, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizInactive
	}

	count, err := s.AttemptRepo.CountByStudentAndQuiz(actor.UserID, quizID)
	if err != nil {
		return nil, err
	}
	if count >= int64(quiz.MaxAttempts) {
		return nil, util.ErrAttemptsExhausted
	}

	evaluation := EvaluateQuiz(quiz, req.Answers)

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	attempt := &model.QuizAttempt{
		QuizID:       quizID,
		StudentID:    actor.UserID,
		Score:        evaluation.Score,
		TotalPoints:  evaluation.TotalPoints,
		EarnedPoints: evaluation.EarnedPoints,
		Passed:       evaluation.Passed,
		Answers:      datatypes.JSON(answersJSON),
		StartedAt:    now.Add(-time.Duration(req.TimeTaken) * time.Second),
		CompletedAt:  &now,
		TimeTaken:    req.TimeTaken,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	outcome := "failed"
	if evaluation.Passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(outcome).Inc()

	remaining := quiz.MaxAttempts - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}
	return &SubmissionResult{
		AttemptID:         attempt.ID,
		Score:             evaluation.Score,
		EarnedPoints:      evaluation.EarnedPoints,
		TotalPoints:       evaluation.TotalPoints,
		Passed:            evaluation.Passed,
		AttemptsRemaining: remaining,
		Results:           evaluation.Results,
	}, nil
}

type QuizResults struct {
	QuizID            uint                `json:"quizId"`
	Title             string              `json:"title"`
	PassingScore      int                 `json:"passingScore"`
	MaxAttempts       int                 `json:"maxAttempts"`
	AttemptsUsed      int                 `json:"attemptsUsed"`
	AttemptsRemaining int                 `json:"attemptsRemaining"`
	BestAttempt       *model.QuizAttempt  `json:"bestAttempt"`
	Attempts          []model.QuizAttempt `json:"attempts"`
}

// MyResults returns the calling student's attempt history and best score
// for one quiz.
func (s *QuizService) MyResults(actor *util.Claims, quizID uint) (*QuizResults, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByStudentAndQuiz(actor.UserID, quizID)
	if err != nil {
		return nil, err
	}

	results := &QuizResults{
		QuizID:       quiz.ID,
		Title:        quiz.Title,
		PassingScore: quiz.PassingScore,
		MaxAttempts:  quiz.MaxAttempts,
		AttemptsUsed: len(attempts),
		Attempts:     attempts,
	}
	results.AttemptsRemaining = quiz.MaxAttempts - len(attempts)
	if results.AttemptsRemaining < 0 {
		results.AttemptsRemaining = 0
	}
	if len(attempts) > 0 {
		best, err := s.AttemptRepo.BestByStudentAndQuiz(actor.UserID, quizID)
		if err != nil {
			return nil, err
		}
		results.BestAttempt = best
	}
	return results, nil
}

// GetAttempt returns one attempt: the student who made it always, anyone
// else only with manage rights on the quiz's course.
func (s *QuizService) GetAttempt(actor *util.Claims, attemptID uint) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.StudentID == actor.UserID {
		return attempt, nil
	}

	quiz, err := s.QuizRepo.FindByID(attempt.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListQuestions returns a quiz's questions with answers. Manage-only.
func (s *QuizService) ListQuestions(actor *util.Claims, quizID uint) ([]model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListQuestions(quizID)
}

// ListAttempts pages through all students' attempts for a quiz. Manage-only.
func (s *QuizService) ListAttempts(actor *util.Claims, quizID uint, page, limit int) ([]repository.AttemptRow, int64, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.ErrQuizNotFound
		}
		return nil, 0, err
	}
	course, err := s.courseForQuiz(quiz)
	if err != nil {
		return nil, 0, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, 0, err
	}
	return s.AttemptRepo.ListByQuiz(quizID, page, limit)
}
