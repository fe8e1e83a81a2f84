package service

import (
	"errors"
	"math"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
	PaymentRepo    *repository.PaymentRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository,
	paymentRepo *repository.PaymentRepository) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
		PaymentRepo:    paymentRepo,
	}
}

// Enroll enrolls the student in a course. Free courses enroll directly;
// paid courses require a successful payment first.
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	if course.Price > 0 {
		paid, err := s.PaymentRepo.HasSuccessful(studentID, courseID)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, util.ErrPaymentRequired
		}
	}

	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}

	logger.Log.Info("student enrolled",
		zap.Uint("student_id", studentID),
		zap.Uint("course_id", courseID))
	return enrollment, nil
}

func (s *EnrollmentService) IsEnrolled(studentID, courseID uint) (bool, error) {
	return s.EnrollmentRepo.Exists(studentID, courseID)
}

// EnrolledCourse is one row of a student's course list with progress.
type EnrolledCourse struct {
	Course          model.Course `json:"course"`
	TotalLessons    int64        `json:"totalLessons"`
	LessonsComplete int64        `json:"lessonsComplete"`
	ProgressPercent float64      `json:"progressPercent"`
}

func (s *EnrollmentService) ListEnrolledCourses(studentID uint) ([]EnrolledCourse, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	courses := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		row := EnrolledCourse{Course: *e.Course}
		if row.Course.Instructor != nil {
			row.Course.Instructor.Password = ""
		}
		row.TotalLessons, err = s.CourseRepo.CountLessons(e.CourseID)
		if err != nil {
			return nil, err
		}
		row.LessonsComplete, err = s.ProgressRepo.CountCompleted(studentID, e.CourseID)
		if err != nil {
			return nil, err
		}
		row.ProgressPercent = progressPercent(row.LessonsComplete, row.TotalLessons)
		courses = append(courses, row)
	}
	return courses, nil
}

func progressPercent(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// LearningLesson decorates a lesson with the student's completion state.
type LearningLesson struct {
	model.Lesson
	Completed bool `json:"completed"`
}

type LearningModule struct {
	ID       uint             `json:"id"`
	Title    string           `json:"title"`
	Position int              `json:"position"`
	Duration int              `json:"duration"`
	Lessons  []LearningLesson `json:"lessons"`
}

// LearningView is the enrolled student's view of a course: the module
// tree with per-lesson completion and overall progress.
type LearningView struct {
	Course          model.Course     `json:"course"`
	Modules         []LearningModule `json:"modules"`
	Unassigned      []LearningLesson `json:"unassignedLessons,omitempty"`
	TotalLessons    int              `json:"totalLessons"`
	LessonsComplete int              `json:"lessonsComplete"`
	ProgressPercent float64          `json:"progressPercent"`
}

func (s *EnrollmentService) GetLearningView(studentID, courseID uint) (*LearningView, error) {
	enrolled, err := s.EnrollmentRepo.Exists(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.Instructor != nil {
		course.Instructor.Password = ""
	}

	completedIDs, err := s.ProgressRepo.CompletedLessonIDs(studentID, courseID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	view := &LearningView{Course: *course}
	view.Course.Modules = nil

	assigned := make(map[uint]bool)
	for _, m := range course.Modules {
		lm := LearningModule{
			ID:       m.ID,
			Title:    m.Title,
			Position: m.Position,
			Duration: m.DurationMinutes(),
		}
		for _, l := range m.Lessons {
			assigned[l.ID] = true
			lm.Lessons = append(lm.Lessons, LearningLesson{Lesson: l, Completed: completed[l.ID]})
			view.TotalLessons++
			if completed[l.ID] {
				view.LessonsComplete++
			}
		}
		view.Modules = append(view.Modules, lm)
	}

	// Lessons not attached to any module still count toward progress.
	lessons, err := s.LessonRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	for _, l := range lessons {
		if assigned[l.ID] {
			continue
		}
		view.Unassigned = append(view.Unassigned, LearningLesson{Lesson: l, Completed: completed[l.ID]})
		view.TotalLessons++
		if completed[l.ID] {
			view.LessonsComplete++
		}
	}

	view.ProgressPercent = progressPercent(int64(view.LessonsComplete), int64(view.TotalLessons))
	return view, nil
}

// CompleteLesson marks a lesson complete for the student. Idempotent.
func (s *EnrollmentService) CompleteLesson(studentID, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	enrolled, err := s.EnrollmentRepo.Exists(studentID, lesson.CourseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.ErrNotEnrolled
	}
	return s.ProgressRepo.MarkCompleted(studentID, lessonID)
}
