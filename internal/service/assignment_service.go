package service

import (
	"errors"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	Authz          *AuthorizationService
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository, authz *AuthorizationService) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		Authz:          authz,
	}
}

type CreateAssignmentRequest struct {
	LessonID    uint      `json:"lessonId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
}

func (s *AssignmentService) CreateAssignment(actor *util.Claims, req *CreateAssignmentRequest) (*model.Assignment, error) {
	course, err := s.courseForLesson(req.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		LessonID:    req.LessonID,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		DueDate:     req.DueDate,
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

type UpdateAssignmentRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	FileURL     *string    `json:"fileUrl"`
	DueDate     *time.Time `json:"dueDate"`
}

func (s *AssignmentService) UpdateAssignment(actor *util.Claims, assignmentID uint, req *UpdateAssignmentRequest) (*model.Assignment, error) {
	assignment, course, err := s.assignmentWithCourse(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.FileURL != nil {
		assignment.FileURL = *req.FileURL
	}
	if req.DueDate != nil {
		assignment.DueDate = *req.DueDate
	}

	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) DeleteAssignment(actor *util.Claims, assignmentID uint) error {
	_, course, err := s.assignmentWithCourse(assignmentID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(assignmentID)
}

func (s *AssignmentService) ListByLesson(actor *util.Claims, lessonID uint) ([]model.Assignment, error) {
	course, err := s.courseForLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.ListByLesson(lessonID)
}

func (s *AssignmentService) courseForLesson(lessonID uint) (*model.Course, error) {
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

func (s *AssignmentService) assignmentWithCourse(assignmentID uint) (*model.Assignment, *model.Course, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrAssignmentNotFound
		}
		return nil, nil, err
	}
	course, err := s.courseForLesson(assignment.LessonID)
	if err != nil {
		return nil, nil, err
	}
	return assignment, course, nil
}
