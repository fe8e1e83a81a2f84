package service

import (
	"errors"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo *repository.LessonRepository
	ModuleRepo *repository.ModuleRepository
	CourseRepo *repository.CourseRepository
	Authz      *AuthorizationService
}

func NewLessonService(lessonRepo *repository.LessonRepository, moduleRepo *repository.ModuleRepository,
	courseRepo *repository.CourseRepository, authz *AuthorizationService) *LessonService {
	return &LessonService{
		LessonRepo: lessonRepo,
		ModuleRepo: moduleRepo,
		CourseRepo: courseRepo,
		Authz:      authz,
	}
}

type CreateLessonRequest struct {
	CourseID    uint                    `json:"courseId" binding:"required"`
	ModuleID    *uint                   `json:"moduleId"`
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	ContentType model.LessonContentType `json:"contentType"`
	VideoID     string                  `json:"videoId"`
	Content     string                  `json:"content"`
	Position    int                     `json:"position"`
	Duration    int                     `json:"duration" binding:"omitempty,min=0"`
}

func (s *LessonService) CreateLesson(actor *util.Claims, req *CreateLessonRequest) (*model.Lesson, error) {
	course, err := s.CourseRepo.FindByID(req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.ModuleID != nil {
		m, err := s.ModuleRepo.FindByID(*req.ModuleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrModuleNotFound
			}
			return nil, err
		}
		if m.CourseID != req.CourseID {
			return nil, util.ErrModuleNotFound
		}
	}

	lesson := &model.Lesson{
		CourseID:    req.CourseID,
		ModuleID:    req.ModuleID,
		Title:       req.Title,
		Description: req.Description,
		ContentType: req.ContentType,
		VideoID:     req.VideoID,
		Content:     req.Content,
		Position:    req.Position,
		Duration:    req.Duration,
	}
	if lesson.ContentType == "" {
		lesson.ContentType = model.LessonText
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

type UpdateLessonRequest struct {
	ModuleID    *uint                    `json:"moduleId"`
	Title       *string                  `json:"title"`
	Description *string                  `json:"description"`
	ContentType *model.LessonContentType `json:"contentType"`
	VideoID     *string                  `json:"videoId"`
	Content     *string                  `json:"content"`
	Position    *int                     `json:"position"`
	Duration    *int                     `json:"duration" binding:"omitempty,min=0"`
}

func (s *LessonService) UpdateLesson(actor *util.Claims, lessonID uint, req *UpdateLessonRequest) (*model.Lesson, error) {
	lesson, course, err := s.lessonWithCourse(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.ModuleID != nil {
		m, err := s.ModuleRepo.FindByID(*req.ModuleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrModuleNotFound
			}
			return nil, err
		}
		if m.CourseID != lesson.CourseID {
			return nil, util.ErrModuleNotFound
		}
		lesson.ModuleID = req.ModuleID
	}
	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.ContentType != nil {
		lesson.ContentType = *req.ContentType
	}
	if req.VideoID != nil {
		lesson.VideoID = *req.VideoID
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) DeleteLesson(actor *util.Claims, lessonID uint) error {
	_, course, err := s.lessonWithCourse(lessonID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

func (s *LessonService) GetLesson(actor *util.Claims, lessonID uint) (*model.Lesson, error) {
	lesson, course, err := s.lessonWithCourse(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByCourse(actor *util.Claims, courseID uint) ([]model.Lesson, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *LessonService) ListByModule(actor *util.Claims, moduleID uint) ([]model.Lesson, error) {
	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(m.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.Authz.RequireView(actor, course); err != nil {
		return nil, err
	}
	return s.LessonRepo.ListByModule(moduleID)
}

func (s *LessonService) lessonWithCourse(lessonID uint) (*model.Lesson, *model.Course, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrLessonNotFound
		}
		return nil, nil, err
	}
	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}
	return lesson, course, nil
}
