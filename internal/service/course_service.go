package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "courses:catalog:p%d:l%d"
	catalogCacheTTL = 5 * time.Minute
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Authz          *AuthorizationService
	Redis          *redis.Client
}

func NewCourseService(courseRepo *repository.CourseRepository, moduleRepo *repository.ModuleRepository,
	userRepo *repository.UserRepository, enrollmentRepo *repository.EnrollmentRepository,
	authz *AuthorizationService, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		Authz:          authz,
		Redis:          rdb,
	}
}

type CreateCourseRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" binding:"omitempty,min=0"`
	Category     string   `json:"category"`
	Duration     int      `json:"duration" binding:"omitempty,min=0"`
	PlaylistID   string   `json:"playlistId"`
	IntroVideoID string   `json:"introVideoId"`
	Outcomes     []string `json:"outcomes"`
	Requirements []string `json:"requirements"`
}

func (s *CourseService) CreateCourse(actor *util.Claims, req *CreateCourseRequest) (*model.Course, error) {
	instructorID := actor.UserID
	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Duration:     req.Duration,
		PlaylistID:   req.PlaylistID,
		IntroVideoID: req.IntroVideoID,
		InstructorID: &instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	for i, text := range req.Outcomes {
		course.Outcomes = append(course.Outcomes, model.CourseOutcome{CourseID: course.ID, Text: text, Position: i})
	}
	for i, text := range req.Requirements {
		course.Requirements = append(course.Requirements, model.CourseRequirement{CourseID: course.ID, Text: text, Position: i})
	}
	if len(course.Outcomes) > 0 {
		if err := s.CourseRepo.CreateOutcomes(course.Outcomes); err != nil {
			return nil, err
		}
	}
	if len(course.Requirements) > 0 {
		if err := s.CourseRepo.CreateRequirements(course.Requirements); err != nil {
			return nil, err
		}
	}

	s.invalidateCatalog(context.Background())
	return course, nil
}

type UpdateCourseRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" binding:"omitempty,min=0"`
	Category     *string  `json:"category"`
	Duration     *int     `json:"duration" binding:"omitempty,min=0"`
	PlaylistID   *string  `json:"playlistId"`
	IntroVideoID *string  `json:"introVideoId"`
}

func (s *CourseService) UpdateCourse(actor *util.Claims, courseID uint, req *UpdateCourseRequest) (*model.Course, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.PlaylistID != nil {
		course.PlaylistID = *req.PlaylistID
	}
	if req.IntroVideoID != nil {
		course.IntroVideoID = *req.IntroVideoID
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog(context.Background())
	return course, nil
}

func (s *CourseService) DeleteCourse(actor *util.Claims, courseID uint) error {
	course, err := s.findCourse(courseID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}
	s.invalidateCatalog(context.Background())
	return nil
}

func (s *CourseService) findCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// CatalogEntry is the public listing projection of a course.
type CatalogEntry struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	Duration       int     `json:"duration"`
	Rating         float64 `json:"rating"`
	IntroVideoID   string  `json:"introVideoId"`
	InstructorName string  `json:"instructorName"`
	LessonCount    int64   `json:"lessonCount"`
	StudentCount   int64   `json:"studentCount"`
}

type CatalogPage struct {
	Courses []CatalogEntry `json:"courses"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

// ListCatalog returns the public course catalog. Pages are cached in
// Redis for a short TTL; writes invalidate the whole catalog.
func (s *CourseService) ListCatalog(ctx context.Context, page, limit int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	key := fmt.Sprintf(catalogCacheKey, page, limit)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var result CatalogPage
			if json.Unmarshal([]byte(cached), &result) == nil {
				return &result, nil
			}
		}
	}

	courses, total, err := s.CourseRepo.List(page, limit)
	if err != nil {
		return nil, err
	}

	result := &CatalogPage{
		Courses: make([]CatalogEntry, 0, len(courses)),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}
	for _, c := range courses {
		entry := CatalogEntry{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			Price:        c.Price,
			Category:     c.Category,
			Duration:     c.Duration,
			Rating:       c.Rating,
			IntroVideoID: c.IntroVideoID,
		}
		if c.Instructor != nil {
			entry.InstructorName = c.Instructor.FirstName + " " + c.Instructor.LastName
		}
		if n, err := s.CourseRepo.CountLessons(c.ID); err == nil {
			entry.LessonCount = n
		}
		if n, err := s.EnrollmentRepo.CountByCourse(c.ID); err == nil {
			entry.StudentCount = n
		}
		result.Courses = append(result.Courses, entry)
	}

	if s.Redis != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.Redis.Set(ctx, key, data, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache course catalog", zap.Error(err))
			}
		}
	}
	return result, nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, "courses:catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.Redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Log.Warn("failed to invalidate catalog cache", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("catalog cache scan failed", zap.Error(err))
	}
}

// GetCourseDetail returns the public view of one course: modules with
// lessons, outcomes, requirements, instructor. Lesson video ids are
// stripped unless the caller may view the content.
func (s *CourseService) GetCourseDetail(actor *util.Claims, courseID uint) (*model.Course, error) {
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

	canView := false
	if actor != nil {
		ok, err := s.Authz.Authorize(actor, course, ActionView)
		if err != nil {
			return nil, err
		}
		canView = ok
	}
	if !canView {
		for mi := range course.Modules {
			for li := range course.Modules[mi].Lessons {
				course.Modules[mi].Lessons[li].VideoID = ""
				course.Modules[mi].Lessons[li].Content = ""
			}
		}
	}
	return course, nil
}

func (s *CourseService) ListByInstructor(actor *util.Claims) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(actor.UserID)
}

type OutcomeRequest struct {
	Text     string `json:"text" binding:"required"`
	Position *int   `json:"position"`
}

// AddOutcome appends a learning outcome to a course. Without an explicit
// position it goes to the end of the list.
func (s *CourseService) AddOutcome(actor *util.Claims, courseID uint, req *OutcomeRequest) (*model.CourseOutcome, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	outcome := &model.CourseOutcome{CourseID: courseID, Text: req.Text}
	if req.Position != nil {
		outcome.Position = *req.Position
	} else {
		existing, err := s.CourseRepo.ListOutcomes(courseID)
		if err != nil {
			return nil, err
		}
		outcome.Position = len(existing)
	}
	if err := s.CourseRepo.CreateOutcome(outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *CourseService) ListOutcomes(actor *util.Claims, courseID uint) ([]model.CourseOutcome, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}
	return s.CourseRepo.ListOutcomes(courseID)
}

type UpdateOutcomeRequest struct {
	Text     *string `json:"text"`
	Position *int    `json:"position"`
}

func (s *CourseService) UpdateOutcome(actor *util.Claims, outcomeID uint, req *UpdateOutcomeRequest) (*model.CourseOutcome, error) {
	outcome, err := s.CourseRepo.FindOutcomeByID(outcomeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrOutcomeNotFound
		}
		return nil, err
	}
	course, err := s.findCourse(outcome.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.Text != nil {
		outcome.Text = *req.Text
	}
	if req.Position != nil {
		outcome.Position = *req.Position
	}
	if err := s.CourseRepo.UpdateOutcome(outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *CourseService) DeleteOutcome(actor *util.Claims, outcomeID uint) error {
	outcome, err := s.CourseRepo.FindOutcomeByID(outcomeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrOutcomeNotFound
		}
		return err
	}
	course, err := s.findCourse(outcome.CourseID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.CourseRepo.DeleteOutcome(outcomeID)
}

func (s *CourseService) AddRequirement(actor *util.Claims, courseID uint, req *OutcomeRequest) (*model.CourseRequirement, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	requirement := &model.CourseRequirement{CourseID: courseID, Text: req.Text}
	if req.Position != nil {
		requirement.Position = *req.Position
	} else {
		existing, err := s.CourseRepo.ListRequirements(courseID)
		if err != nil {
			return nil, err
		}
		requirement.Position = len(existing)
	}
	if err := s.CourseRepo.CreateRequirement(requirement); err != nil {
		return nil, err
	}
	return requirement, nil
}

func (s *CourseService) ListRequirements(actor *util.Claims, courseID uint) ([]model.CourseRequirement, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}
	return s.CourseRepo.ListRequirements(courseID)
}

func (s *CourseService) UpdateRequirement(actor *util.Claims, requirementID uint, req *UpdateOutcomeRequest) (*model.CourseRequirement, error) {
	requirement, err := s.CourseRepo.FindRequirementByID(requirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRequirementNotFound
		}
		return nil, err
	}
	course, err := s.findCourse(requirement.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.Text != nil {
		requirement.Text = *req.Text
	}
	if req.Position != nil {
		requirement.Position = *req.Position
	}
	if err := s.CourseRepo.UpdateRequirement(requirement); err != nil {
		return nil, err
	}
	return requirement, nil
}

func (s *CourseService) DeleteRequirement(actor *util.Claims, requirementID uint) error {
	requirement, err := s.CourseRepo.FindRequirementByID(requirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrRequirementNotFound
		}
		return err
	}
	course, err := s.findCourse(requirement.CourseID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.CourseRepo.DeleteRequirement(requirementID)
}

// InstructorProfile is the public card for one instructor: who they are
// and what they teach.
type InstructorProfile struct {
	Instructor model.User     `json:"instructor"`
	Courses    []model.Course `json:"courses"`
}

func (s *CourseService) GetInstructorProfile(instructorID uint) (*InstructorProfile, error) {
	instructor, err := s.UserRepo.FindInstructorByID(instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	instructor.Password = ""

	courses, err := s.CourseRepo.ListByInstructor(instructorID)
	if err != nil {
		return nil, err
	}
	return &InstructorProfile{Instructor: *instructor, Courses: courses}, nil
}

type CreateModuleRequest struct {
	CourseID uint   `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Position int    `json:"position"`
}

func (s *CourseService) CreateModule(actor *util.Claims, req *CreateModuleRequest) (*model.CourseModule, error) {
	course, err := s.findCourse(req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	m := &model.CourseModule{CourseID: req.CourseID, Title: req.Title, Position: req.Position}
	if err := s.ModuleRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

type UpdateModuleRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

func (s *CourseService) UpdateModule(actor *util.Claims, moduleID uint, req *UpdateModuleRequest) (*model.CourseModule, error) {
	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	course, err := s.findCourse(m.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Position != nil {
		m.Position = *req.Position
	}
	if err := s.ModuleRepo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) DeleteModule(actor *util.Claims, moduleID uint) error {
	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}
	course, err := s.findCourse(m.CourseID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.ModuleRepo.Delete(moduleID)
}

type ReorderModulesRequest struct {
	ModuleIDs []uint `json:"moduleIds" binding:"required,min=1"`
}

func (s *CourseService) ReorderModules(actor *util.Claims, courseID uint, req *ReorderModulesRequest) error {
	course, err := s.findCourse(courseID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireManage(actor, course); err != nil {
		return err
	}
	return s.ModuleRepo.Reorder(courseID, req.ModuleIDs)
}
