package repository

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").First(&course, id).Error
	return &course, err
}

// FindByIDWithContent loads the full course tree for detail views.
func (r *CourseRepository) FindByIDWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.position asc")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position asc")
		}).
		Preload("Outcomes", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_outcomes.position asc")
		}).
		Preload("Requirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_requirements.position asc")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(page, limit int) ([]model.Course, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	query := r.DB.Preload("Instructor").Order("created_at desc")
	if limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	err := query.Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).Where("course_id = ?", id).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.Assignment{}).Error; err != nil {
				return err
			}
			var quizIDs []uint
			if err := tx.Model(&model.Quiz{}).Where("lesson_id IN ?", lessonIDs).
				Pluck("id", &quizIDs).Error; err != nil {
				return err
			}
			if len(quizIDs) > 0 {
				if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Question{}).Error; err != nil {
					return err
				}
				if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.Quiz{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseModule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseOutcome{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseRequirement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) CountLessons(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *CourseRepository) CreateOutcome(outcome *model.CourseOutcome) error {
	return r.DB.Create(outcome).Error
}

func (r *CourseRepository) CreateOutcomes(outcomes []model.CourseOutcome) error {
	return r.DB.Create(&outcomes).Error
}

func (r *CourseRepository) ListOutcomes(courseID uint) ([]model.CourseOutcome, error) {
	var outcomes []model.CourseOutcome
	err := r.DB.Where("course_id = ?", courseID).Order("position asc").Find(&outcomes).Error
	return outcomes, err
}

func (r *CourseRepository) FindOutcomeByID(id uint) (*model.CourseOutcome, error) {
	var outcome model.CourseOutcome
	err := r.DB.First(&outcome, id).Error
	return &outcome, err
}

func (r *CourseRepository) UpdateOutcome(outcome *model.CourseOutcome) error {
	return r.DB.Save(outcome).Error
}

func (r *CourseRepository) DeleteOutcome(id uint) error {
	return r.DB.Delete(&model.CourseOutcome{}, id).Error
}

func (r *CourseRepository) CreateRequirement(req *model.CourseRequirement) error {
	return r.DB.Create(req).Error
}

func (r *CourseRepository) CreateRequirements(reqs []model.CourseRequirement) error {
	return r.DB.Create(&reqs).Error
}

func (r *CourseRepository) ListRequirements(courseID uint) ([]model.CourseRequirement, error) {
	var reqs []model.CourseRequirement
	err := r.DB.Where("course_id = ?", courseID).Order("position asc").Find(&reqs).Error
	return reqs, err
}

func (r *CourseRepository) FindRequirementByID(id uint) (*model.CourseRequirement, error) {
	var req model.CourseRequirement
	err := r.DB.First(&req, id).Error
	return &req, err
}

func (r *CourseRepository) UpdateRequirement(req *model.CourseRequirement) error {
	return r.DB.Save(req).Error
}

func (r *CourseRepository) DeleteRequirement(id uint) error {
	return r.DB.Delete(&model.CourseRequirement{}, id).Error
}
