package repository

import (
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) ListByLesson(lessonID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("lesson_id = ?", lessonID).Order("due_date asc").Find(&assignments).Error
	return assignments, err
}

// ListUpcomingByCourses returns assignments due after now across the
// given courses, soonest first.
func (r *AssignmentRepository) ListUpcomingByCourses(courseIDs []uint) ([]model.Assignment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var assignments []model.Assignment
	err := r.DB.
		Joins("JOIN lessons ON lessons.id = assignments.lesson_id").
		Where("lessons.course_id IN ? AND assignments.due_date > ? AND lessons.deleted_at IS NULL", courseIDs, time.Now()).
		Order("assignments.due_date asc").
		Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) Update(a *model.Assignment) error {
	return r.DB.Save(a).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assignment{}, id).Error
}
