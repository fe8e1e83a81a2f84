package repository

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(m *model.CourseModule) error {
	return r.DB.Create(m).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.CourseModule, error) {
	var m model.CourseModule
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.position asc")
	}).First(&m, id).Error
	return &m, err
}

func (r *ModuleRepository) ListByCourse(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("course_id = ?", courseID).Order("position asc").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Update(m *model.CourseModule) error {
	return r.DB.Save(m).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Lesson{}).Where("module_id = ?", id).
			Update("module_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CourseModule{}, id).Error
	})
}

// Reorder assigns new positions to a course's modules in one transaction.
func (r *ModuleRepository) Reorder(courseID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for position, id := range orderedIDs {
			result := tx.Model(&model.CourseModule{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("position", position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
