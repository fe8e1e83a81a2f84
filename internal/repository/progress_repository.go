package repository

import (
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkCompleted upserts the (student, lesson) progress row.
func (r *ProgressRepository) MarkCompleted(studentID, lessonID uint) error {
	now := time.Now()
	var progress model.LessonProgress
	err := r.DB.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		progress = model.LessonProgress{
			StudentID:   studentID,
			LessonID:    lessonID,
			Completed:   true,
			CompletedAt: &now,
		}
		return r.DB.Create(&progress).Error
	}
	if err != nil {
		return err
	}
	if progress.Completed {
		return nil
	}
	progress.Completed = true
	progress.CompletedAt = &now
	return r.DB.Save(&progress).Error
}

// CompletedLessonIDs returns the ids of a course's lessons the student
// has completed.
func (r *ProgressRepository) CompletedLessonIDs(studentID, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Where("lesson_progress.student_id = ? AND lessons.course_id = ? AND lesson_progress.completed = ? AND lessons.deleted_at IS NULL",
			studentID, courseID, true).
		Pluck("lesson_progress.lesson_id", &ids).Error
	return ids, err
}

func (r *ProgressRepository) CountCompleted(studentID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Where("lesson_progress.student_id = ? AND lessons.course_id = ? AND lesson_progress.completed = ? AND lessons.deleted_at IS NULL",
			studentID, courseID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) ListByStudent(studentID uint) ([]model.LessonProgress, error) {
	var progress []model.LessonProgress
	err := r.DB.Where("student_id = ?", studentID).Find(&progress).Error
	return progress, err
}
