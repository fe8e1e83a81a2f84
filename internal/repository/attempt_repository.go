package repository

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"

	"gorm.io/gorm"
)

// AttemptRepository is append-only: attempts are never updated or deleted.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.First(&attempt, id).Error
	return &attempt, err
}

func (r *AttemptRepository) CountByStudentAndQuiz(studentID, quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) ListByStudentAndQuiz(studentID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("created_at desc").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByStudent(studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at desc").Find(&attempts).Error
	return attempts, err
}

// ListByStudentAndCourse returns a student's attempts on quizzes belonging
// to one course. Attempts on since-deleted quizzes stay visible; they are
// still part of the course's history.
func (r *AttemptRepository) ListByStudentAndCourse(studentID, courseID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Joins("JOIN lessons ON lessons.id = quizzes.lesson_id").
		Where("quiz_attempts.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Order("quiz_attempts.created_at desc").
		Find(&attempts).Error
	return attempts, err
}

type AttemptRow struct {
	model.QuizAttempt
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

func (r *AttemptRepository) ListByQuiz(quizID uint, page, limit int) ([]AttemptRow, int64, error) {
	var total int64
	query := r.DB.Table("quiz_attempts a").
		Select("a.*, u.username as student_name, u.email as student_email").
		Joins("JOIN users u ON a.student_id = u.id").
		Where("a.quiz_id = ? AND a.deleted_at IS NULL", quizID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AttemptRow
	offset := (page - 1) * limit
	err := query.Order("a.created_at desc").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}

// BestByStudentAndQuiz returns the highest-scoring attempt, most recent
// first on ties.
func (r *AttemptRepository) BestByStudentAndQuiz(studentID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("score desc, completed_at desc").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
