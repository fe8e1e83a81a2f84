package repository

import (
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) FindInstructorByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Where("id = ? AND role = ?", id, model.Instructor).First(&user).Error
	return &user, err
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

// ListStudentsByCourse returns the users enrolled in a course.
func (r *UserRepository) ListStudentsByCourse(courseID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.course_id = ? AND enrollments.deleted_at IS NULL", courseID).
		Find(&users).Error
	return users, err
}
