package repository

import (
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(p *model.Payment) error {
	return r.DB.Create(p).Error
}

func (r *PaymentRepository) FindByReference(reference string) (*model.Payment, error) {
	var p model.Payment
	err := r.DB.Where("reference = ?", reference).First(&p).Error
	return &p, err
}

func (r *PaymentRepository) Update(p *model.Payment) error {
	return r.DB.Save(p).Error
}

func (r *PaymentRepository) HasSuccessful(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Payment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.PaymentSuccess).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentRepository) ListByUser(userID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&payments).Error
	return payments, err
}
