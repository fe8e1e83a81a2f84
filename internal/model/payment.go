package model

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment tracks one gateway transaction for a paid course. Reference is
// the order id sent to the gateway and must be unique.
// swagger:model Payment
type Payment struct {
	BaseModel
	UserID    uint          `gorm:"index;not null" json:"userId"`
	CourseID  uint          `gorm:"index;not null" json:"courseId"`
	Reference string        `gorm:"size:64;unique;not null" json:"reference"`
	Amount    float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency  string        `gorm:"size:10;default:'GHS'" json:"currency"`
	Status    PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Channel   string        `gorm:"size:50" json:"channel"`
	PaidAt    *time.Time    `json:"paidAt"`
}

func (Payment) TableName() string {
	return "payments"
}
