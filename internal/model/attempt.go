package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt is an append-only record of one graded submission. Attempts
// are never updated or deleted; they form the audit trail the attempt
// ceiling and best-score queries are computed from.
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	QuizID       uint           `gorm:"index;not null" json:"quizId"`
	StudentID    uint           `gorm:"index;not null" json:"studentId"`
	Score        float64        `gorm:"type:decimal(5,1);not null" json:"score"` // Percentage 0-100
	TotalPoints  int            `gorm:"not null" json:"totalPoints"`
	EarnedPoints int            `gorm:"not null" json:"earnedPoints"`
	Passed       bool           `gorm:"default:false" json:"passed"`
	Answers      datatypes.JSON `gorm:"type:json" json:"answers"` // question id -> submitted value
	StartedAt    time.Time      `json:"startedAt"`
	CompletedAt  *time.Time     `json:"completedAt"`
	TimeTaken    int            `gorm:"default:0" json:"timeTaken"` // Seconds, advisory
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
