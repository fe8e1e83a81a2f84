package model

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	LessonID         uint   `gorm:"index;not null" json:"lessonId"`
	Title            string `gorm:"size:255;not null" json:"title"`
	Description      string `gorm:"type:text" json:"description"`
	PassingScore     int    `gorm:"default:70" json:"passingScore"` // Percentage 0-100
	MaxAttempts      int    `gorm:"default:3" json:"maxAttempts"`
	IsActive         bool   `gorm:"default:true" json:"isActive"`
	ShuffleQuestions bool   `gorm:"default:false" json:"shuffleQuestions"`
	TimeLimit        int    `gorm:"default:0" json:"timeLimit"` // Minutes, 0 = unlimited (advisory)

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// TotalPoints sums the point weights of all loaded questions.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// Question is a single gradable item. The shape of Answer depends on
// QuestionType: a single choice label for single_choice/true_false, a JSON
// list of labels for multiple_choice, free text (optionally |-delimited
// accepted variants) for short_answer.
// swagger:model Question
type Question struct {
	BaseModel
	QuizID       uint                        `gorm:"index;not null" json:"quizId"`
	Text         string                      `gorm:"type:text;not null" json:"text"`
	QuestionType QuestionType                `gorm:"size:30;not null" json:"questionType"`
	Choices      datatypes.JSONSlice[string] `gorm:"type:json" json:"choices"`
	Answer       datatypes.JSON              `gorm:"type:json" json:"answer,omitempty"`
	Points       int                         `gorm:"default:1" json:"points"`
	Position     int                         `gorm:"default:0" json:"position"`
	Explanation  string                      `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}
