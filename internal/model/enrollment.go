package model

import "time"

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID uint    `gorm:"not null;uniqueIndex:ux_enrollments_student_course" json:"studentId"`
	CourseID  uint    `gorm:"not null;uniqueIndex:ux_enrollments_student_course" json:"courseId"`
	Course    *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	StudentID   uint       `gorm:"not null;uniqueIndex:ux_lesson_progress_student_lesson" json:"studentId"`
	LessonID    uint       `gorm:"not null;uniqueIndex:ux_lesson_progress_student_lesson" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
