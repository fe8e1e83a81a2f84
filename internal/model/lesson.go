package model

type LessonContentType string

const (
	LessonVideo LessonContentType = "video"
	LessonText  LessonContentType = "text"
	LessonMixed LessonContentType = "mixed"
)

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID    uint              `gorm:"index;not null" json:"courseId"`
	ModuleID    *uint             `gorm:"index" json:"moduleId"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	ContentType LessonContentType `gorm:"size:20;default:'text'" json:"contentType"`
	VideoID     string            `gorm:"size:50" json:"videoId"` // YouTube video
	Content     string            `gorm:"type:text" json:"content"`
	Position    int               `gorm:"default:0" json:"position"`
	Duration    int               `gorm:"default:0" json:"duration"` // Minutes
}

func (Lesson) TableName() string {
	return "lessons"
}
