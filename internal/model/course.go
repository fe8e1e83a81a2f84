package model

// swagger:model Course
type Course struct {
	BaseModel
	Title        string  `gorm:"size:255;not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	Price        float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
	Category     string  `gorm:"size:100" json:"category"`
	Duration     int     `gorm:"default:0" json:"duration"` // Minutes
	Rating       float64 `gorm:"type:decimal(3,1);default:0" json:"rating"`
	PlaylistID   string  `gorm:"size:100" json:"playlistId"`  // YouTube playlist
	IntroVideoID string  `gorm:"size:50" json:"introVideoId"` // YouTube intro video
	InstructorID *uint   `gorm:"index" json:"instructorId"`   // kept on instructor deletion
	Instructor   *User   `gorm:"foreignKey:InstructorID;constraint:OnDelete:SET NULL" json:"instructor,omitempty"`

	Modules      []CourseModule      `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	Outcomes     []CourseOutcome     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"outcomes,omitempty"`
	Requirements []CourseRequirement `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"requirements,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule groups lessons inside a course, ordered by Position.
type CourseModule struct {
	BaseModel
	CourseID uint     `gorm:"index;not null" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Position int      `gorm:"default:0" json:"position"`
	Lessons  []Lesson `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// DurationMinutes sums the duration of all loaded lessons.
func (m *CourseModule) DurationMinutes() int {
	total := 0
	for _, l := range m.Lessons {
		total += l.Duration
	}
	return total
}

type CourseOutcome struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Text     string `gorm:"size:255;not null" json:"text"`
	Position int    `gorm:"default:0" json:"position"`
}

func (CourseOutcome) TableName() string {
	return "course_outcomes"
}

type CourseRequirement struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Text     string `gorm:"size:255;not null" json:"text"`
	Position int    `gorm:"default:0" json:"position"`
}

func (CourseRequirement) TableName() string {
	return "course_requirements"
}
