package model

const (
	DefaultTotalHours        = 110
	DefaultTotalWeeks        = 18
	DefaultHoursPerWeek      = 6.1
	DefaultStartDate         = "2025-01-15"
	DefaultEndDate           = "2025-05-30"
	DefaultCourseTitle       = "ICD201 - Technologies numériques et innovations"
	DefaultCourseDescription = "Technologies numériques et innovations dans un monde en évolution"
)

// CourseSettings 课程全局设置（单例）
// swagger:model CourseSettings
type CourseSettings struct {
	ID                uint    `gorm:"primaryKey" json:"-"`
	TotalHours        int     `gorm:"not null" json:"total_hours"`
	TotalWeeks        int     `gorm:"not null" json:"total_weeks"`
	HoursPerWeek      float64 `gorm:"not null" json:"hours_per_week"`
	StartDate         string  `gorm:"size:10;not null" json:"start_date"`
	EndDate           string  `gorm:"size:10;not null" json:"end_date"`
	CourseTitle       string  `gorm:"size:255" json:"course_title"`
	CourseDescription string  `gorm:"type:text" json:"course_description"`
	Timestamps
}

func (CourseSettings) TableName() string {
	return "course_settings"
}

func DefaultCourseSettings() CourseSettings {
	return CourseSettings{
		ID:                1,
		TotalHours:        DefaultTotalHours,
		TotalWeeks:        DefaultTotalWeeks,
		HoursPerWeek:      DefaultHoursPerWeek,
		StartDate:         DefaultStartDate,
		EndDate:           DefaultEndDate,
		CourseTitle:       DefaultCourseTitle,
		CourseDescription: DefaultCourseDescription,
	}
}
