package model

// CalendarEvent 日历中的一次排课
// swagger:model CalendarEvent
type CalendarEvent struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string   `gorm:"size:255;not null" json:"title"`
	UnitID    uint     `gorm:"index;not null" json:"unit_id"`
	LessonID  *uint    `gorm:"index" json:"lesson_id"`
	Date      string   `gorm:"size:10;index;not null" json:"date"`
	Duration  int      `gorm:"not null" json:"duration"`
	Resources []string `gorm:"serializer:json;type:text" json:"resources"`
	Timestamps
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// UsesResource 事件是否占用了指定资源
func (e CalendarEvent) UsesResource(resourceID string) bool {
	return containsString(e.Resources, resourceID)
}
