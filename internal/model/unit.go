package model

// Unit 课程单元，由若干课时组成
// swagger:model Unit
type Unit struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Duration    int      `gorm:"not null;default:0" json:"duration"`
	Description string   `gorm:"type:text" json:"description"`
	Objectives  []string `gorm:"serializer:json;type:text" json:"objectives"`
	Lessons     []Lesson `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE" json:"lessons"`
	Timestamps
}

func (Unit) TableName() string {
	return "units"
}

// LessonHours 单元内所有课时时长之和
func (u Unit) LessonHours() int {
	total := 0
	for _, l := range u.Lessons {
		total += l.Duration
	}
	return total
}

// Lesson 单元中的一个课时
// swagger:model Lesson
type Lesson struct {
	ID         uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	UnitID     uint     `gorm:"index;not null" json:"-"`
	Title      string   `gorm:"size:255;not null" json:"title"`
	Duration   int      `gorm:"not null" json:"duration"`
	Resources  []string `gorm:"serializer:json;type:text" json:"resources"`
	Activities []string `gorm:"serializer:json;type:text" json:"activities"`
	Content    string   `gorm:"type:text" json:"content"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// UsesResource 课时是否使用了指定资源
func (l Lesson) UsesResource(resourceID string) bool {
	return containsString(l.Resources, resourceID)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
