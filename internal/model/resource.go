package model

// Resource 共享的教学设备（电脑、平板、3D 打印机等）
// swagger:model Resource
type Resource struct {
	ID           string `gorm:"primaryKey;size:100" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Quantity     int    `gorm:"not null" json:"quantity"`
	Description  string `gorm:"type:text" json:"description"`
	Availability string `gorm:"size:255" json:"availability"`
	// Position 创建顺序，列表按此排序
	Position int `gorm:"not null;default:0;index" json:"-"`
	Timestamps
}

func (Resource) TableName() string {
	return "resources"
}
