package model

import "gorm.io/datatypes"

type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

// ExportRecord 导出文档归档记录
// swagger:model ExportRecord
type ExportRecord struct {
	UUIDBase
	Format   ExportFormat   `gorm:"size:10;not null" json:"format"`
	Filename string         `gorm:"size:255;not null" json:"filename"`
	URL      string         `gorm:"size:512" json:"url"`
	Size     int64          `gorm:"default:0" json:"size"`
	Options  datatypes.JSON `json:"options"`
}

func (ExportRecord) TableName() string {
	return "export_records"
}
