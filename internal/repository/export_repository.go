package repository

import (
	"icd201_backend/internal/model"

	"gorm.io/gorm"
)

type ExportRepository struct {
	DB *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{DB: db}
}

func (r *ExportRepository) Create(record *model.ExportRecord) error {
	return r.DB.Create(record).Error
}

// FindRecent 最近的导出记录，limit <= 0 时默认 50 条
func (r *ExportRepository) FindRecent(limit int) ([]model.ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.ExportRecord
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

func (r *ExportRepository) FindByID(id string) (*model.ExportRecord, error) {
	var record model.ExportRecord
	err := r.DB.Where("id = ?", id).First(&record).Error
	return &record, err
}
