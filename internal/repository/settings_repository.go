package repository

import (
	"errors"

	"icd201_backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	DB *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// Get 返回课程设置，不存在时写入默认值
func (r *SettingsRepository) Get() (*model.CourseSettings, error) {
	var settings model.CourseSettings
	err := r.DB.Order("id ASC").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.DefaultCourseSettings()
		err = r.DB.Create(&settings).Error
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(settings *model.CourseSettings) error {
	return r.DB.Save(settings).Error
}
