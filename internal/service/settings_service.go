package service

import (
	"context"

	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/repository"
)

type SettingsService struct {
	SettingsRepo *repository.SettingsRepository
	Cache        *CacheService
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, cache *CacheService) *SettingsService {
	return &SettingsService{SettingsRepo: settingsRepo, Cache: cache}
}

func (s *SettingsService) Get(ctx context.Context) (*model.CourseSettings, error) {
	return s.SettingsRepo.Get()
}

func (s *SettingsService) Update(ctx context.Context, patch model.SettingsPatch) (*model.CourseSettings, error) {
	settings, err := s.SettingsRepo.Get()
	if err != nil {
		return nil, err
	}
	patch.Apply(settings)
	if err := planner.ValidateSettings(*settings); err != nil {
		return nil, err
	}
	if err := s.SettingsRepo.Save(settings); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "settings", "updated", "")
	return settings, nil
}
