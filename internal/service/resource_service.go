package service

import (
	"context"
	"fmt"

	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/repository"
	"icd201_backend/internal/util"
)

type ResourceService struct {
	ResourceRepo *repository.ResourceRepository
	UnitRepo     *repository.UnitRepository
	CalendarRepo *repository.CalendarRepository
	SettingsRepo *repository.SettingsRepository
	Cache        *CacheService
}

func NewResourceService(
	resourceRepo *repository.ResourceRepository,
	unitRepo *repository.UnitRepository,
	calendarRepo *repository.CalendarRepository,
	settingsRepo *repository.SettingsRepository,
	cache *CacheService,
) *ResourceService {
	return &ResourceService{
		ResourceRepo: resourceRepo,
		UnitRepo:     unitRepo,
		CalendarRepo: calendarRepo,
		SettingsRepo: settingsRepo,
		Cache:        cache,
	}
}

func (s *ResourceService) List(ctx context.Context) ([]model.Resource, error) {
	return s.ResourceRepo.FindAll()
}

func (s *ResourceService) Get(ctx context.Context, id string) (*model.Resource, error) {
	resource, err := s.ResourceRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrResourceNotFound, id)
	}
	return resource, nil
}

func (s *ResourceService) Create(ctx context.Context, in model.ResourceInput) (*model.Resource, error) {
	resource := in.ToResource()
	if err := planner.ValidateResource(resource); err != nil {
		return nil, err
	}
	exists, err := s.ResourceRepo.Exists(resource.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", util.ErrResourceExists, resource.ID)
	}
	if err := s.ResourceRepo.Create(&resource); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "resource", "created", resource.ID)
	return &resource, nil
}

// Update 更新资源，id 不可修改
func (s *ResourceService) Update(ctx context.Context, id string, patch model.ResourcePatch) (*model.Resource, error) {
	resource, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(resource)
	if err := planner.ValidateResource(*resource); err != nil {
		return nil, err
	}
	if err := s.ResourceRepo.Update(resource); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "resource", "updated", id)
	return resource, nil
}

// Delete 删除资源并从课时和事件中移除引用
func (s *ResourceService) Delete(ctx context.Context, id string) error {
	if err := s.ResourceRepo.Delete(id); err != nil {
		return notFound(err, util.ErrResourceNotFound, id)
	}
	s.Cache.Notify(ctx, "resource", "deleted", id)
	return nil
}

func (s *ResourceService) Usage(ctx context.Context, id string) (*planner.ResourceUsage, error) {
	resource, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	units, err := s.UnitRepo.FindAll()
	if err != nil {
		return nil, err
	}
	events, err := s.CalendarRepo.FindAll(nil)
	if err != nil {
		return nil, err
	}
	settings, err := s.SettingsRepo.Get()
	if err != nil {
		return nil, err
	}
	usage := planner.ResourceUsageOf(units, events, *resource, *settings)
	return &usage, nil
}
