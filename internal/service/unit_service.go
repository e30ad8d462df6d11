package service

import (
	"context"
	"fmt"
	"strconv"

	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/repository"
	"icd201_backend/internal/util"
)

type UnitService struct {
	UnitRepo     *repository.UnitRepository
	ResourceRepo *repository.ResourceRepository
	Cache        *CacheService
}

func NewUnitService(unitRepo *repository.UnitRepository, resourceRepo *repository.ResourceRepository, cache *CacheService) *UnitService {
	return &UnitService{
		UnitRepo:     unitRepo,
		ResourceRepo: resourceRepo,
		Cache:        cache,
	}
}

func (s *UnitService) List(ctx context.Context) ([]model.Unit, error) {
	return s.UnitRepo.FindAll()
}

func (s *UnitService) Get(ctx context.Context, id uint) (*model.Unit, error) {
	unit, err := s.UnitRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrUnitNotFound, id)
	}
	return unit, nil
}

func (s *UnitService) Create(ctx context.Context, in model.UnitInput) (*model.Unit, error) {
	unit := in.ToUnit()
	if err := planner.ValidateUnit(unit); err != nil {
		return nil, err
	}
	if err := s.UnitRepo.Create(&unit); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "unit", "created", fmtID(unit.ID))
	return s.Get(ctx, unit.ID)
}

func (s *UnitService) Update(ctx context.Context, id uint, patch model.UnitPatch) (*model.Unit, error) {
	unit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(unit)
	if err := planner.ValidateUnit(*unit); err != nil {
		return nil, err
	}
	if err := s.UnitRepo.Update(unit); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "unit", "updated", fmtID(id))
	return s.Get(ctx, id)
}

// Delete 删除单元（级联删除课时和日历事件）
func (s *UnitService) Delete(ctx context.Context, id uint) error {
	if err := s.UnitRepo.Delete(id); err != nil {
		return notFound(err, util.ErrUnitNotFound, id)
	}
	s.Cache.Notify(ctx, "unit", "deleted", fmtID(id))
	return nil
}

func (s *UnitService) AddLesson(ctx context.Context, unitID uint, in model.LessonInput) (*model.Unit, error) {
	if _, err := s.Get(ctx, unitID); err != nil {
		return nil, err
	}
	lesson := in.ToLesson()
	if err := s.validateLesson(lesson); err != nil {
		return nil, err
	}
	lesson.UnitID = unitID
	if err := s.UnitRepo.CreateLesson(&lesson); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "lesson", "created", fmtID(lesson.ID))
	return s.Get(ctx, unitID)
}

func (s *UnitService) UpdateLesson(ctx context.Context, unitID, lessonID uint, patch model.LessonPatch) (*model.Unit, error) {
	if _, err := s.Get(ctx, unitID); err != nil {
		return nil, err
	}
	lesson, err := s.UnitRepo.FindLesson(unitID, lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound, lessonID)
	}
	patch.Apply(lesson)
	if err := s.validateLesson(*lesson); err != nil {
		return nil, err
	}
	if err := s.UnitRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "lesson", "updated", fmtID(lessonID))
	return s.Get(ctx, unitID)
}

// DeleteLesson 删除课时及引用它的日历事件，返回更新后的单元
func (s *UnitService) DeleteLesson(ctx context.Context, unitID, lessonID uint) (*model.Unit, error) {
	if _, err := s.Get(ctx, unitID); err != nil {
		return nil, err
	}
	if err := s.UnitRepo.DeleteLesson(unitID, lessonID); err != nil {
		return nil, notFound(err, util.ErrLessonNotFound, lessonID)
	}
	s.Cache.Notify(ctx, "lesson", "deleted", fmtID(lessonID))
	return s.Get(ctx, unitID)
}

func (s *UnitService) validateLesson(lesson model.Lesson) error {
	resources, err := s.ResourceRepo.FindAll()
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	return planner.ValidateLesson(lesson, resources)
}

func fmtID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
