package service

import (
	"context"
	"fmt"
	"sync"

	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/repository"
	"icd201_backend/internal/util"
	"icd201_backend/pkg/monitoring"
)

// ConflictReport 冲突检测结果
type ConflictReport struct {
	Conflicts []planner.Contention `json:"conflicts"`
	Policy    string               `json:"policy"`
}

type CalendarService struct {
	CalendarRepo *repository.CalendarRepository
	UnitRepo     *repository.UnitRepository
	ResourceRepo *repository.ResourceRepository
	SettingsRepo *repository.SettingsRepository
	Cache        *CacheService

	mu     sync.RWMutex
	policy planner.Policy
}

func NewCalendarService(
	calendarRepo *repository.CalendarRepository,
	unitRepo *repository.UnitRepository,
	resourceRepo *repository.ResourceRepository,
	settingsRepo *repository.SettingsRepository,
	cache *CacheService,
	policy planner.Policy,
) *CalendarService {
	if policy == nil {
		policy = planner.CountPolicy{}
	}
	return &CalendarService{
		CalendarRepo: calendarRepo,
		UnitRepo:     unitRepo,
		ResourceRepo: resourceRepo,
		SettingsRepo: settingsRepo,
		Cache:        cache,
		policy:       policy,
	}
}

// SetPolicy 替换冲突判定策略（配置热更新时调用）
func (s *CalendarService) SetPolicy(p planner.Policy) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
}

func (s *CalendarService) Policy() planner.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// List 返回按日期排序、满足过滤条件的事件
func (s *CalendarService) List(ctx context.Context, filter planner.EventFilter) ([]model.CalendarEvent, error) {
	events, err := s.CalendarRepo.FindAll(filter.UnitID)
	if err != nil {
		return nil, err
	}
	if filter.ResourceID != "" {
		events = planner.FilterEvents(events, planner.EventFilter{ResourceID: filter.ResourceID})
	}
	return events, nil
}

func (s *CalendarService) Get(ctx context.Context, id uint) (*model.CalendarEvent, error) {
	event, err := s.CalendarRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrEventNotFound, id)
	}
	return event, nil
}

func (s *CalendarService) Create(ctx context.Context, in model.EventInput) (*model.CalendarEvent, error) {
	event := in.ToEvent()
	if err := s.validate(event); err != nil {
		return nil, err
	}
	if err := s.CalendarRepo.Create(&event); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "event", "created", fmtID(event.ID))
	return &event, nil
}

func (s *CalendarService) Update(ctx context.Context, id uint, patch model.EventPatch) (*model.CalendarEvent, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(event)
	if err := s.validate(*event); err != nil {
		return nil, err
	}
	if err := s.CalendarRepo.Update(event); err != nil {
		return nil, err
	}
	s.Cache.Notify(ctx, "event", "updated", fmtID(id))
	return event, nil
}

func (s *CalendarService) Delete(ctx context.Context, id uint) error {
	if err := s.CalendarRepo.Delete(id); err != nil {
		return notFound(err, util.ErrEventNotFound, id)
	}
	s.Cache.Notify(ctx, "event", "deleted", fmtID(id))
	return nil
}

// Weeks 按课程设置生成周视图
func (s *CalendarService) Weeks(ctx context.Context) ([]planner.Week, error) {
	var weeks []planner.Week
	if s.Cache.GetJSON(ctx, cacheKeyWeeks, &weeks) {
		return weeks, nil
	}

	settings, err := s.SettingsRepo.Get()
	if err != nil {
		return nil, err
	}
	events, err := s.CalendarRepo.FindAll(nil)
	if err != nil {
		return nil, err
	}
	weeks, err = planner.WeeksFromSettings(events, *settings)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date %q", util.ErrInvalidSettings, settings.StartDate)
	}
	s.Cache.SetJSON(ctx, cacheKeyWeeks, weeks)
	return weeks, nil
}

// Day 返回某一天的事件
func (s *CalendarService) Day(ctx context.Context, date string) ([]model.CalendarEvent, error) {
	if !planner.IsValidDate(planner.NormalizeDate(date)) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidDate, date)
	}
	events, err := s.CalendarRepo.FindByDate(planner.NormalizeDate(date))
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *CalendarService) Conflicts(ctx context.Context) (*ConflictReport, error) {
	policy := s.Policy()
	key := cacheKeyConflictPrefix + policy.Name()

	var report ConflictReport
	if s.Cache.GetJSON(ctx, key, &report) {
		return &report, nil
	}

	events, err := s.CalendarRepo.FindAll(nil)
	if err != nil {
		return nil, err
	}
	resources, err := s.ResourceRepo.FindAll()
	if err != nil {
		return nil, err
	}
	report = ConflictReport{
		Conflicts: planner.DetectContentions(events, resources, policy),
		Policy:    policy.Name(),
	}
	monitoring.ConflictsDetected.WithLabelValues(policy.Name()).Set(float64(len(report.Conflicts)))
	s.Cache.SetJSON(ctx, key, report)
	return &report, nil
}

func (s *CalendarService) validate(event model.CalendarEvent) error {
	units, err := s.UnitRepo.FindAll()
	if err != nil {
		return fmt.Errorf("load units: %w", err)
	}
	resources, err := s.ResourceRepo.FindAll()
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	return planner.ValidateEvent(event, units, resources)
}
