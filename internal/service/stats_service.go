package service

import (
	"context"

	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

// OverviewReport 仪表盘统计与时长偏差
type OverviewReport struct {
	planner.Overview
	DurationDrift []planner.Drift `json:"duration_drift"`
}

type StatsService struct {
	UnitRepo     *repository.UnitRepository
	ResourceRepo *repository.ResourceRepository
	CalendarRepo *repository.CalendarRepository
	SettingsRepo *repository.SettingsRepository
	Calendar     *CalendarService
}

func NewStatsService(
	unitRepo *repository.UnitRepository,
	resourceRepo *repository.ResourceRepository,
	calendarRepo *repository.CalendarRepository,
	settingsRepo *repository.SettingsRepository,
	calendar *CalendarService,
) *StatsService {
	return &StatsService{
		UnitRepo:     unitRepo,
		ResourceRepo: resourceRepo,
		CalendarRepo: calendarRepo,
		SettingsRepo: settingsRepo,
		Calendar:     calendar,
	}
}

// Overview 并行加载各集合后计算统计
func (s *StatsService) Overview(ctx context.Context) (*OverviewReport, error) {
	var (
		units     []model.Unit
		resources []model.Resource
		events    []model.CalendarEvent
		settings  *model.CourseSettings
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		units, err = s.UnitRepo.FindAll()
		return
	})
	g.Go(func() (err error) {
		resources, err = s.ResourceRepo.FindAll()
		return
	})
	g.Go(func() (err error) {
		events, err = s.CalendarRepo.FindAll(nil)
		return
	})
	g.Go(func() (err error) {
		settings, err = s.SettingsRepo.Get()
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &OverviewReport{
		Overview:      planner.BuildOverview(units, resources, events, *settings, s.Calendar.Policy()),
		DurationDrift: planner.DurationDrift(units),
	}, nil
}
