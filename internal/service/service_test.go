package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"icd201_backend/internal/config"
	"icd201_backend/internal/export"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/repository"
	"icd201_backend/internal/util"
	"icd201_backend/pkg/database"
)

type services struct {
	db       *gorm.DB
	units    *UnitService
	res      *ResourceService
	calendar *CalendarService
	settings *SettingsService
	stats    *StatsService
	exports  *ExportService
}

func setup(t *testing.T) *services {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	unitRepo := repository.NewUnitRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cache := NewCacheService(nil, 0)
	storage, err := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)

	calendar := NewCalendarService(calendarRepo, unitRepo, resourceRepo, settingsRepo, cache, planner.CountPolicy{})
	return &services{
		db:       db,
		units:    NewUnitService(unitRepo, resourceRepo, cache),
		res:      NewResourceService(resourceRepo, unitRepo, calendarRepo, settingsRepo, cache),
		calendar: calendar,
		settings: NewSettingsService(settingsRepo, cache),
		stats:    NewStatsService(unitRepo, resourceRepo, calendarRepo, settingsRepo, calendar),
		exports:  NewExportService(unitRepo, resourceRepo, calendarRepo, settingsRepo, exportRepo, storage, true),
	}
}

func uintPtr(v uint) *uint { return &v }

func TestUnitDeleteCascades(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.units.Delete(ctx, 1))

	_, err := s.units.Get(ctx, 1)
	assert.ErrorIs(t, err, util.ErrUnitNotFound)

	events, err := s.calendar.List(ctx, planner.EventFilter{})
	require.NoError(t, err)
	for _, e := range events {
		assert.NotEqual(t, uint(1), e.UnitID)
	}
	assert.Len(t, events, 1)

	var lessons int64
	require.NoError(t, s.db.Model(&model.Lesson{}).Where("unit_id = ?", 1).Count(&lessons).Error)
	assert.Zero(t, lessons)

	assert.ErrorIs(t, s.units.Delete(ctx, 1), util.ErrUnitNotFound)
}

func TestUnitCreateAndUpdate(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	unit, err := s.units.Create(ctx, model.UnitInput{Title: "Projet final", Duration: 12})
	require.NoError(t, err)
	assert.Equal(t, uint(5), unit.ID)
	assert.Empty(t, unit.Lessons)
	assert.NotNil(t, unit.Objectives)

	title := "Projet intégrateur"
	unit, err = s.units.Update(ctx, unit.ID, model.UnitPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, unit.Title)
	assert.Equal(t, 12, unit.Duration)

	empty := ""
	_, err = s.units.Update(ctx, unit.ID, model.UnitPatch{Title: &empty})
	assert.ErrorIs(t, err, planner.ErrMissingField)
}

func TestLessonLifecycle(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	unit, err := s.units.AddLesson(ctx, 2, model.LessonInput{
		Title:     "Atelier",
		Duration:  2,
		Resources: []string{"iPad", "iPad"},
	})
	require.NoError(t, err)
	require.Len(t, unit.Lessons, 4)
	added := unit.Lessons[3]
	assert.Equal(t, []string{"iPad"}, added.Resources)

	_, err = s.units.AddLesson(ctx, 2, model.LessonInput{Title: "X", Duration: 1, Resources: []string{"laser"}})
	assert.ErrorIs(t, err, util.ErrUnknownResource)

	_, err = s.units.UpdateLesson(ctx, 1, added.ID, model.LessonPatch{})
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	unit, err = s.units.DeleteLesson(ctx, 1, 101)
	require.NoError(t, err)
	assert.Len(t, unit.Lessons, 2)

	// 引用该课时的事件一并删除
	events, err := s.calendar.List(ctx, planner.EventFilter{})
	require.NoError(t, err)
	for _, e := range events {
		if e.LessonID != nil {
			assert.NotEqual(t, uint(101), *e.LessonID)
		}
	}
	assert.Len(t, events, 2)
}

func TestResourceDeleteStripsReferences(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.res.Delete(ctx, "imprimantes3D"))

	_, err := s.res.Usage(ctx, "imprimantes3D")
	assert.ErrorIs(t, err, util.ErrResourceNotFound)

	units, err := s.units.List(ctx)
	require.NoError(t, err)
	for _, u := range units {
		for _, l := range u.Lessons {
			assert.False(t, l.UsesResource("imprimantes3D"), "lesson %d", l.ID)
		}
	}

	event, err := s.calendar.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"ordinateurs"}, event.Resources)

	assert.ErrorIs(t, s.res.Delete(ctx, "imprimantes3D"), util.ErrResourceNotFound)
}

func TestResourceDeleteEscapedID(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	for _, id := range []string{"son&lumiere", "50%_off"} {
		_, err := s.res.Create(ctx, model.ResourceInput{ID: id, Name: id, Quantity: 2})
		require.NoError(t, err)
	}
	unit, err := s.units.AddLesson(ctx, 2, model.LessonInput{
		Title:     "Spectacle",
		Duration:  2,
		Resources: []string{"son&lumiere", "iPad"},
	})
	require.NoError(t, err)
	added := unit.Lessons[len(unit.Lessons)-1]

	// 另一个课时只引用与通配符模式形似的 id
	_, err = s.units.AddLesson(ctx, 3, model.LessonInput{Title: "Soldes", Duration: 1, Resources: []string{"50%_off"}})
	require.NoError(t, err)

	require.NoError(t, s.res.Delete(ctx, "son&lumiere"))

	unit, err = s.units.Get(ctx, 2)
	require.NoError(t, err)
	var resources []string
	for _, l := range unit.Lessons {
		if l.ID == added.ID {
			resources = l.Resources
		}
	}
	assert.Equal(t, []string{"iPad"}, resources)

	title := "Spectacle final"
	_, err = s.units.UpdateLesson(ctx, 2, added.ID, model.LessonPatch{Title: &title})
	require.NoError(t, err)

	require.NoError(t, s.res.Delete(ctx, "50%_off"))
	units, err := s.units.List(ctx)
	require.NoError(t, err)
	for _, u := range units {
		for _, l := range u.Lessons {
			assert.False(t, l.UsesResource("50%_off"), "lesson %d", l.ID)
		}
	}
}

func TestSeedAfterUnitsDeleted(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.res.Delete(ctx, "iPad"))
	for id := uint(1); id <= 4; id++ {
		require.NoError(t, s.units.Delete(ctx, id))
	}
	require.NoError(t, database.Seed(s.db))

	units, err := s.units.List(ctx)
	require.NoError(t, err)
	assert.Len(t, units, 4)
	for _, u := range units {
		for _, l := range u.Lessons {
			assert.False(t, l.UsesResource("iPad"), "lesson %d", l.ID)
		}
	}

	resources, err := s.res.List(ctx)
	require.NoError(t, err)
	assert.Len(t, resources, 3)

	events, err := s.calendar.List(ctx, planner.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"ordinateurs"}, events[0].Resources)

	// 已有数据时重复执行不产生变化
	require.NoError(t, database.Seed(s.db))
	units, err = s.units.List(ctx)
	require.NoError(t, err)
	assert.Len(t, units, 4)
}

func TestResourceCreateKeepsOrder(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	_, err := s.res.Create(ctx, model.ResourceInput{ID: "ordinateurs", Name: "Doublon", Quantity: 1})
	assert.ErrorIs(t, err, util.ErrResourceExists)
	assert.True(t, util.IsBadRequest(err))

	_, err = s.res.Create(ctx, model.ResourceInput{ID: "casques", Name: "Casques VR", Quantity: 6})
	require.NoError(t, err)

	list, err := s.res.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"ordinateurs", "iPad", "imprimantes3D", "dispositifsAudioUSB", "casques"}, ids)

	quantity := 0
	_, err = s.res.Update(ctx, "casques", model.ResourcePatch{Quantity: &quantity})
	assert.ErrorIs(t, err, planner.ErrInvalidQuantity)
}

func TestResourceUsage(t *testing.T) {
	s := setup(t)
	usage, err := s.res.Usage(context.Background(), "ordinateurs")
	require.NoError(t, err)
	assert.Equal(t, 83, usage.TotalHours)
	assert.Equal(t, 15, usage.ScheduledHours)
	assert.Equal(t, 12, usage.LessonsCount)
}

func TestCalendarValidation(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	_, err := s.calendar.Create(ctx, model.EventInput{Title: "X", UnitID: 1, LessonID: uintPtr(201), Date: "2025-03-03", Duration: 2})
	assert.ErrorIs(t, err, util.ErrLessonNotInUnit)

	_, err = s.calendar.Create(ctx, model.EventInput{Title: "X", UnitID: 9, Date: "2025-03-03", Duration: 2})
	assert.ErrorIs(t, err, util.ErrUnknownUnit)

	_, err = s.calendar.Create(ctx, model.EventInput{Title: "X", UnitID: 1, Date: "2025-03-03", Duration: 2, Resources: []string{"laser"}})
	assert.ErrorIs(t, err, util.ErrUnknownResource)

	event, err := s.calendar.Create(ctx, model.EventInput{Title: "Révision", UnitID: 1, Date: "2025-03-03", Duration: 2})
	require.NoError(t, err)
	assert.NotZero(t, event.ID)

	day, err := s.calendar.Day(ctx, "2025-03-03")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "Révision", day[0].Title)

	_, err = s.calendar.Day(ctx, "03/03/2025")
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	bad := "2025-13-40"
	_, err = s.calendar.Update(ctx, event.ID, model.EventPatch{Date: &bad})
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	require.NoError(t, s.calendar.Delete(ctx, event.ID))
	assert.ErrorIs(t, s.calendar.Delete(ctx, event.ID), util.ErrEventNotFound)
}

func TestCalendarMoveEventClearsLesson(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	_, err := s.calendar.Update(ctx, 1, model.EventPatch{UnitID: uintPtr(2)})
	assert.ErrorIs(t, err, util.ErrLessonNotInUnit)

	event, err := s.calendar.Update(ctx, 1, model.EventPatch{UnitID: uintPtr(2), ClearLesson: true})
	require.NoError(t, err)
	assert.Equal(t, uint(2), event.UnitID)
	assert.Nil(t, event.LessonID)

	stored, err := s.calendar.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, stored.LessonID)

	day, err := s.calendar.Day(ctx, "2025-01-15T00:00:00.000Z")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, uint(1), day[0].ID)
}

func TestCalendarFilterAndWeeks(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	byUnit, err := s.calendar.List(ctx, planner.EventFilter{UnitID: uintPtr(1)})
	require.NoError(t, err)
	assert.Len(t, byUnit, 2)

	byResource, err := s.calendar.List(ctx, planner.EventFilter{ResourceID: "imprimantes3D"})
	require.NoError(t, err)
	require.Len(t, byResource, 1)
	assert.Equal(t, uint(3), byResource[0].ID)

	weeks, err := s.calendar.Weeks(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 18)
	assert.Equal(t, "2025-01-15", weeks[0].StartDate)
	assert.Len(t, weeks[0].Events, 1)
	assert.Equal(t, 3, weeks[0].TotalHours)
}

func TestConflictsFollowPolicy(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	report, err := s.calendar.Conflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
	assert.Equal(t, planner.PolicyCount, report.Policy)

	for i := 0; i < 4; i++ {
		_, err := s.calendar.Create(ctx, model.EventInput{
			Title: fmt.Sprintf("Impression %d", i+1), UnitID: 2, LessonID: uintPtr(202),
			Date: "2025-03-05", Duration: 2, Resources: []string{"imprimantes3D"},
		})
		require.NoError(t, err)
	}

	report, err = s.calendar.Conflicts(ctx)
	require.NoError(t, err)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "imprimantes3D", report.Conflicts[0].ResourceID)
	assert.Equal(t, 4, report.Conflicts[0].ConflictCount)

	s.calendar.SetPolicy(planner.HoursPolicy{HoursPerDay: 8})
	report, err = s.calendar.Conflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
	assert.Equal(t, planner.PolicyHours, report.Policy)

	// 删除资源后不再有冲突
	s.calendar.SetPolicy(planner.CountPolicy{})
	require.NoError(t, s.res.Delete(ctx, "imprimantes3D"))
	report, err = s.calendar.Conflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
}

func TestSettingsUpdate(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	end := "2025-01-01"
	_, err := s.settings.Update(ctx, model.SettingsPatch{EndDate: &end})
	assert.ErrorIs(t, err, util.ErrInvalidSettings)

	hours := 120
	settings, err := s.settings.Update(ctx, model.SettingsPatch{TotalHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 120, settings.TotalHours)

	settings, err = s.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, settings.TotalHours)
	assert.Equal(t, model.DefaultEndDate, settings.EndDate)
}

func TestStatsOverview(t *testing.T) {
	s := setup(t)
	report, err := s.stats.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.UnitsCount)
	assert.Equal(t, 4, report.ResourcesCount)
	assert.Equal(t, 3, report.EventsCount)
	assert.Equal(t, 15, report.ScheduledHours)
	assert.Equal(t, 110, report.PlannedHours)
	assert.InDelta(t, 100.0, report.ProgressPercent, 0.001)
	assert.Zero(t, report.ConflictsCount)
}

func TestExportGenerateArchives(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	s.exports.now = func() time.Time { return time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC) }

	doc, err := s.exports.Generate(ctx, model.ExportPDF, export.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "schema_cours_icd201_2025-02-01.pdf", doc.Filename)
	assert.Equal(t, util.MimePDF, doc.ContentType)
	assert.Equal(t, "%PDF", string(doc.Data[:4]))

	history, err := s.exports.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.ExportPDF, history[0].Format)
	assert.Equal(t, int64(len(doc.Data)), history[0].Size)
	assert.Contains(t, history[0].URL, "/uploads/exports/")
}

func TestExportSelection(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	opts := export.DefaultOptions()
	opts.SelectedUnits = []uint{42}
	_, err := s.exports.Generate(ctx, model.ExportXLSX, opts)
	assert.True(t, errors.Is(err, util.ErrNoUnits))
	assert.True(t, util.IsNotFound(err))

	opts.SelectedUnits = []uint{2, 3}
	opts.IncludeSchedule = false
	preview, err := s.exports.Preview(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.ExportSummary.SelectedUnits)
	assert.Nil(t, preview.CalendarSummary)
}
