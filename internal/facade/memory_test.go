package facade

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icd201_backend/internal/export"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	unit, err := m.CreateUnit(ctx, model.UnitInput{Title: "Projet", Duration: 6, Objectives: []string{"Livrer"}})
	require.NoError(t, err)
	got, err := m.GetUnit(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, unit, got)
	assert.Equal(t, uint(5), unit.ID)

	unit, err = m.AddLesson(ctx, unit.ID, model.LessonInput{Title: "Kick-off", Duration: 2, Resources: []string{"iPad"}})
	require.NoError(t, err)
	require.Len(t, unit.Lessons, 1)
	assert.Equal(t, uint(404), unit.Lessons[0].ID)

	res, err := m.CreateResource(ctx, model.ResourceInput{ID: "casques", Name: "Casques VR", Quantity: 4})
	require.NoError(t, err)
	gotRes, err := m.GetResource(ctx, "casques")
	require.NoError(t, err)
	assert.Equal(t, res, gotRes)

	lessonID := unit.Lessons[0].ID
	event, err := m.CreateEvent(ctx, model.EventInput{
		Title: "Kick-off", UnitID: unit.ID, LessonID: &lessonID,
		Date: "2025-03-10", Duration: 2, Resources: []string{"casques"},
	})
	require.NoError(t, err)
	gotEvent, err := m.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event, gotEvent)
	assert.Equal(t, uint(4), event.ID)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	units, err := m.ListUnits(ctx)
	require.NoError(t, err)
	units[0].Title = "modifié"
	units[0].Lessons[0].Resources[0] = "modifié"

	again, err := m.GetUnit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Fondements des technologies numériques", again.Title)
	assert.Equal(t, "ordinateurs", again.Lessons[0].Resources[0])
}

func TestMemoryDistinctIDs(t *testing.T) {
	m := NewMemory(nil)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan uint, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := m.CreateUnit(ctx, model.UnitInput{Title: "Même instant"})
			if err == nil {
				ids <- u.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 20)
}

func TestMemoryValidation(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	_, err := m.AddLesson(ctx, 1, model.LessonInput{Title: "X", Duration: 1, Resources: []string{"laser"}})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, errors.Is(err, planner.ErrUnknownResource))

	_, err = m.AddLesson(ctx, 1, model.LessonInput{Title: "X", Duration: 0})
	assert.True(t, errors.Is(err, planner.ErrInvalidDuration))

	_, err = m.CreateEvent(ctx, model.EventInput{Title: "X", UnitID: 1, Date: "2025-02-30", Duration: 1})
	assert.True(t, errors.Is(err, planner.ErrInvalidDate))

	_, err = m.CreateResource(ctx, model.ResourceInput{ID: "iPad", Name: "Doublon", Quantity: 1})
	assert.True(t, errors.Is(err, ErrDuplicateResource))

	_, err = m.GetUnit(ctx, 99)
	assert.True(t, IsNotFound(err))

	_, err = m.UpdateLesson(ctx, 2, 101, model.LessonPatch{})
	assert.True(t, IsNotFound(err))
}

func TestMemoryCascades(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	require.NoError(t, m.DeleteUnit(ctx, 1))
	events, err := m.ListEvents(ctx, planner.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint(3), events[0].ID)

	unit, err := m.DeleteLesson(ctx, 2, 201)
	require.NoError(t, err)
	assert.Len(t, unit.Lessons, 2)
	events, err = m.ListEvents(ctx, planner.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMemoryDeleteReferencedResource(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	require.NoError(t, m.DeleteResource(ctx, "imprimantes3D"))

	_, err := m.GetResourceUsage(ctx, "imprimantes3D")
	assert.True(t, IsNotFound(err))

	units, err := m.ListUnits(ctx)
	require.NoError(t, err)
	assert.Zero(t, planner.PlannedUsageHours(units, "imprimantes3D"))

	events, err := m.ListEvents(ctx, planner.EventFilter{ResourceID: "imprimantes3D"})
	require.NoError(t, err)
	assert.Empty(t, events)

	report, err := m.GetConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)

	usage, err := m.GetResourceUsage(ctx, "ordinateurs")
	require.NoError(t, err)
	assert.Equal(t, 83, usage.TotalHours)
}

func TestMemoryViewsAndSettings(t *testing.T) {
	m := NewMemory(planner.ExclusivePolicy{})
	ctx := context.Background()

	weeks, err := m.GetWeeksView(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 18)
	assert.Len(t, weeks[0].Events, 1)
	assert.Len(t, weeks[4].Events, 1)

	_, err = m.CreateEvent(ctx, model.EventInput{Title: "Bis", UnitID: 1, Date: "2025-01-15", Duration: 1, Resources: []string{"iPad"}})
	require.NoError(t, err)
	report, err := m.GetConflicts(ctx)
	require.NoError(t, err)
	assert.Equal(t, planner.PolicyExclusive, report.Policy)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "iPad", report.Conflicts[0].ResourceID)

	weeksCount := 20
	settings, err := m.UpdateSettings(ctx, model.SettingsPatch{TotalWeeks: &weeksCount})
	require.NoError(t, err)
	assert.Equal(t, 20, settings.TotalWeeks)
	weeks, err = m.GetWeeksView(ctx)
	require.NoError(t, err)
	assert.Len(t, weeks, 20)

	bad := "2024-01-01"
	_, err = m.UpdateSettings(ctx, model.SettingsPatch{EndDate: &bad})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestMemoryExport(t *testing.T) {
	m := NewMemory(nil)
	m.now = func() time.Time { return time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	doc, err := m.ExportDocument(ctx, export.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "schema_cours_icd201_2025-04-02.pdf", doc.Filename)
	assert.Equal(t, "%PDF", string(doc.Data[:4]))

	opts := export.DefaultOptions()
	opts.SelectedUnits = []uint{3}
	preview, err := m.PreviewExport(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, preview.ExportSummary.SelectedUnits)

	opts.SelectedUnits = []uint{99}
	_, err = m.ExportDocument(ctx, opts)
	assert.True(t, IsNotFound(err))

	assert.True(t, m.CheckConnection(ctx).Connected)
}

func TestMemoryMoveEventClearsLesson(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	unitID := uint(2)
	_, err := m.UpdateEvent(ctx, 1, model.EventPatch{UnitID: &unitID})
	assert.True(t, errors.Is(err, planner.ErrLessonNotInUnit))

	event, err := m.UpdateEvent(ctx, 1, model.EventPatch{UnitID: &unitID, ClearLesson: true})
	require.NoError(t, err)
	assert.Equal(t, uint(2), event.UnitID)
	assert.Nil(t, event.LessonID)

	lessonID := uint(201)
	event, err = m.UpdateEvent(ctx, 1, model.EventPatch{LessonID: &lessonID})
	require.NoError(t, err)
	require.NotNil(t, event.LessonID)
	assert.Equal(t, uint(201), *event.LessonID)
}

func TestMemoryExportScheduleSection(t *testing.T) {
	m := NewMemory(nil)

	opts := export.DefaultOptions()
	data, err := m.exportData(opts)
	require.NoError(t, err)
	assert.Len(t, data.Events, 3)

	opts.IncludeSchedule = false
	data, err = m.exportData(opts)
	require.NoError(t, err)
	assert.Nil(t, data.Events)

	preview, err := m.PreviewExport(context.Background(), opts)
	require.NoError(t, err)
	assert.Nil(t, preview.CalendarSummary)
}
