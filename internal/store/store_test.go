package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icd201_backend/internal/facade"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
)

func loaded(t *testing.T) *Store {
	t.Helper()
	s := New(facade.NewMemory(nil), nil)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoad(t *testing.T) {
	s := New(facade.NewMemory(nil), nil)
	assert.False(t, s.Loaded())
	assert.Empty(t, s.Units())

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Loaded())
	assert.Len(t, s.Units(), 4)
	assert.Len(t, s.Resources(), 4)
	assert.Len(t, s.Events(), 3)
	assert.Equal(t, "2025-01-15", s.Settings().StartDate)
}

func TestLookups(t *testing.T) {
	s := loaded(t)

	u, ok := s.Unit(2)
	require.True(t, ok)
	assert.Equal(t, "Innovation et conception numérique", u.Title)
	_, ok = s.Unit(99)
	assert.False(t, ok)

	l, owner, ok := s.Lesson(302)
	require.True(t, ok)
	assert.Equal(t, "Création vidéo et montage", l.Title)
	assert.Equal(t, uint(3), owner.ID)
	_, _, ok = s.Lesson(999)
	assert.False(t, ok)

	r, ok := s.Resource("iPad")
	require.True(t, ok)
	assert.Equal(t, 15, r.Quantity)
	_, ok = s.Resource("laser")
	assert.False(t, ok)

	e, ok := s.Event(3)
	require.True(t, ok)
	assert.Equal(t, "2025-02-12", e.Date)
	_, ok = s.Event(42)
	assert.False(t, ok)
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := loaded(t)

	units := s.Units()
	units[0].Lessons[0].Title = "modifié"
	events := s.Events()
	events[0].Resources[0] = "modifié"

	u, _ := s.Unit(1)
	assert.Equal(t, "Histoire des technologies numériques", u.Lessons[0].Title)
	e, _ := s.Event(1)
	assert.Equal(t, "ordinateurs", e.Resources[0])
}

func TestMutationsRefresh(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()

	var changes []Change
	cancel := s.Subscribe(func(c Change) { changes = append(changes, c) })
	defer cancel()

	unit, err := s.CreateUnit(ctx, model.UnitInput{Title: "Projet", Duration: 4})
	require.NoError(t, err)
	_, ok := s.Unit(unit.ID)
	assert.True(t, ok)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Has(Units))
	assert.False(t, changes[0].Has(Events))

	unit, err = s.AddLesson(ctx, unit.ID, model.LessonInput{Title: "Atelier", Duration: 4, Resources: []string{"iPad"}})
	require.NoError(t, err)
	lessonID := unit.Lessons[0].ID
	_, _, ok = s.Lesson(lessonID)
	assert.True(t, ok)

	event, err := s.CreateEvent(ctx, model.EventInput{Title: "Atelier", UnitID: unit.ID, LessonID: &lessonID, Date: "2025-03-03", Duration: 4, Resources: []string{"iPad"}})
	require.NoError(t, err)
	assert.Len(t, s.Day("2025-03-03"), 1)

	_, err = s.DeleteLesson(ctx, unit.ID, lessonID)
	require.NoError(t, err)
	_, ok = s.Event(event.ID)
	assert.False(t, ok)

	require.NoError(t, s.DeleteUnit(ctx, 1))
	_, ok = s.Unit(1)
	assert.False(t, ok)
	assert.Empty(t, s.Filter(planner.EventFilter{UnitID: uintPtr(1)}))

	hours := 150
	settings, err := s.UpdateSettings(ctx, model.SettingsPatch{TotalHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 150, settings.TotalHours)
	assert.Equal(t, 150, s.Settings().TotalHours)
}

func TestFailedMutationKeepsSnapshot(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()

	var calls int32
	cancel := s.Subscribe(func(Change) { atomic.AddInt32(&calls, 1) })

	_, err := s.CreateEvent(ctx, model.EventInput{Title: "X", UnitID: 99, Date: "2025-03-03", Duration: 1})
	assert.Equal(t, facade.KindValidation, facade.KindOf(err))
	assert.Len(t, s.Events(), 3)
	assert.Zero(t, atomic.LoadInt32(&calls))

	cancel()
	cancel()
	require.NoError(t, s.DeleteEvent(ctx, 1))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

type failingEvents struct {
	*facade.Memory
	err error
}

func (f failingEvents) ListEvents(context.Context, planner.EventFilter) ([]model.CalendarEvent, error) {
	return nil, f.err
}

func TestLoadError(t *testing.T) {
	boom := errors.New("boom")
	s := New(failingEvents{Memory: facade.NewMemory(nil), err: boom}, nil)

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Loaded())
	assert.Empty(t, s.Units())
}

func TestDerivedViews(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()

	weeks, err := s.Weeks()
	require.NoError(t, err)
	require.Len(t, weeks, 18)
	assert.Equal(t, "2025-01-15", weeks[0].StartDate)
	assert.Len(t, weeks[4].Events, 1)

	usage, ok := s.Usage("ordinateurs")
	require.True(t, ok)
	assert.Equal(t, 83, usage.TotalHours)
	assert.Equal(t, 15, usage.ScheduledHours)

	overview := s.Overview()
	assert.Equal(t, 4, overview.UnitsCount)
	assert.Equal(t, 12, overview.LessonsCount)
	assert.Zero(t, overview.ConflictsCount)

	for i := 0; i < 4; i++ {
		_, err := s.CreateEvent(ctx, model.EventInput{Title: "Impression", UnitID: 2, Date: "2025-03-05", Duration: 2, Resources: []string{"imprimantes3D"}})
		require.NoError(t, err)
	}
	contentions := s.Contentions()
	require.Len(t, contentions, 1)
	assert.Equal(t, "imprimantes3D", contentions[0].ResourceID)
	assert.Equal(t, 4, contentions[0].ConflictCount)

	require.NoError(t, s.DeleteResource(ctx, "imprimantes3D"))
	assert.Empty(t, s.Contentions())
	_, ok = s.Usage("imprimantes3D")
	assert.False(t, ok)
	assert.Zero(t, planner.PlannedUsageHours(s.Units(), "imprimantes3D"))
}

func uintPtr(v uint) *uint { return &v }
