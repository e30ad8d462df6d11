package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"icd201_backend/internal/fixture"
	"icd201_backend/internal/planner"
)

func TestProgressFixture(t *testing.T) {
	units := fixture.Units()
	assert.Equal(t, 110, planner.TotalPlannedHours(units))
	assert.Equal(t, 83, planner.TotalLessonHours(units))
	assert.Equal(t, 15, planner.TotalScheduledHours(fixture.Events()))
	assert.InDelta(t, 100.0, planner.ProgressPercent(units, fixture.Settings()), 1e-9)
}

func TestProgressLinearAndUnclamped(t *testing.T) {
	units := fixture.Units()
	settings := fixture.Settings()
	base := planner.ProgressPercent(units, settings)
	for i := range units {
		units[i].Duration *= 2
	}
	assert.InDelta(t, base*2, planner.ProgressPercent(units, settings), 1e-9)
	assert.Greater(t, planner.ProgressPercent(units, settings), 100.0)
}

func TestProgressZeroTotalHours(t *testing.T) {
	settings := fixture.Settings()
	settings.TotalHours = 0
	assert.Zero(t, planner.ProgressPercent(fixture.Units(), settings))
}

func TestDurationDrift(t *testing.T) {
	drift := planner.DurationDrift(fixture.Units())
	assert.Len(t, drift, 3)
	assert.Equal(t, uint(1), drift[0].UnitID)
	assert.Equal(t, 25, drift[0].Declared)
	assert.Equal(t, 10, drift[0].LessonHours)
}

func TestBuildOverview(t *testing.T) {
	o := planner.BuildOverview(fixture.Units(), fixture.Resources(), fixture.Events(), fixture.Settings(), planner.CountPolicy{})
	assert.Equal(t, 4, o.UnitsCount)
	assert.Equal(t, 12, o.LessonsCount)
	assert.Equal(t, 4, o.ResourcesCount)
	assert.Equal(t, 3, o.EventsCount)
	assert.Equal(t, 110, o.PlannedHours)
	assert.Equal(t, 15, o.ScheduledHours)
	assert.Equal(t, 100.0, o.ProgressPercent)
	assert.Zero(t, o.ConflictsCount)
	assert.Equal(t, 3, o.UnitsWithDriftCount)
}
