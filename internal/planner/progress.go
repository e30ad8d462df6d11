package planner

import "icd201_backend/internal/model"

func TotalScheduledHours(events []model.CalendarEvent) int {
	total := 0
	for _, e := range events {
		total += e.Duration
	}
	return total
}

// TotalPlannedHours 各单元声明时长之和
func TotalPlannedHours(units []model.Unit) int {
	total := 0
	for _, u := range units {
		total += u.Duration
	}
	return total
}

// TotalLessonHours 各单元课时时长之和
func TotalLessonHours(units []model.Unit) int {
	total := 0
	for _, u := range units {
		total += u.LessonHours()
	}
	return total
}

// ProgressPercent 计划时长占课程总时长的百分比，不做截断；总时长为 0 时返回 0
func ProgressPercent(units []model.Unit, settings model.CourseSettings) float64 {
	if settings.TotalHours <= 0 {
		return 0
	}
	return float64(TotalPlannedHours(units)) / float64(settings.TotalHours) * 100
}

// Overview 仪表盘统计
type Overview struct {
	UnitsCount          int     `json:"units_count"`
	LessonsCount        int     `json:"lessons_count"`
	ResourcesCount      int     `json:"resources_count"`
	EventsCount         int     `json:"events_count"`
	TotalHours          int     `json:"total_hours"`
	TotalWeeks          int     `json:"total_weeks"`
	PlannedHours        int     `json:"planned_hours"`
	LessonHours         int     `json:"lesson_hours"`
	ScheduledHours      int     `json:"scheduled_hours"`
	ProgressPercent     float64 `json:"progress_percent"`
	ConflictsCount      int     `json:"conflicts_count"`
	UnitsWithDriftCount int     `json:"units_with_drift_count"`
}

func BuildOverview(units []model.Unit, resources []model.Resource, events []model.CalendarEvent, settings model.CourseSettings, policy Policy) Overview {
	lessons := 0
	for _, u := range units {
		lessons += len(u.Lessons)
	}
	return Overview{
		UnitsCount:          len(units),
		LessonsCount:        lessons,
		ResourcesCount:      len(resources),
		EventsCount:         len(events),
		TotalHours:          settings.TotalHours,
		TotalWeeks:          settings.TotalWeeks,
		PlannedHours:        TotalPlannedHours(units),
		LessonHours:         TotalLessonHours(units),
		ScheduledHours:      TotalScheduledHours(events),
		ProgressPercent:     round2(ProgressPercent(units, settings)),
		ConflictsCount:      len(DetectContentions(events, resources, policy)),
		UnitsWithDriftCount: len(DurationDrift(units)),
	}
}

// Drift 单元声明时长与课时总和不一致
type Drift struct {
	UnitID      uint   `json:"unit_id"`
	UnitTitle   string `json:"unit_title"`
	Declared    int    `json:"declared"`
	LessonHours int    `json:"lesson_hours"`
}

func DurationDrift(units []model.Unit) []Drift {
	out := []Drift{}
	for _, u := range units {
		if h := u.LessonHours(); h != u.Duration {
			out = append(out, Drift{UnitID: u.ID, UnitTitle: u.Title, Declared: u.Duration, LessonHours: h})
		}
	}
	return out
}
