package export

import "icd201_backend/internal/planner"

type CourseInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TotalHours  int    `json:"total_hours"`
	TotalWeeks  int    `json:"total_weeks"`
}

type Summary struct {
	SelectedUnits    int      `json:"selected_units"`
	TotalHours       int      `json:"total_hours"`
	TotalLessons     int      `json:"total_lessons"`
	SectionsIncluded []string `json:"sections_included"`
}

type UnitPreview struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Duration        int    `json:"duration"`
	LessonsCount    int    `json:"lessons_count"`
	ObjectivesCount int    `json:"objectives_count"`
}

type CalendarSummary struct {
	TotalEvents    int `json:"total_events"`
	ScheduledHours int `json:"scheduled_hours"`
}

// Preview 导出内容预览
type Preview struct {
	CourseInfo      CourseInfo             `json:"course_info"`
	ExportSummary   Summary                `json:"export_summary"`
	UnitsPreview    []UnitPreview          `json:"units_preview"`
	ResourceUsage   []planner.UsageSummary `json:"resource_usage,omitempty"`
	CalendarSummary *CalendarSummary       `json:"calendar_summary,omitempty"`
}

// BuildPreview 根据选项汇总将要导出的内容。data.Units 应已按选项过滤
func BuildPreview(data Data, opts Options) Preview {
	units := data.Units
	lessons := 0
	previews := make([]UnitPreview, 0, len(units))
	for _, u := range units {
		lessons += len(u.Lessons)
		previews = append(previews, UnitPreview{
			ID:              u.ID,
			Title:           u.Title,
			Duration:        u.Duration,
			LessonsCount:    len(u.Lessons),
			ObjectivesCount: len(u.Objectives),
		})
	}

	p := Preview{
		CourseInfo: CourseInfo{
			Title:       data.Settings.CourseTitle,
			Description: data.Settings.CourseDescription,
			TotalHours:  data.Settings.TotalHours,
			TotalWeeks:  data.Settings.TotalWeeks,
		},
		ExportSummary: Summary{
			SelectedUnits:    len(units),
			TotalHours:       planner.TotalPlannedHours(units),
			TotalLessons:     lessons,
			SectionsIncluded: opts.Sections(),
		},
		UnitsPreview: previews,
	}
	if opts.IncludeResources {
		p.ResourceUsage = planner.UsageSummaries(units, data.Resources)
	}
	if opts.IncludeSchedule {
		p.CalendarSummary = &CalendarSummary{
			TotalEvents:    len(data.Events),
			ScheduledHours: planner.TotalScheduledHours(data.Events),
		}
	}
	return p
}
