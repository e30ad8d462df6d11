package planner

import (
	"math"

	"icd201_backend/internal/model"
)

// PlannedUsageHours 课时中计划使用该资源的总时长
func PlannedUsageHours(units []model.Unit, resourceID string) int {
	total := 0
	for _, u := range units {
		for _, l := range u.Lessons {
			if l.UsesResource(resourceID) {
				total += l.Duration
			}
		}
	}
	return total
}

// ScheduledUsageHours 日历中已排课占用该资源的总时长
func ScheduledUsageHours(events []model.CalendarEvent, resourceID string) int {
	total := 0
	for _, e := range events {
		if e.UsesResource(resourceID) {
			total += e.Duration
		}
	}
	return total
}

type UnitRef struct {
	UnitID    uint   `json:"unit_id"`
	UnitTitle string `json:"unit_title"`
}

// ResourceUsage 单个资源的使用统计
type ResourceUsage struct {
	ResourceID     string    `json:"resource_id"`
	ResourceName   string    `json:"resource_name"`
	Quantity       int       `json:"quantity"`
	TotalHours     int       `json:"total_hours"`
	ScheduledHours int       `json:"scheduled_hours"`
	LessonsCount   int       `json:"lessons_count"`
	UnitsUsing     []UnitRef `json:"units_using"`
	Utilization    float64   `json:"utilization_percentage"`
}

func ResourceUsageOf(units []model.Unit, events []model.CalendarEvent, resource model.Resource, settings model.CourseSettings) ResourceUsage {
	usage := ResourceUsage{
		ResourceID:     resource.ID,
		ResourceName:   resource.Name,
		Quantity:       resource.Quantity,
		ScheduledHours: ScheduledUsageHours(events, resource.ID),
		UnitsUsing:     []UnitRef{},
	}
	for _, u := range units {
		used := false
		for _, l := range u.Lessons {
			if l.UsesResource(resource.ID) {
				usage.TotalHours += l.Duration
				usage.LessonsCount++
				used = true
			}
		}
		if used {
			usage.UnitsUsing = append(usage.UnitsUsing, UnitRef{UnitID: u.ID, UnitTitle: u.Title})
		}
	}
	if settings.TotalHours > 0 {
		usage.Utilization = round2(float64(usage.TotalHours) / float64(settings.TotalHours) * 100)
	}
	return usage
}

// UsageSummary 导出预览中使用的简要统计
type UsageSummary struct {
	ResourceID   string `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	UsageHours   int    `json:"usage_hours"`
}

func UsageSummaries(units []model.Unit, resources []model.Resource) []UsageSummary {
	out := make([]UsageSummary, 0, len(resources))
	for _, r := range resources {
		out = append(out, UsageSummary{
			ResourceID:   r.ID,
			ResourceName: r.Name,
			UsageHours:   PlannedUsageHours(units, r.ID),
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
