package planner

import (
	"sort"
	"time"

	"icd201_backend/internal/model"
)

const DefaultWeekCount = 18

// Week 周视图中的一周
type Week struct {
	WeekNumber int                   `json:"week_number"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	Events     []model.CalendarEvent `json:"events"`
	TotalHours int                   `json:"total_hours"`
}

// WeeksView 从 start 开始生成 weekCount 个连续的 7 天区间，并把事件放入对应的周。
// 每周内事件按日期排序；学期外或日期无法解析的事件被忽略。
func WeeksView(events []model.CalendarEvent, start time.Time, weekCount int) []Week {
	if weekCount <= 0 {
		weekCount = DefaultWeekCount
	}
	start = dayOf(start)

	weeks := make([]Week, weekCount)
	for i := range weeks {
		ws := start.AddDate(0, 0, 7*i)
		weeks[i] = Week{
			WeekNumber: i + 1,
			StartDate:  FormatDate(ws),
			EndDate:    FormatDate(ws.AddDate(0, 0, 6)),
			Events:     []model.CalendarEvent{},
		}
	}

	for _, e := range SortByDate(events) {
		n, ok := WeekOf(e.Date, start, weekCount)
		if !ok {
			continue
		}
		w := &weeks[n-1]
		w.Events = append(w.Events, e)
		w.TotalHours += e.Duration
	}
	return weeks
}

// WeeksFromSettings 按课程设置的开始日期和周数生成周视图
func WeeksFromSettings(events []model.CalendarEvent, settings model.CourseSettings) ([]Week, error) {
	start, err := ParseDate(settings.StartDate)
	if err != nil {
		return nil, err
	}
	return WeeksView(events, start, settings.TotalWeeks), nil
}

// SortByDate 返回按日期稳定排序后的副本
func SortByDate(events []model.CalendarEvent) []model.CalendarEvent {
	out := make([]model.CalendarEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return NormalizeDate(out[i].Date) < NormalizeDate(out[j].Date)
	})
	return out
}

// EventsOnDate 返回与给定日期为同一天的事件
func EventsOnDate(events []model.CalendarEvent, date string) []model.CalendarEvent {
	day := NormalizeDate(date)
	out := []model.CalendarEvent{}
	for _, e := range events {
		if NormalizeDate(e.Date) == day {
			out = append(out, e)
		}
	}
	return out
}

// EventFilter 事件过滤条件，零值表示不过滤
type EventFilter struct {
	UnitID     *uint
	ResourceID string
}

func (f EventFilter) IsEmpty() bool {
	return f.UnitID == nil && f.ResourceID == ""
}

func (f EventFilter) Match(e model.CalendarEvent) bool {
	if f.UnitID != nil && e.UnitID != *f.UnitID {
		return false
	}
	if f.ResourceID != "" && !e.UsesResource(f.ResourceID) {
		return false
	}
	return true
}

// FilterEvents 返回满足所有给定条件的事件（保持原顺序）
func FilterEvents(events []model.CalendarEvent, filter EventFilter) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		if filter.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
