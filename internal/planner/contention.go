package planner

import (
	"fmt"
	"sort"

	"icd201_backend/internal/model"
)

const (
	PolicyCount     = "count"
	PolicyHours     = "hours"
	PolicyExclusive = "exclusive"
)

// Load 某一天某个资源的占用情况
type Load struct {
	EventCount int `json:"event_count"`
	Hours      int `json:"hours"`
}

// Policy 判断资源在某天是否超载
type Policy interface {
	Name() string
	Exceeds(resource model.Resource, load Load) bool
}

// CountPolicy 同一天使用该资源的事件数超过资源数量
type CountPolicy struct{}

func (CountPolicy) Name() string { return PolicyCount }

func (CountPolicy) Exceeds(r model.Resource, l Load) bool {
	return l.EventCount > r.Quantity
}

// HoursPolicy 同一天占用时长超过 数量 × 每日可用小时
type HoursPolicy struct {
	HoursPerDay float64
}

func (HoursPolicy) Name() string { return PolicyHours }

func (p HoursPolicy) Exceeds(r model.Resource, l Load) bool {
	return float64(l.Hours) > float64(r.Quantity)*p.HoursPerDay
}

// ExclusivePolicy 同一天有两个及以上事件使用该资源即视为冲突
type ExclusivePolicy struct{}

func (ExclusivePolicy) Name() string { return PolicyExclusive }

func (ExclusivePolicy) Exceeds(_ model.Resource, l Load) bool {
	return l.EventCount > 1
}

// PolicyFromConfig 根据配置名称构造策略，空字符串使用默认的 count
func PolicyFromConfig(name string, hoursPerDay float64) (Policy, error) {
	switch name {
	case "", PolicyCount:
		return CountPolicy{}, nil
	case PolicyHours:
		if hoursPerDay <= 0 {
			return nil, fmt.Errorf("hours policy requires a positive hours_per_day, got %v", hoursPerDay)
		}
		return HoursPolicy{HoursPerDay: hoursPerDay}, nil
	case PolicyExclusive:
		return ExclusivePolicy{}, nil
	}
	return nil, fmt.Errorf("unknown conflict policy %q", name)
}

// Contention 一次资源冲突
type Contention struct {
	Date          string                `json:"date"`
	ResourceID    string                `json:"resource_id"`
	ResourceName  string                `json:"resource_name"`
	Capacity      int                   `json:"capacity"`
	ConflictCount int                   `json:"conflict_count"`
	Hours         int                   `json:"hours"`
	Events        []model.CalendarEvent `json:"events"`
}

type loadKey struct {
	date       string
	resourceID string
}

// DetectContentions 按 (日期, 资源) 统计负载并用策略判断冲突。
// 未知资源 id 直接跳过；结果按日期、资源 id 排序。
func DetectContentions(events []model.CalendarEvent, resources []model.Resource, policy Policy) []Contention {
	if policy == nil {
		policy = CountPolicy{}
	}
	byID := make(map[string]model.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}

	loads := make(map[loadKey]*Contention)
	for _, e := range SortByDate(events) {
		day := NormalizeDate(e.Date)
		for _, rid := range e.Resources {
			r, ok := byID[rid]
			if !ok {
				continue
			}
			k := loadKey{date: day, resourceID: rid}
			c, ok := loads[k]
			if !ok {
				c = &Contention{
					Date:         day,
					ResourceID:   rid,
					ResourceName: r.Name,
					Capacity:     r.Quantity,
					Events:       []model.CalendarEvent{},
				}
				loads[k] = c
			}
			c.ConflictCount++
			c.Hours += e.Duration
			c.Events = append(c.Events, e)
		}
	}

	out := []Contention{}
	for k, c := range loads {
		if policy.Exceeds(byID[k.resourceID], Load{EventCount: c.ConflictCount, Hours: c.Hours}) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ResourceID < out[j].ResourceID
	})
	return out
}
