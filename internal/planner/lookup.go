package planner

import (
	"strconv"

	"icd201_backend/internal/model"
)

const UnknownResourceLabel = "Ressource inconnue"

var unitIcons = map[uint]string{
	1: "cpu",
	2: "lightbulb",
	3: "users",
	4: "book-open",
}

var resourceIcons = map[string]string{
	"ordinateurs":         "monitor",
	"iPad":                "tablet",
	"imprimantes3D":       "printer",
	"dispositifsAudioUSB": "mic",
}

func UnitIcon(id uint) string {
	if icon, ok := unitIcons[id]; ok {
		return icon
	}
	return "book-open"
}

func ResourceIcon(id string) string {
	if icon, ok := resourceIcons[id]; ok {
		return icon
	}
	return "monitor"
}

func FindUnit(units []model.Unit, id uint) (model.Unit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return model.Unit{}, false
}

// FindLesson 在所有单元中查找课时，返回课时及其所属单元
func FindLesson(units []model.Unit, lessonID uint) (model.Lesson, model.Unit, bool) {
	for _, u := range units {
		for _, l := range u.Lessons {
			if l.ID == lessonID {
				return l, u, true
			}
		}
	}
	return model.Lesson{}, model.Unit{}, false
}

func FindResource(resources []model.Resource, id string) (model.Resource, bool) {
	for _, r := range resources {
		if r.ID == id {
			return r, true
		}
	}
	return model.Resource{}, false
}

func FindEvent(events []model.CalendarEvent, id uint) (model.CalendarEvent, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return model.CalendarEvent{}, false
}

// ResourceLabel 资源显示名称，找不到时返回占位文本
func ResourceLabel(resources []model.Resource, id string) string {
	if r, ok := FindResource(resources, id); ok {
		return r.Name
	}
	return UnknownResourceLabel
}

// UnitLabel 单元标题，找不到时返回 "Unité <id>"
func UnitLabel(units []model.Unit, id uint) string {
	if u, ok := FindUnit(units, id); ok {
		return u.Title
	}
	return "Unité " + strconv.FormatUint(uint64(id), 10)
}
