package store

import "icd201_backend/internal/model"

func cloneStrings(list []string) []string {
	if list == nil {
		return []string{}
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func cloneLesson(l model.Lesson) model.Lesson {
	l.Resources = cloneStrings(l.Resources)
	l.Activities = cloneStrings(l.Activities)
	return l
}

func cloneUnit(u model.Unit) model.Unit {
	u.Objectives = cloneStrings(u.Objectives)
	lessons := make([]model.Lesson, len(u.Lessons))
	for i, l := range u.Lessons {
		lessons[i] = cloneLesson(l)
	}
	u.Lessons = lessons
	return u
}

func cloneUnits(units []model.Unit) []model.Unit {
	out := make([]model.Unit, len(units))
	for i, u := range units {
		out[i] = cloneUnit(u)
	}
	return out
}

func cloneEvent(e model.CalendarEvent) model.CalendarEvent {
	e.Resources = cloneStrings(e.Resources)
	if e.LessonID != nil {
		id := *e.LessonID
		e.LessonID = &id
	}
	return e
}

func cloneEvents(events []model.CalendarEvent) []model.CalendarEvent {
	out := make([]model.CalendarEvent, len(events))
	for i, e := range events {
		out[i] = cloneEvent(e)
	}
	return out
}
