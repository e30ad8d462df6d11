package planner

import (
	"errors"
	"fmt"

	"icd201_backend/internal/model"
)

var (
	ErrInvalidDuration = errors.New("duration must be a positive number of hours")
	ErrInvalidDate     = errors.New("date must use the YYYY-MM-DD format")
	ErrUnknownResource = errors.New("unknown resource")
	ErrUnknownUnit     = errors.New("unknown unit")
	ErrLessonNotInUnit = errors.New("lesson does not belong to the unit")
	ErrInvalidSettings = errors.New("invalid course settings")
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// ValidationError 携带出错字段，Unwrap 返回对应的哨兵错误
type ValidationError struct {
	Field string
	Err   error
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidationError 判断是否为校验类错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(field string, err error, value string) error {
	return &ValidationError{Field: field, Err: err, Value: value}
}

func ValidateUnit(u model.Unit) error {
	if u.Title == "" {
		return invalid("title", ErrMissingField, "")
	}
	if u.Duration < 0 {
		return invalid("duration", ErrInvalidDuration, "")
	}
	return nil
}

func ValidateLesson(l model.Lesson, resources []model.Resource) error {
	if l.Title == "" {
		return invalid("title", ErrMissingField, "")
	}
	if l.Duration <= 0 {
		return invalid("duration", ErrInvalidDuration, "")
	}
	return checkResources(l.Resources, resources)
}

func ValidateResource(r model.Resource) error {
	if r.ID == "" {
		return invalid("id", ErrMissingField, "")
	}
	if r.Name == "" {
		return invalid("name", ErrMissingField, "")
	}
	if r.Quantity <= 0 {
		return invalid("quantity", ErrInvalidQuantity, "")
	}
	return nil
}

// ValidateEvent 校验事件：日期格式、时长、单元与课时归属、资源存在
func ValidateEvent(e model.CalendarEvent, units []model.Unit, resources []model.Resource) error {
	if e.Title == "" {
		return invalid("title", ErrMissingField, "")
	}
	if e.Duration <= 0 {
		return invalid("duration", ErrInvalidDuration, "")
	}
	if !IsValidDate(e.Date) {
		return invalid("date", ErrInvalidDate, e.Date)
	}
	u, ok := FindUnit(units, e.UnitID)
	if !ok {
		return invalid("unit_id", ErrUnknownUnit, fmt.Sprint(e.UnitID))
	}
	if e.LessonID != nil {
		found := false
		for _, l := range u.Lessons {
			if l.ID == *e.LessonID {
				found = true
				break
			}
		}
		if !found {
			return invalid("lesson_id", ErrLessonNotInUnit, fmt.Sprint(*e.LessonID))
		}
	}
	return checkResources(e.Resources, resources)
}

func ValidateSettings(s model.CourseSettings) error {
	if s.TotalHours <= 0 {
		return invalid("total_hours", ErrInvalidSettings, "")
	}
	if s.TotalWeeks <= 0 {
		return invalid("total_weeks", ErrInvalidSettings, "")
	}
	if s.HoursPerWeek < 0 {
		return invalid("hours_per_week", ErrInvalidSettings, "")
	}
	if !IsValidDate(s.StartDate) {
		return invalid("start_date", ErrInvalidDate, s.StartDate)
	}
	if !IsValidDate(s.EndDate) {
		return invalid("end_date", ErrInvalidDate, s.EndDate)
	}
	if s.StartDate > s.EndDate {
		return invalid("end_date", ErrInvalidSettings, "end_date before start_date")
	}
	return nil
}

func checkResources(ids []string, resources []model.Resource) error {
	for _, id := range ids {
		if _, ok := FindResource(resources, id); !ok {
			return invalid("resources", ErrUnknownResource, id)
		}
	}
	return nil
}
