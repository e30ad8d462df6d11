package model

// 创建/更新请求体。更新使用指针字段，nil 表示不修改。

type UnitInput struct {
	Title       string   `json:"title" binding:"required"`
	Duration    int      `json:"duration" binding:"gte=0"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
}

func (in UnitInput) ToUnit() Unit {
	return Unit{
		Title:       in.Title,
		Duration:    in.Duration,
		Description: in.Description,
		Objectives:  nonNil(in.Objectives),
		Lessons:     []Lesson{},
	}
}

type UnitPatch struct {
	Title       *string   `json:"title" binding:"omitempty,min=1"`
	Duration    *int      `json:"duration" binding:"omitempty,gte=0"`
	Description *string   `json:"description"`
	Objectives  *[]string `json:"objectives"`
}

func (p UnitPatch) Apply(u *Unit) {
	if p.Title != nil {
		u.Title = *p.Title
	}
	if p.Duration != nil {
		u.Duration = *p.Duration
	}
	if p.Description != nil {
		u.Description = *p.Description
	}
	if p.Objectives != nil {
		u.Objectives = nonNil(*p.Objectives)
	}
}

type LessonInput struct {
	Title      string   `json:"title" binding:"required"`
	Duration   int      `json:"duration" binding:"required,gt=0"`
	Resources  []string `json:"resources"`
	Activities []string `json:"activities"`
	Content    string   `json:"content"`
}

func (in LessonInput) ToLesson() Lesson {
	return Lesson{
		Title:      in.Title,
		Duration:   in.Duration,
		Resources:  dedupe(in.Resources),
		Activities: nonNil(in.Activities),
		Content:    in.Content,
	}
}

type LessonPatch struct {
	Title      *string   `json:"title" binding:"omitempty,min=1"`
	Duration   *int      `json:"duration" binding:"omitempty,gt=0"`
	Resources  *[]string `json:"resources"`
	Activities *[]string `json:"activities"`
	Content    *string   `json:"content"`
}

func (p LessonPatch) Apply(l *Lesson) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Duration != nil {
		l.Duration = *p.Duration
	}
	if p.Resources != nil {
		l.Resources = dedupe(*p.Resources)
	}
	if p.Activities != nil {
		l.Activities = nonNil(*p.Activities)
	}
	if p.Content != nil {
		l.Content = *p.Content
	}
}

type ResourceInput struct {
	ID           string `json:"id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	Description  string `json:"description"`
	Availability string `json:"availability"`
}

func (in ResourceInput) ToResource() Resource {
	return Resource{
		ID:           in.ID,
		Name:         in.Name,
		Quantity:     in.Quantity,
		Description:  in.Description,
		Availability: in.Availability,
	}
}

type ResourcePatch struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Quantity     *int    `json:"quantity" binding:"omitempty,gt=0"`
	Description  *string `json:"description"`
	Availability *string `json:"availability"`
}

func (p ResourcePatch) Apply(r *Resource) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Quantity != nil {
		r.Quantity = *p.Quantity
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Availability != nil {
		r.Availability = *p.Availability
	}
}

type EventInput struct {
	Title     string   `json:"title" binding:"required"`
	UnitID    uint     `json:"unit_id" binding:"required"`
	LessonID  *uint    `json:"lesson_id"`
	Date      string   `json:"date" binding:"required,isodate"`
	Duration  int      `json:"duration" binding:"required,gt=0"`
	Resources []string `json:"resources"`
}

func (in EventInput) ToEvent() CalendarEvent {
	return CalendarEvent{
		Title:     in.Title,
		UnitID:    in.UnitID,
		LessonID:  in.LessonID,
		Date:      in.Date,
		Duration:  in.Duration,
		Resources: dedupe(in.Resources),
	}
}

// EventPatch ClearLesson 为 true 时解除与课时的关联，优先于 LessonID
type EventPatch struct {
	Title       *string   `json:"title" binding:"omitempty,min=1"`
	UnitID      *uint     `json:"unit_id" binding:"omitempty,gt=0"`
	LessonID    *uint     `json:"lesson_id"`
	ClearLesson bool      `json:"clear_lesson"`
	Date        *string   `json:"date" binding:"omitempty,isodate"`
	Duration    *int      `json:"duration" binding:"omitempty,gt=0"`
	Resources   *[]string `json:"resources"`
}

func (p EventPatch) Apply(e *CalendarEvent) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.UnitID != nil {
		e.UnitID = *p.UnitID
	}
	if p.ClearLesson {
		e.LessonID = nil
	} else if p.LessonID != nil {
		e.LessonID = p.LessonID
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
	if p.Resources != nil {
		e.Resources = dedupe(*p.Resources)
	}
}

type SettingsPatch struct {
	TotalHours        *int     `json:"total_hours" binding:"omitempty,gt=0"`
	TotalWeeks        *int     `json:"total_weeks" binding:"omitempty,gt=0"`
	HoursPerWeek      *float64 `json:"hours_per_week" binding:"omitempty,gte=0"`
	StartDate         *string  `json:"start_date" binding:"omitempty,isodate"`
	EndDate           *string  `json:"end_date" binding:"omitempty,isodate"`
	CourseTitle       *string  `json:"course_title"`
	CourseDescription *string  `json:"course_description"`
}

func (p SettingsPatch) Apply(s *CourseSettings) {
	if p.TotalHours != nil {
		s.TotalHours = *p.TotalHours
	}
	if p.TotalWeeks != nil {
		s.TotalWeeks = *p.TotalWeeks
	}
	if p.HoursPerWeek != nil {
		s.HoursPerWeek = *p.HoursPerWeek
	}
	if p.StartDate != nil {
		s.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		s.EndDate = *p.EndDate
	}
	if p.CourseTitle != nil {
		s.CourseTitle = *p.CourseTitle
	}
	if p.CourseDescription != nil {
		s.CourseDescription = *p.CourseDescription
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// dedupe 去重并保持原有顺序，资源集合不允许重复
func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
