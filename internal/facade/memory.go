package facade

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"icd201_backend/internal/export"
	"icd201_backend/internal/fixture"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
)

// Memory 基于课程固定数据的本地实现，校验和级联规则与服务端一致
type Memory struct {
	mu        sync.RWMutex
	units     []model.Unit
	resources []model.Resource
	events    []model.CalendarEvent
	settings  model.CourseSettings
	policy    planner.Policy

	nextUnit   atomic.Uint64
	nextLesson atomic.Uint64
	nextEvent  atomic.Uint64

	now func() time.Time
}

var _ Facade = (*Memory)(nil)

// NewMemory 载入固定数据，policy 为 nil 时按数量判定冲突
func NewMemory(policy planner.Policy) *Memory {
	if policy == nil {
		policy = planner.CountPolicy{}
	}
	m := &Memory{
		units:     fixture.Units(),
		resources: fixture.Resources(),
		events:    fixture.Events(),
		settings:  fixture.Settings(),
		policy:    policy,
		now:       time.Now,
	}

	var maxUnit, maxLesson, maxEvent uint
	for _, u := range m.units {
		maxUnit = maxOf(maxUnit, u.ID)
		for _, l := range u.Lessons {
			maxLesson = maxOf(maxLesson, l.ID)
		}
	}
	for _, e := range m.events {
		maxEvent = maxOf(maxEvent, e.ID)
	}
	m.nextUnit.Store(uint64(maxUnit))
	m.nextLesson.Store(uint64(maxLesson))
	m.nextEvent.Store(uint64(maxEvent))
	return m
}

func maxOf(a, b uint) uint {
	if b > a {
		return b
	}
	return a
}

func next(counter *atomic.Uint64) uint {
	return uint(counter.Add(1))
}

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

func cloneEvent(e model.CalendarEvent) model.CalendarEvent {
	e.Resources = cloneStrings(e.Resources)
	if e.LessonID != nil {
		id := *e.LessonID
		e.LessonID = &id
	}
	return e
}

func cloneUnits(units []model.Unit) []model.Unit {
	out := make([]model.Unit, len(units))
	for i, u := range units {
		out[i] = cloneUnit(u)
	}
	return out
}

func cloneEvents(events []model.CalendarEvent) []model.CalendarEvent {
	out := make([]model.CalendarEvent, len(events))
	for i, e := range events {
		out[i] = cloneEvent(e)
	}
	return out
}

func (m *Memory) unitIndex(id uint) int {
	for i := range m.units {
		if m.units[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) resourceIndex(id string) int {
	for i := range m.resources {
		if m.resources[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) eventIndex(id uint) int {
	for i := range m.events {
		if m.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) touch(ts *model.Timestamps, created bool) {
	now := m.now()
	if created {
		ts.CreatedAt = now
	}
	ts.UpdatedAt = now
}

// removeEvents 删除满足条件的事件
func (m *Memory) removeEvents(match func(model.CalendarEvent) bool) {
	kept := m.events[:0]
	for _, e := range m.events {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	m.events = kept
}

func (m *Memory) ListUnits(ctx context.Context) ([]model.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneUnits(m.units), nil
}

func (m *Memory) GetUnit(ctx context.Context, id uint) (*model.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.unitIndex(id)
	if i < 0 {
		return nil, notFoundError("Unité", id)
	}
	u := cloneUnit(m.units[i])
	return &u, nil
}

func (m *Memory) CreateUnit(ctx context.Context, in model.UnitInput) (*model.Unit, error) {
	unit := in.ToUnit()
	if err := planner.ValidateUnit(unit); err != nil {
		return nil, validationError(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	unit.ID = next(&m.nextUnit)
	m.touch(&unit.Timestamps, true)
	m.units = append(m.units, unit)
	out := cloneUnit(unit)
	return &out, nil
}

func (m *Memory) UpdateUnit(ctx context.Context, id uint, patch model.UnitPatch) (*model.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.unitIndex(id)
	if i < 0 {
		return nil, notFoundError("Unité", id)
	}
	unit := cloneUnit(m.units[i])
	patch.Apply(&unit)
	if err := planner.ValidateUnit(unit); err != nil {
		return nil, validationError(err)
	}
	m.touch(&unit.Timestamps, false)
	m.units[i] = unit
	out := cloneUnit(unit)
	return &out, nil
}

// DeleteUnit 同时删除该单元的事件
func (m *Memory) DeleteUnit(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.unitIndex(id)
	if i < 0 {
		return notFoundError("Unité", id)
	}
	m.units = append(m.units[:i], m.units[i+1:]...)
	m.removeEvents(func(e model.CalendarEvent) bool { return e.UnitID == id })
	return nil
}

func (m *Memory) AddLesson(ctx context.Context, unitID uint, in model.LessonInput) (*model.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.unitIndex(unitID)
	if i < 0 {
		return nil, notFoundError("Unité", unitID)
	}
	lesson := in.ToLesson()
	if err := planner.ValidateLesson(lesson, m.resources); err != nil {
		return nil, validationError(err)
	}
	lesson.ID = next(&m.nextLesson)
	lesson.UnitID = unitID
	m.units[i].Lessons = append(m.units[i].Lessons, lesson)
	out := cloneUnit(m.units[i])
	return &out, nil
}

func (m *Memory) UpdateLesson(ctx context.Context, unitID, lessonID uint, patch model.LessonPatch) (*model.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.unitIndex(unitID)
	if i < 0 {
		return nil, notFoundError("Unité", unitID)
	}
	for j := range m.units[i].Lessons {
		if m.units[i].Lessons[j].ID != lessonID {
			continue
		}
		lesson := cloneLesson(m.units[i].Lessons[j])
		patch.Apply(&lesson)
		if err := planner.ValidateLesson(lesson, m.resources); err != nil {
			return nil, validationError(err)
		}
		m.units[i].Lessons[j] = lesson
		out := cloneUnit(m.units[i])
		return &out, nil
	}
	return nil, notFoundError("Leçon", lessonID)
}

// DeleteLesson 同时删除引用该课时的事件
func (m *Memory) DeleteLesson(ctx context.Context, unitID, lessonID uint) (*model.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.unitIndex(unitID)
	if i < 0 {
		return nil, notFoundError("Unité", unitID)
	}
	lessons := m.units[i].Lessons
	for j := range lessons {
		if lessons[j].ID != lessonID {
			continue
		}
		m.units[i].Lessons = append(lessons[:j], lessons[j+1:]...)
		m.removeEvents(func(e model.CalendarEvent) bool {
			return e.LessonID != nil && *e.LessonID == lessonID
		})
		out := cloneUnit(m.units[i])
		return &out, nil
	}
	return nil, notFoundError("Leçon", lessonID)
}

func (m *Memory) ListResources(ctx context.Context) ([]model.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Resource, len(m.resources))
	copy(out, m.resources)
	return out, nil
}

func (m *Memory) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.resourceIndex(id)
	if i < 0 {
		return nil, notFoundError("Ressource", id)
	}
	r := m.resources[i]
	return &r, nil
}

func (m *Memory) CreateResource(ctx context.Context, in model.ResourceInput) (*model.Resource, error) {
	resource := in.ToResource()
	if err := planner.ValidateResource(resource); err != nil {
		return nil, validationError(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resourceIndex(resource.ID) >= 0 {
		return nil, &Error{Kind: KindValidation, Status: 400, Message: ErrDuplicateResource.Error() + ": " + resource.ID, Err: ErrDuplicateResource}
	}
	m.touch(&resource.Timestamps, true)
	m.resources = append(m.resources, resource)
	return &resource, nil
}

func (m *Memory) UpdateResource(ctx context.Context, id string, patch model.ResourcePatch) (*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.resourceIndex(id)
	if i < 0 {
		return nil, notFoundError("Ressource", id)
	}
	resource := m.resources[i]
	patch.Apply(&resource)
	if err := planner.ValidateResource(resource); err != nil {
		return nil, validationError(err)
	}
	m.touch(&resource.Timestamps, false)
	m.resources[i] = resource
	return &resource, nil
}

// DeleteResource 同时从课时和事件中移除该资源
func (m *Memory) DeleteResource(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.resourceIndex(id)
	if i < 0 {
		return notFoundError("Ressource", id)
	}
	m.resources = append(m.resources[:i], m.resources[i+1:]...)
	for u := range m.units {
		for l := range m.units[u].Lessons {
			m.units[u].Lessons[l].Resources = without(m.units[u].Lessons[l].Resources, id)
		}
	}
	for e := range m.events {
		m.events[e].Resources = without(m.events[e].Resources, id)
	}
	return nil
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}

func (m *Memory) GetResourceUsage(ctx context.Context, id string) (*planner.ResourceUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.resourceIndex(id)
	if i < 0 {
		return nil, notFoundError("Ressource", id)
	}
	usage := planner.ResourceUsageOf(m.units, m.events, m.resources[i], m.settings)
	return &usage, nil
}

func (m *Memory) ListEvents(ctx context.Context, filter planner.EventFilter) ([]model.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneEvents(planner.FilterEvents(planner.SortByDate(m.events), filter)), nil
}

func (m *Memory) GetEvent(ctx context.Context, id uint) (*model.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.eventIndex(id)
	if i < 0 {
		return nil, notFoundError("Événement", id)
	}
	e := cloneEvent(m.events[i])
	return &e, nil
}

func (m *Memory) CreateEvent(ctx context.Context, in model.EventInput) (*model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event := in.ToEvent()
	if err := planner.ValidateEvent(event, m.units, m.resources); err != nil {
		return nil, validationError(err)
	}
	event.ID = next(&m.nextEvent)
	m.touch(&event.Timestamps, true)
	m.events = append(m.events, event)
	out := cloneEvent(event)
	return &out, nil
}

func (m *Memory) UpdateEvent(ctx context.Context, id uint, patch model.EventPatch) (*model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.eventIndex(id)
	if i < 0 {
		return nil, notFoundError("Événement", id)
	}
	event := cloneEvent(m.events[i])
	patch.Apply(&event)
	if err := planner.ValidateEvent(event, m.units, m.resources); err != nil {
		return nil, validationError(err)
	}
	m.touch(&event.Timestamps, false)
	m.events[i] = event
	out := cloneEvent(event)
	return &out, nil
}

func (m *Memory) DeleteEvent(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.eventIndex(id)
	if i < 0 {
		return notFoundError("Événement", id)
	}
	m.events = append(m.events[:i], m.events[i+1:]...)
	return nil
}

func (m *Memory) GetWeeksView(ctx context.Context) ([]planner.Week, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	weeks, err := planner.WeeksFromSettings(cloneEvents(m.events), m.settings)
	if err != nil {
		return nil, validationError(planner.ErrInvalidSettings)
	}
	return weeks, nil
}

func (m *Memory) GetConflicts(ctx context.Context) (*ConflictReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &ConflictReport{
		Conflicts: planner.DetectContentions(cloneEvents(m.events), m.resources, m.policy),
		Policy:    m.policy.Name(),
	}, nil
}

func (m *Memory) GetSettings(ctx context.Context) (*model.CourseSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.settings
	return &s, nil
}

func (m *Memory) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.CourseSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings
	patch.Apply(&s)
	if err := planner.ValidateSettings(s); err != nil {
		return nil, validationError(err)
	}
	m.touch(&s.Timestamps, false)
	m.settings = s
	out := s
	return &out, nil
}

// exportData 按选项过滤单元，没有单元时返回 not_found
func (m *Memory) exportData(opts export.Options) (export.Data, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data := export.Data{
		Settings:    m.settings,
		Units:       cloneUnits(opts.SelectUnits(m.units)),
		Resources:   append([]model.Resource(nil), m.resources...),
		GeneratedAt: m.now(),
	}
	if len(data.Units) == 0 {
		return data, &Error{Kind: KindNotFound, Status: 404, Message: "Aucune unité sélectionnée"}
	}
	if opts.IncludeSchedule {
		data.Events = cloneEvents(m.events)
	}
	return data, nil
}

func (m *Memory) ExportDocument(ctx context.Context, opts export.Options) (*export.Document, error) {
	data, err := m.exportData(opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.RenderPDF(&buf, data, opts); err != nil {
		return nil, unexpectedError(err)
	}
	return &export.Document{
		Filename:    export.Filename(model.ExportPDF, data.GeneratedAt),
		ContentType: export.ContentType(model.ExportPDF),
		Data:        buf.Bytes(),
	}, nil
}

func (m *Memory) PreviewExport(ctx context.Context, opts export.Options) (*export.Preview, error) {
	data, err := m.exportData(opts)
	if err != nil {
		return nil, err
	}
	p := export.BuildPreview(data, opts)
	return &p, nil
}

func (m *Memory) CheckConnection(ctx context.Context) Connection {
	return Connection{Connected: true, Message: "Mode local (données de démonstration)"}
}
