package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"icd201_backend/internal/export"
	"icd201_backend/internal/facade"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
)

type Collection string

const (
	Units     Collection = "units"
	Resources Collection = "resources"
	Events    Collection = "events"
	Settings  Collection = "settings"
)

var allCollections = []Collection{Units, Resources, Events, Settings}

// Change 通知订阅者哪些集合已重新加载
type Change struct {
	Collections []Collection
}

func (c Change) Has(col Collection) bool {
	for _, x := range c.Collections {
		if x == col {
			return true
		}
	}
	return false
}

// Store 持有课程数据的快照。所有修改先经过 facade，
// 成功后重新拉取受影响的集合，不假设服务端与本地缓存一致。
type Store struct {
	facade facade.Facade
	policy planner.Policy

	mu        sync.RWMutex
	units     []model.Unit
	resources []model.Resource
	events    []model.CalendarEvent
	settings  model.CourseSettings
	loaded    bool

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// New policy 为 nil 时按数量判定冲突
func New(f facade.Facade, policy planner.Policy) *Store {
	if policy == nil {
		policy = planner.CountPolicy{}
	}
	return &Store{
		facade:    f,
		policy:    policy,
		units:     []model.Unit{},
		resources: []model.Resource{},
		events:    []model.CalendarEvent{},
		subs:      make(map[int]func(Change)),
	}
}

// Load 并行拉取全部集合
func (s *Store) Load(ctx context.Context) error {
	if err := s.refresh(ctx, allCollections...); err != nil {
		return err
	}
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// refresh 并行拉取给定集合；任一失败时不修改快照
func (s *Store) refresh(ctx context.Context, cols ...Collection) error {
	var (
		units     []model.Unit
		resources []model.Resource
		events    []model.CalendarEvent
		settings  *model.CourseSettings
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, col := range cols {
		switch col {
		case Units:
			g.Go(func() (err error) {
				units, err = s.facade.ListUnits(gctx)
				return err
			})
		case Resources:
			g.Go(func() (err error) {
				resources, err = s.facade.ListResources(gctx)
				return err
			})
		case Events:
			g.Go(func() (err error) {
				events, err = s.facade.ListEvents(gctx, planner.EventFilter{})
				return err
			})
		case Settings:
			g.Go(func() (err error) {
				settings, err = s.facade.GetSettings(gctx)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, col := range cols {
		switch col {
		case Units:
			s.units = append([]model.Unit{}, units...)
		case Resources:
			s.resources = append([]model.Resource{}, resources...)
		case Events:
			s.events = append([]model.CalendarEvent{}, events...)
		case Settings:
			s.settings = *settings
		}
	}
	s.mu.Unlock()

	s.notify(Change{Collections: cols})
	return nil
}

// Subscribe 注册变更回调，返回取消函数
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func (s *Store) Units() []model.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUnits(s.units)
}

func (s *Store) Resources() []model.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

func (s *Store) Events() []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(s.events)
}

func (s *Store) Settings() model.CourseSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) Unit(id uint) (model.Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := planner.FindUnit(s.units, id)
	if !ok {
		return model.Unit{}, false
	}
	return cloneUnit(u), true
}

// Lesson 按 id 查找课时及其所属单元
func (s *Store) Lesson(id uint) (model.Lesson, model.Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, u, ok := planner.FindLesson(s.units, id)
	if !ok {
		return model.Lesson{}, model.Unit{}, false
	}
	return cloneLesson(l), cloneUnit(u), true
}

func (s *Store) Resource(id string) (model.Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return planner.FindResource(s.resources, id)
}

func (s *Store) Event(id uint) (model.CalendarEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := planner.FindEvent(s.events, id)
	if !ok {
		return model.CalendarEvent{}, false
	}
	return cloneEvent(e), true
}

// 修改操作

func (s *Store) CreateUnit(ctx context.Context, in model.UnitInput) (*model.Unit, error) {
	unit, err := s.facade.CreateUnit(ctx, in)
	if err != nil {
		return nil, err
	}
	return unit, s.refresh(ctx, Units)
}

func (s *Store) UpdateUnit(ctx context.Context, id uint, patch model.UnitPatch) (*model.Unit, error) {
	unit, err := s.facade.UpdateUnit(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return unit, s.refresh(ctx, Units)
}

func (s *Store) DeleteUnit(ctx context.Context, id uint) error {
	if err := s.facade.DeleteUnit(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx, Units, Events)
}

func (s *Store) AddLesson(ctx context.Context, unitID uint, in model.LessonInput) (*model.Unit, error) {
	unit, err := s.facade.AddLesson(ctx, unitID, in)
	if err != nil {
		return nil, err
	}
	return unit, s.refresh(ctx, Units)
}

func (s *Store) UpdateLesson(ctx context.Context, unitID, lessonID uint, patch model.LessonPatch) (*model.Unit, error) {
	unit, err := s.facade.UpdateLesson(ctx, unitID, lessonID, patch)
	if err != nil {
		return nil, err
	}
	return unit, s.refresh(ctx, Units)
}

func (s *Store) DeleteLesson(ctx context.Context, unitID, lessonID uint) (*model.Unit, error) {
	unit, err := s.facade.DeleteLesson(ctx, unitID, lessonID)
	if err != nil {
		return nil, err
	}
	return unit, s.refresh(ctx, Units, Events)
}

func (s *Store) CreateResource(ctx context.Context, in model.ResourceInput) (*model.Resource, error) {
	res, err := s.facade.CreateResource(ctx, in)
	if err != nil {
		return nil, err
	}
	return res, s.refresh(ctx, Resources)
}

func (s *Store) UpdateResource(ctx context.Context, id string, patch model.ResourcePatch) (*model.Resource, error) {
	res, err := s.facade.UpdateResource(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return res, s.refresh(ctx, Resources)
}

// DeleteResource 资源 id 会从课时和事件中移除，因此三个集合都要重新拉取
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	if err := s.facade.DeleteResource(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx, Resources, Units, Events)
}

func (s *Store) CreateEvent(ctx context.Context, in model.EventInput) (*model.CalendarEvent, error) {
	event, err := s.facade.CreateEvent(ctx, in)
	if err != nil {
		return nil, err
	}
	return event, s.refresh(ctx, Events)
}

func (s *Store) UpdateEvent(ctx context.Context, id uint, patch model.EventPatch) (*model.CalendarEvent, error) {
	event, err := s.facade.UpdateEvent(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return event, s.refresh(ctx, Events)
}

func (s *Store) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.facade.DeleteEvent(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx, Events)
}

func (s *Store) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.CourseSettings, error) {
	settings, err := s.facade.UpdateSettings(ctx, patch)
	if err != nil {
		return nil, err
	}
	return settings, s.refresh(ctx, Settings)
}

func (s *Store) ExportDocument(ctx context.Context, opts export.Options) (*export.Document, error) {
	return s.facade.ExportDocument(ctx, opts)
}

func (s *Store) PreviewExport(ctx context.Context, opts export.Options) (*export.Preview, error) {
	return s.facade.PreviewExport(ctx, opts)
}

// 派生视图，基于当前快照计算

// Weeks 按设置的开始日期和周数生成周视图
func (s *Store) Weeks() ([]planner.Week, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return planner.WeeksFromSettings(cloneEvents(s.events), s.settings)
}

func (s *Store) Day(date string) []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(planner.EventsOnDate(planner.SortByDate(s.events), date))
}

func (s *Store) Filter(filter planner.EventFilter) []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(planner.FilterEvents(planner.SortByDate(s.events), filter))
}

func (s *Store) Usage(resourceID string) (planner.ResourceUsage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := planner.FindResource(s.resources, resourceID)
	if !ok {
		return planner.ResourceUsage{}, false
	}
	return planner.ResourceUsageOf(s.units, s.events, r, s.settings), true
}

func (s *Store) Contentions() []planner.Contention {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return planner.DetectContentions(cloneEvents(s.events), s.resources, s.policy)
}

func (s *Store) Overview() planner.Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return planner.BuildOverview(s.units, s.resources, s.events, s.settings, s.policy)
}
