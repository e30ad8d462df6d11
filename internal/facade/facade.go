// Package facade 是课程数据的访问入口，屏蔽数据来自远程服务还是本地固定数据
package facade

import (
	"context"

	"icd201_backend/internal/export"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
)

// ConflictReport 冲突检测结果
type ConflictReport struct {
	Conflicts []planner.Contention `json:"conflicts"`
	Policy    string               `json:"policy"`
}

// Connection 连通性检查结果，不返回错误
type Connection struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Facade 所有方法失败时返回 *Error
type Facade interface {
	ListUnits(ctx context.Context) ([]model.Unit, error)
	GetUnit(ctx context.Context, id uint) (*model.Unit, error)
	CreateUnit(ctx context.Context, in model.UnitInput) (*model.Unit, error)
	UpdateUnit(ctx context.Context, id uint, patch model.UnitPatch) (*model.Unit, error)
	DeleteUnit(ctx context.Context, id uint) error

	AddLesson(ctx context.Context, unitID uint, in model.LessonInput) (*model.Unit, error)
	UpdateLesson(ctx context.Context, unitID, lessonID uint, patch model.LessonPatch) (*model.Unit, error)
	DeleteLesson(ctx context.Context, unitID, lessonID uint) (*model.Unit, error)

	ListResources(ctx context.Context) ([]model.Resource, error)
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	CreateResource(ctx context.Context, in model.ResourceInput) (*model.Resource, error)
	UpdateResource(ctx context.Context, id string, patch model.ResourcePatch) (*model.Resource, error)
	DeleteResource(ctx context.Context, id string) error
	GetResourceUsage(ctx context.Context, id string) (*planner.ResourceUsage, error)

	ListEvents(ctx context.Context, filter planner.EventFilter) ([]model.CalendarEvent, error)
	GetEvent(ctx context.Context, id uint) (*model.CalendarEvent, error)
	CreateEvent(ctx context.Context, in model.EventInput) (*model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id uint, patch model.EventPatch) (*model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id uint) error

	GetWeeksView(ctx context.Context) ([]planner.Week, error)
	GetConflicts(ctx context.Context) (*ConflictReport, error)

	GetSettings(ctx context.Context) (*model.CourseSettings, error)
	UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.CourseSettings, error)

	ExportDocument(ctx context.Context, opts export.Options) (*export.Document, error)
	PreviewExport(ctx context.Context, opts export.Options) (*export.Preview, error)

	CheckConnection(ctx context.Context) Connection
}
