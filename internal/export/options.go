// Package export 生成课程方案的导出文档（PDF、XLSX）和导出预览
package export

import (
	"fmt"
	"time"

	"icd201_backend/internal/model"
)

const (
	DetailSummary  = "summary"
	DetailDetailed = "detailed"
	DetailCustom   = "custom"
)

const filePrefix = "schema_cours_icd201"

// Options 导出选项。未提供的布尔字段默认为 true
type Options struct {
	IncludeObjectives bool   `json:"include_objectives"`
	IncludeLessons    bool   `json:"include_lessons"`
	IncludeResources  bool   `json:"include_resources"`
	IncludeSchedule   bool   `json:"include_schedule"`
	IncludeActivities bool   `json:"include_activities"`
	DetailLevel       string `json:"detail_level" binding:"detaillevel"`
	SelectedUnits     []uint `json:"selected_units"`
}

func DefaultOptions() Options {
	return Options{
		IncludeObjectives: true,
		IncludeLessons:    true,
		IncludeResources:  true,
		IncludeSchedule:   true,
		IncludeActivities: true,
		DetailLevel:       DetailDetailed,
		SelectedUnits:     []uint{},
	}
}

func (o Options) Detailed() bool {
	return o.DetailLevel == "" || o.DetailLevel == DetailDetailed
}

// SelectUnits 按 selected_units 过滤单元，保持原顺序；为空时返回全部
func (o Options) SelectUnits(units []model.Unit) []model.Unit {
	if len(o.SelectedUnits) == 0 {
		return units
	}
	wanted := make(map[uint]struct{}, len(o.SelectedUnits))
	for _, id := range o.SelectedUnits {
		wanted[id] = struct{}{}
	}
	out := make([]model.Unit, 0, len(o.SelectedUnits))
	for _, u := range units {
		if _, ok := wanted[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Sections 导出文档包含的章节名称
func (o Options) Sections() []string {
	sections := []string{}
	if o.IncludeObjectives {
		sections = append(sections, "Objectifs d'apprentissage")
	}
	if o.IncludeLessons {
		sections = append(sections, "Détail des leçons")
	}
	if o.IncludeResources {
		sections = append(sections, "Ressources technologiques")
	}
	if o.IncludeSchedule {
		sections = append(sections, "Calendrier et planification")
	}
	if o.IncludeActivities {
		sections = append(sections, "Activités pédagogiques")
	}
	return sections
}

// Filename 导出文件名，例如 schema_cours_icd201_2025-01-15.pdf
func Filename(format model.ExportFormat, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", filePrefix, at.Format("2006-01-02"), format)
}

func ContentType(format model.ExportFormat) string {
	switch format {
	case model.ExportPDF:
		return "application/pdf"
	case model.ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Data 渲染所需的全部数据
type Data struct {
	Settings    model.CourseSettings
	Units       []model.Unit
	Resources   []model.Resource
	Events      []model.CalendarEvent
	GeneratedAt time.Time
}

// Document 生成好的导出文件
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
