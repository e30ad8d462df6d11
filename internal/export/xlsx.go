package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"icd201_backend/internal/planner"
)

const (
	sheetCourse    = "Cours"
	sheetUnits     = "Unités"
	sheetLessons   = "Leçons"
	sheetResources = "Ressources"
	sheetCalendar  = "Calendrier"
)

type sheetWriter struct {
	file   *excelize.File
	header int
	err    error
}

// row 写入一整行，出错后后续调用直接忽略
func (s *sheetWriter) row(sheet string, rowNum int, values ...interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.file.SetSheetRow(sheet, cell, &values)
}

func (s *sheetWriter) headerRow(sheet string, headers ...string) {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	s.row(sheet, 1, values...)
	if s.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.file.SetCellStyle(sheet, "A1", last, s.header)
}

func (s *sheetWriter) widths(sheet string, widths ...float64) {
	for i, w := range widths {
		if s.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			s.err = err
			return
		}
		s.err = s.file.SetColWidth(sheet, col, col, w)
	}
}

// RenderXLSX 把课程方案导出为工作簿，每个章节一个工作表
func RenderXLSX(w io.Writer, data Data, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	sw := &sheetWriter{file: f, header: header}

	f.SetSheetName("Sheet1", sheetCourse)
	s := data.Settings
	sw.row(sheetCourse, 1, "Cours", s.CourseTitle)
	sw.row(sheetCourse, 2, "Description", s.CourseDescription)
	sw.row(sheetCourse, 3, "Durée totale (h)", s.TotalHours)
	sw.row(sheetCourse, 4, "Semaines", s.TotalWeeks)
	sw.row(sheetCourse, 5, "Heures par semaine", s.HoursPerWeek)
	sw.row(sheetCourse, 6, "Date de début", s.StartDate)
	sw.row(sheetCourse, 7, "Date de fin", s.EndDate)
	sw.row(sheetCourse, 8, "Heures planifiées", planner.TotalPlannedHours(data.Units))
	sw.row(sheetCourse, 9, "Généré le", data.GeneratedAt.Format("02/01/2006 15:04"))
	sw.widths(sheetCourse, 24, 70)

	f.NewSheet(sheetUnits)
	sw.headerRow(sheetUnits, "ID", "Titre", "Durée (h)", "Leçons", "Description", "Objectifs")
	for i, u := range data.Units {
		objectives := ""
		if opts.IncludeObjectives {
			objectives = strings.Join(u.Objectives, "\n")
		}
		sw.row(sheetUnits, i+2, u.ID, u.Title, u.Duration, len(u.Lessons), u.Description, objectives)
	}
	sw.widths(sheetUnits, 6, 45, 10, 8, 60, 60)

	if opts.IncludeLessons {
		f.NewSheet(sheetLessons)
		sw.headerRow(sheetLessons, "Unité", "ID", "Titre", "Durée (h)", "Ressources", "Activités", "Contenu")
		r := 2
		for _, u := range data.Units {
			for _, l := range u.Lessons {
				activities := ""
				if opts.IncludeActivities {
					activities = strings.Join(l.Activities, ", ")
				}
				content := ""
				if opts.Detailed() {
					content = l.Content
				}
				sw.row(sheetLessons, r, u.ID, l.ID, l.Title, l.Duration, resourceNames(data.Resources, l.Resources), activities, content)
				r++
			}
		}
		sw.widths(sheetLessons, 8, 8, 45, 10, 40, 40, 60)
	}

	if opts.IncludeResources {
		f.NewSheet(sheetResources)
		sw.headerRow(sheetResources, "ID", "Nom", "Quantité", "Description", "Disponibilité", "Heures planifiées", "Heures programmées")
		for i, res := range data.Resources {
			sw.row(sheetResources, i+2, res.ID, res.Name, res.Quantity, res.Description, res.Availability,
				planner.PlannedUsageHours(data.Units, res.ID), planner.ScheduledUsageHours(data.Events, res.ID))
		}
		sw.widths(sheetResources, 20, 25, 10, 45, 25, 16, 18)
	}

	if opts.IncludeSchedule {
		f.NewSheet(sheetCalendar)
		sw.headerRow(sheetCalendar, "Date", "Semaine", "Événement", "Unité", "Durée (h)", "Ressources")
		start, startErr := planner.ParseDate(s.StartDate)
		for i, e := range planner.SortByDate(data.Events) {
			week := ""
			if startErr == nil {
				if n, ok := planner.WeekOf(e.Date, start, s.TotalWeeks); ok {
					week = fmt.Sprint(n)
				}
			}
			sw.row(sheetCalendar, i+2, e.Date, week, e.Title, e.UnitID, e.Duration, resourceNames(data.Resources, e.Resources))
		}
		sw.widths(sheetCalendar, 12, 9, 45, 8, 10, 40)
	}

	if sw.err != nil {
		return sw.err
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}
