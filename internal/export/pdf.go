package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
)

type pdfDoc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newPDFDoc(title string) *pdfDoc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("")
	pdf.SetTitle(title, true)
	pdf.SetCreator("icd201-planner", true)

	d := &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return d
}

func (d *pdfDoc) title(text string) {
	d.pdf.SetFont(fontFamily, "B", 22)
	d.pdf.SetTextColor(0, 0, 139)
	d.pdf.MultiCell(0, 10, d.tr(text), "", "C", false)
	d.pdf.Ln(6)
}

func (d *pdfDoc) heading2(text string) {
	d.pdf.Ln(4)
	d.pdf.SetFont(fontFamily, "B", 16)
	d.pdf.SetTextColor(0, 0, 139)
	d.pdf.MultiCell(0, 8, d.tr(text), "", "L", false)
	d.pdf.Ln(3)
}

func (d *pdfDoc) heading3(text string) {
	d.pdf.Ln(3)
	d.pdf.SetFont(fontFamily, "B", 13)
	d.pdf.SetTextColor(0, 0, 255)
	d.pdf.MultiCell(0, 7, d.tr(text), "", "L", false)
	d.pdf.Ln(2)
}

func (d *pdfDoc) heading4(text string) {
	d.pdf.SetFont(fontFamily, "B", 11)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
}

func (d *pdfDoc) paragraph(text string) {
	if text == "" {
		return
	}
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(0, 5, d.tr(text), "", "L", false)
	d.pdf.Ln(2)
}

// fit 截断文本使其适应列宽
func (d *pdfDoc) fit(text string, width float64) string {
	s := d.tr(text)
	max := width - 2
	if d.pdf.GetStringWidth(s) <= max {
		return s
	}
	for len(s) > 0 && d.pdf.GetStringWidth(s+"...") > max {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// keyValues 两列信息表，左列加粗；indent > 0 时从该横坐标开始
func (d *pdfDoc) keyValues(rows [][2]string, widths [2]float64, indent float64) {
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetDrawColor(211, 211, 211)
	for _, row := range rows {
		if indent > 0 {
			d.pdf.SetX(indent)
		}
		d.pdf.SetFont(fontFamily, "B", 11)
		d.pdf.CellFormat(widths[0], 8, d.fit(row[0], widths[0]), "1", 0, "L", false, 0, "")
		d.pdf.SetFont(fontFamily, "", 11)
		d.pdf.CellFormat(widths[1], 8, d.fit(row[1], widths[1]), "1", 1, "L", false, 0, "")
	}
	d.pdf.Ln(4)
}

// table 带灰色表头的表格，表头在分页后重复
func (d *pdfDoc) table(headers []string, widths []float64, rows [][]string) {
	_, pageHeight := d.pdf.GetPageSize()
	_, _, _, bottom := d.pdf.GetMargins()

	header := func() {
		d.pdf.SetFont(fontFamily, "B", 9)
		d.pdf.SetFillColor(190, 190, 190)
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.SetDrawColor(211, 211, 211)
		for i, h := range headers {
			d.pdf.CellFormat(widths[i], 7, d.fit(h, widths[i]), "1", 0, "L", true, 0, "")
		}
		d.pdf.Ln(-1)
		d.pdf.SetFont(fontFamily, "", 9)
	}

	header()
	for _, row := range rows {
		if d.pdf.GetY()+6 > pageHeight-bottom {
			d.pdf.AddPage()
			header()
		}
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], 6, d.fit(cell, widths[i]), "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(4)
}

// RenderPDF 渲染课程方案 PDF。data.Units 应已按选项过滤
func RenderPDF(w io.Writer, data Data, opts Options) error {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	s := data.Settings
	courseTitle := s.CourseTitle
	if courseTitle == "" {
		courseTitle = "Schéma de Cours"
	}

	d := newPDFDoc(courseTitle)
	d.pdf.AddPage()
	d.titlePage(data, courseTitle)

	if opts.Detailed() {
		d.pdf.AddPage()
		d.tableOfContents(data, opts)
	}

	d.pdf.AddPage()
	d.pdf.RegisterAlias("{p:overview}", fmt.Sprint(d.pdf.PageNo()))
	d.overview(data)

	for _, u := range data.Units {
		d.pdf.AddPage()
		d.pdf.RegisterAlias(unitAlias(u.ID), fmt.Sprint(d.pdf.PageNo()))
		d.unitSection(u, data.Resources, opts)
	}

	if opts.IncludeResources && len(data.Resources) > 0 {
		d.pdf.AddPage()
		d.pdf.RegisterAlias("{p:resources}", fmt.Sprint(d.pdf.PageNo()))
		d.resourcesSection(data)
	}

	if opts.IncludeSchedule && len(data.Events) > 0 {
		d.pdf.AddPage()
		d.pdf.RegisterAlias("{p:calendar}", fmt.Sprint(d.pdf.PageNo()))
		d.calendarSection(data)
	}

	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

func unitAlias(id uint) string {
	return fmt.Sprintf("{p:unit%d}", id)
}

func (d *pdfDoc) titlePage(data Data, courseTitle string) {
	s := data.Settings
	d.pdf.Ln(30)
	d.title(courseTitle)
	d.pdf.SetFont(fontFamily, "", 13)
	d.pdf.SetTextColor(60, 60, 60)
	d.pdf.MultiCell(0, 7, d.tr(s.CourseDescription), "", "C", false)
	d.pdf.Ln(20)

	rows := [][2]string{
		{"Durée totale:", fmt.Sprintf("%d heures", s.TotalHours)},
		{"Période:", fmt.Sprintf("%d semaines", s.TotalWeeks)},
		{"Heures par semaine:", fmt.Sprintf("%g heures", s.HoursPerWeek)},
		{"Date de début:", s.StartDate},
		{"Date de fin:", s.EndDate},
	}
	d.keyValues(rows, [2]float64{60, 60}, 45)
	d.pdf.Ln(16)
	d.paragraph("Document généré le " + data.GeneratedAt.Format("02/01/2006 à 15:04"))
}

func (d *pdfDoc) tableOfContents(data Data, opts Options) {
	d.heading2("Table des matières")
	rows := [][]string{{"Vue d'ensemble du cours", "{p:overview}"}}
	for _, u := range data.Units {
		rows = append(rows, []string{fmt.Sprintf("Unité %d: %s", u.ID, u.Title), unitAlias(u.ID)})
		if opts.IncludeLessons {
			for _, l := range u.Lessons {
				rows = append(rows, []string{"   - " + l.Title, unitAlias(u.ID)})
			}
		}
	}
	if opts.IncludeResources && len(data.Resources) > 0 {
		rows = append(rows, []string{"Ressources technologiques", "{p:resources}"})
	}
	if opts.IncludeSchedule && len(data.Events) > 0 {
		rows = append(rows, []string{"Planification calendaire", "{p:calendar}"})
	}
	d.table([]string{"Section", "Page"}, []float64{145, 25}, rows)
}

func (d *pdfDoc) overview(data Data) {
	d.heading2("Vue d'ensemble du cours")

	lessons, objectives := 0, 0
	for _, u := range data.Units {
		lessons += len(u.Lessons)
		objectives += len(u.Objectives)
	}
	d.keyValues([][2]string{
		{"Nombre d'unités:", fmt.Sprint(len(data.Units))},
		{"Nombre de leçons:", fmt.Sprint(lessons)},
		{"Objectifs d'apprentissage:", fmt.Sprint(objectives)},
		{"Heures totales:", fmt.Sprintf("%d heures", data.Settings.TotalHours)},
		{"Heures planifiées:", fmt.Sprintf("%d heures", planner.TotalPlannedHours(data.Units))},
	}, [2]float64{65, 45}, 0)

	d.heading3("Résumé des unités")
	rows := make([][]string, 0, len(data.Units))
	for _, u := range data.Units {
		rows = append(rows, []string{fmt.Sprint(u.ID), u.Title, fmt.Sprintf("%dh", u.Duration), fmt.Sprint(len(u.Lessons))})
	}
	d.table([]string{"Unité", "Titre", "Durée", "Leçons"}, []float64{18, 112, 20, 20}, rows)
}

func (d *pdfDoc) unitSection(u model.Unit, resources []model.Resource, opts Options) {
	d.heading2(fmt.Sprintf("Unité %d: %s", u.ID, u.Title))
	d.paragraph(u.Description)
	d.keyValues([][2]string{
		{"Durée:", fmt.Sprintf("%d heures", u.Duration)},
		{"Nombre de leçons:", fmt.Sprint(len(u.Lessons))},
	}, [2]float64{45, 50}, 0)

	if opts.IncludeObjectives && len(u.Objectives) > 0 {
		d.heading3("Objectifs d'apprentissage")
		for i, obj := range u.Objectives {
			d.paragraph(fmt.Sprintf("%d. %s", i+1, obj))
		}
	}

	if !opts.IncludeLessons || len(u.Lessons) == 0 {
		return
	}
	d.heading3("Leçons")
	rows := make([][]string, 0, len(u.Lessons))
	for _, l := range u.Lessons {
		rows = append(rows, []string{fmt.Sprint(l.ID), l.Title, fmt.Sprintf("%dh", l.Duration), resourceNames(resources, l.Resources)})
	}
	d.table([]string{"#", "Titre", "Durée", "Ressources"}, []float64{14, 86, 16, 54}, rows)

	if !opts.Detailed() {
		return
	}
	for _, l := range u.Lessons {
		d.heading4("Leçon: " + l.Title)
		d.paragraph(l.Content)
		if opts.IncludeActivities && len(l.Activities) > 0 {
			d.paragraph("Activités: " + strings.Join(l.Activities, ", "))
		}
		d.pdf.Ln(2)
	}
}

func (d *pdfDoc) resourcesSection(data Data) {
	d.heading2("Ressources technologiques")
	rows := make([][]string, 0, len(data.Resources))
	for _, r := range data.Resources {
		rows = append(rows, []string{
			r.Name,
			fmt.Sprint(r.Quantity),
			r.Description,
			r.Availability,
			fmt.Sprintf("%dh", planner.PlannedUsageHours(data.Units, r.ID)),
		})
	}
	d.table([]string{"Ressource", "Quantité", "Description", "Statut", "Usage"}, []float64{35, 18, 60, 40, 17}, rows)
}

func (d *pdfDoc) calendarSection(data Data) {
	d.heading2("Planification calendaire")

	var month string
	var rows [][]string
	flush := func() {
		if len(rows) > 0 {
			d.table([]string{"Date", "Événement", "Unité", "Durée", "Ressources"}, []float64{16, 64, 24, 14, 52}, rows)
		}
		rows = nil
	}
	for _, e := range planner.SortByDate(data.Events) {
		t, err := planner.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if key := t.Format("2006-01"); key != month {
			flush()
			month = key
			d.heading3(fmt.Sprintf("%s %d", frenchMonths[t.Month()-1], t.Year()))
		}
		rows = append(rows, []string{
			t.Format("02/01"),
			e.Title,
			fmt.Sprintf("Unité %d", e.UnitID),
			fmt.Sprintf("%dh", e.Duration),
			resourceNames(data.Resources, e.Resources),
		})
	}
	flush()
}

func resourceNames(resources []model.Resource, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, planner.ResourceLabel(resources, id))
	}
	return strings.Join(names, ", ")
}
