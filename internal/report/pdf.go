// Package report renders weekly schedule documents as PDF files.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/roster"
)

// Mode selects the layout of the schedule table.
type Mode string

const (
	// ModeEmployee lays out one row per shift with the store column, used for
	// a single employee's weekly plan.
	ModeEmployee Mode = "employee"
	// ModeStore lays out one row per time slot with the shared employee list,
	// used for a store's weekly plan.
	ModeStore Mode = "store"
)

// Document holds everything needed to render one weekly report.
type Document struct {
	Title string
	Mode  Mode
	Slots []roster.Slot
	Hours []roster.EmployeeHours
}

const (
	headerFill = 230
	rowHeight  = 8.0
	titleSize  = 15.0
	bodySize   = 10.0
)

// Render writes the document as an A4 portrait PDF.
func Render(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	switch doc.Mode {
	case ModeStore:
		renderStoreTable(pdf, tr, doc.Slots)
	default:
		renderEmployeeTable(pdf, tr, doc.Slots)
	}

	if len(doc.Hours) > 0 {
		pdf.Ln(6)
		renderHoursTable(pdf, tr, doc.Hours)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func renderEmployeeTable(pdf *gofpdf.Fpdf, tr func(string) string, slots []roster.Slot) {
	widths := []float64{55, 35, 35, 65}
	tableHeader(pdf, tr, widths, []string{"Dia", "Entrada", "Saída", "Loja"})

	pdf.SetFont("Helvetica", "", bodySize)
	for _, slot := range slots {
		pdf.CellFormat(widths[0], rowHeight, tr(slot.Day), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], rowHeight, displayTime(slot.Start), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], rowHeight, displayTime(slot.End), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], rowHeight, tr(slot.Store), "1", 1, "L", false, 0, "")
	}
}

func renderStoreTable(pdf *gofpdf.Fpdf, tr func(string) string, slots []roster.Slot) {
	widths := []float64{45, 30, 30, 85}
	tableHeader(pdf, tr, widths, []string{"Dia", "Entrada", "Saída", "Utilizadores"})

	pdf.SetFont("Helvetica", "", bodySize)
	for _, slot := range slots {
		employees := strings.Join(slot.Employees, ", ")
		pdf.CellFormat(widths[0], rowHeight, tr(slot.Day), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], rowHeight, displayTime(slot.Start), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], rowHeight, displayTime(slot.End), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], rowHeight, tr(employees), "1", 1, "L", false, 0, "")
	}
}

func renderHoursTable(pdf *gofpdf.Fpdf, tr func(string) string, hours []roster.EmployeeHours) {
	pdf.SetFont("Helvetica", "B", bodySize+1)
	pdf.CellFormat(0, rowHeight, tr("Total de horas"), "", 1, "L", false, 0, "")

	widths := []float64{120, 40}
	tableHeader(pdf, tr, widths, []string{"Utilizador", "Horas"})

	pdf.SetFont("Helvetica", "", bodySize)
	for _, hb := range hours {
		pdf.CellFormat(widths[0], rowHeight, tr(hb.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], rowHeight, formatHours(hb.Hours), "1", 1, "R", false, 0, "")
	}
}

func tableHeader(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.SetFillColor(headerFill, headerFill, headerFill)
	for i, label := range labels {
		border := "1"
		last := i == len(labels)-1
		ln := 0
		if last {
			ln = 1
		}
		pdf.CellFormat(widths[i], rowHeight, tr(label), border, ln, "C", true, 0, "")
	}
}

// formatHours renders worked hours to two decimals, matching what the
// frontend shows next to each employee.
func formatHours(hours float64) string {
	return fmt.Sprintf("%.2f", hours)
}

// displayTime substitutes a dash for unset clock times so empty cells read as
// intentional.
func displayTime(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
