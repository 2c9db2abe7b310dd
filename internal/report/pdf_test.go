package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/roster"
)

func TestRenderEmployeeDocument(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title: "Horário de Ana Martins - Semana 1",
		Mode:  ModeEmployee,
		Slots: []roster.Slot{
			{Day: "Segunda-feira", Start: "09:00", End: "13:00", Store: "Rimini Centro", Employees: []string{"Ana Martins"}},
			{Day: "Sábado", Start: "", End: "", Store: "Rimini Centro", Employees: []string{"Ana Martins"}},
		},
		Hours: []roster.EmployeeHours{{Name: "Ana Martins", Hours: 4}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatalf("output does not start with %%PDF, got %q", buf.String()[:8])
	}
	if buf.Len() < 500 {
		t.Fatalf("output suspiciously small: %d bytes", buf.Len())
	}
}

func TestRenderStoreDocument(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title: "Horário da loja Rimini Centro - Semana 2",
		Mode:  ModeStore,
		Slots: []roster.Slot{
			{Day: "Terça-feira", Start: "14:00", End: "22:00", Store: "Rimini Centro", Employees: []string{"Ana Martins", "Bruno Costa"}},
		},
		Hours: []roster.EmployeeHours{
			{Name: "Ana Martins", Hours: 8},
			{Name: "Bruno Costa", Hours: 8},
		},
	}

	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatal("output does not start with %PDF")
	}
}

func TestFormatHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours float64
		want  string
	}{
		{hours: 4, want: "4.00"},
		{hours: 3.5, want: "3.50"},
		{hours: 0, want: "0.00"},
	}
	for _, tc := range tests {
		if got := formatHours(tc.hours); got != tc.want {
			t.Fatalf("formatHours(%v) = %q, want %q", tc.hours, got, tc.want)
		}
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, Document{Title: "Horário", Mode: ModeEmployee}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatal("output does not start with %PDF")
	}
}
