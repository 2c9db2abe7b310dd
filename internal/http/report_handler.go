package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/application"
	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/report"
	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/roster"
)

type ReportHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewReportHandler(service scheduleService, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReportHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReportHandler", operation, attrs...)
}

// Render produces the weekly schedule PDF. The query must carry `semana` and
// exactly one of `loja` or `utilizador` to pick the report mode.
func (h *ReportHandler) Render(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	week := strings.TrimSpace(query.Get("semana"))
	store := strings.TrimSpace(query.Get("loja"))
	employee := strings.TrimSpace(query.Get("utilizador"))

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Render", "principal_id", principal.UserID, "week", week)

	if week == "" {
		logger.ErrorContext(r.Context(), "missing week parameter", "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingWeek)
		return
	}
	if (store == "") == (employee == "") {
		logger.ErrorContext(r.Context(), "ambiguous report scope", "error_kind", "bad_request", "store", store, "employee", employee)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errAmbiguousScope)
		return
	}

	entries, err := h.service.ListEntries(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "entry fetch for report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	doc, filename := buildReportDocument(entries, week, store, employee)

	var buf bytes.Buffer
	if err := report.Render(&buf, doc); err != nil {
		logger.ErrorContext(r.Context(), "report rendering failed", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, errReportRejected)
		return
	}

	logger.With("bytes", buf.Len(), "file", filename).InfoContext(r.Context(), "report rendered")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.ErrorContext(r.Context(), "failed to write report body", "error", err)
	}
}

func buildReportDocument(entries []application.ScheduleEntry, week, store, employee string) (report.Document, string) {
	filter := roster.Filter{Week: week, Store: store, Employee: employee}
	selected := roster.Select(toRosterEntries(entries), filter)
	slots := roster.Group(selected)
	hours := roster.HoursByEmployee(selected, roster.Options{})

	if employee != "" {
		return report.Document{
			Title: fmt.Sprintf("Horário de %s - %s", employee, week),
			Mode:  report.ModeEmployee,
			Slots: slots,
			Hours: hours,
		}, sanitizeFilename(fmt.Sprintf("horario_%s_%s.pdf", employee, week))
	}
	return report.Document{
		Title: fmt.Sprintf("Horário da loja %s - %s", store, week),
		Mode:  report.ModeStore,
		Slots: slots,
		Hours: hours,
	}, sanitizeFilename(fmt.Sprintf("horario_%s_%s.pdf", store, week))
}

func toRosterEntries(entries []application.ScheduleEntry) []roster.Entry {
	out := make([]roster.Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, roster.Entry{
			ID:           entry.ID,
			EmployeeName: entry.EmployeeName,
			Store:        entry.Store,
			Week:         entry.Week,
			Day:          entry.Day,
			Start:        derefTime(entry.StartTime),
			End:          derefTime(entry.EndTime),
		})
	}
	return out
}

func derefTime(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ':
			return '_'
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)
}
