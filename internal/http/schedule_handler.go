package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/application"
)

type scheduleService interface {
	ListEntries(ctx context.Context, principal application.Principal) ([]application.ScheduleEntry, error)
	CreateEntries(ctx context.Context, params application.CreateEntriesParams) ([]application.ScheduleEntry, error)
	UpdateEntryTimes(ctx context.Context, params application.UpdateEntryTimesParams) error
	DeleteEntry(ctx context.Context, principal application.Principal, id string) error
}

type ScheduleHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	entries, err := h.service.ListEntries(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "entry list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(entries)).InfoContext(r.Context(), "entries listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEntryDTOs(entries))
}

// Create accepts either a single entry object or an array of entries and
// inserts them as one batch.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	requests, err := decodeEntryBatch(r.Body)
	if err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode entry batch", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	inputs := make([]application.ScheduleEntryInput, 0, len(requests))
	for _, req := range requests {
		inputs = append(inputs, req.toInput())
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "batch_size", len(inputs))

	created, err := h.service.CreateEntries(r.Context(), application.CreateEntriesParams{
		Principal: principal,
		Entries:   inputs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "entry creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("inserted_rows", len(created)).InfoContext(r.Context(), "entries created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, createEntriesResponse{InsertedRows: toEntryDTOs(created)})
}

// UpdateTimes rewrites start/end times for a batch of entries. Unknown ids are
// skipped without error so a stale client view cannot fail the whole batch.
func (h *ScheduleHandler) UpdateTimes(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	requests, err := decodeTimeUpdateBatch(r.Body)
	if err != nil {
		h.log(r.Context(), "UpdateTimes", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode time update batch", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	updates := make([]application.TimeUpdateInput, 0, len(requests))
	for _, req := range requests {
		updates = append(updates, application.TimeUpdateInput{
			ID:        strings.TrimSpace(req.ID),
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		})
	}

	logger := h.log(r.Context(), "UpdateTimes", "principal_id", principal.UserID, "batch_size", len(updates))

	if err := h.service.UpdateEntryTimes(r.Context(), application.UpdateEntryTimesParams{
		Principal: principal,
		Updates:   updates,
	}); err != nil {
		logger.ErrorContext(r.Context(), "entry time update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry times updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "Horários atualizados com sucesso."})
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing entry id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "entry_id", entryID)

	if err := h.service.DeleteEntry(r.Context(), principal, entryID); err != nil {
		logger.ErrorContext(r.Context(), "entry delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "Horário eliminado com sucesso."})
}

// decodeEntryBatch accepts both JSON shapes the frontend sends for the same
// operation: a bare object for one entry and an array for several.
func decodeEntryBatch(body io.Reader) ([]entryRequest, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []entryRequest
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, err
		}
		return batch, nil
	}

	var single entryRequest
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []entryRequest{single}, nil
}

func decodeTimeUpdateBatch(body io.Reader) ([]timeUpdateRequest, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []timeUpdateRequest
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, err
		}
		return batch, nil
	}

	var single timeUpdateRequest
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []timeUpdateRequest{single}, nil
}

type entryRequest struct {
	UserID       *string `json:"utilizador_id"`
	EmployeeName string  `json:"utilizador_nome"`
	Store        string  `json:"loja"`
	Week         string  `json:"semana"`
	Day          string  `json:"dia_trabalho"`
	StartTime    *string `json:"hora_entrada"`
	EndTime      *string `json:"hora_saida"`
}

func (r entryRequest) toInput() application.ScheduleEntryInput {
	return application.ScheduleEntryInput{
		UserID:       r.UserID,
		EmployeeName: strings.TrimSpace(r.EmployeeName),
		Store:        strings.TrimSpace(r.Store),
		Week:         strings.TrimSpace(r.Week),
		Day:          strings.TrimSpace(r.Day),
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
	}
}

type timeUpdateRequest struct {
	ID        string  `json:"id"`
	StartTime *string `json:"hora_entrada"`
	EndTime   *string `json:"hora_saida"`
}

// createEntriesResponse carries the inserted subset back to the caller so a
// partially valid batch reports exactly which rows were stored.
type createEntriesResponse struct {
	InsertedRows []entryDTO `json:"insertedRows"`
}

type entryDTO struct {
	ID           string  `json:"id"`
	UserID       *string `json:"utilizador_id"`
	EmployeeName string  `json:"utilizador_nome"`
	Store        string  `json:"loja"`
	Week         string  `json:"semana"`
	Day          string  `json:"dia_trabalho"`
	StartTime    *string `json:"hora_entrada"`
	EndTime      *string `json:"hora_saida"`
	CreatedAt    string  `json:"created_at"`
}

func toEntryDTO(entry application.ScheduleEntry) entryDTO {
	return entryDTO{
		ID:           entry.ID,
		UserID:       entry.UserID,
		EmployeeName: entry.EmployeeName,
		Store:        entry.Store,
		Week:         entry.Week,
		Day:          entry.Day,
		StartTime:    entry.StartTime,
		EndTime:      entry.EndTime,
		CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEntryDTOs(entries []application.ScheduleEntry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toEntryDTO(entry))
	}
	return out
}
