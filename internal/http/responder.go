package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/application"
)

var (
	errBadRequestBody  = errors.New("Formato de pedido inválido.")
	errInvalidEntryID  = errors.New("Identificador de horário inválido.")
	errInvalidUserID   = errors.New("Identificador de utilizador inválido.")
	errMissingToken    = errors.New("Token de autenticação em falta.")
	errMissingPhoto    = errors.New("Nenhuma foto enviada.")
	errMissingWeek     = errors.New("O parâmetro 'semana' é obrigatório.")
	errAmbiguousScope  = errors.New("Indique exatamente um de 'loja' ou 'utilizador'.")
	errUploadRejected  = errors.New("Não foi possível guardar a foto.")
	errReportRejected  = errors.New("Não foi possível gerar o relatório.")
	errServiceDegraded = errors.New("Serviço temporariamente indisponível.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "Email ou palavra-passe incorretos.",
		})
	case errors.Is(err, application.ErrLastAdministrator):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "USER_LAST_ADMINISTRATOR",
			Message:   "Não é possível eliminar o último administrador.",
		})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "Não tem permissão para executar esta operação.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "O recurso indicado não foi encontrado."})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "Já existe um utilizador com este email."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "Os dados introduzidos são inválidos.",
				Errors:  localizeValidationErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Ocorreu um erro interno no servidor."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "O pedido não é válido."
	case http.StatusUnauthorized:
		return "É necessária autenticação."
	case http.StatusForbidden:
		return "Não tem permissão para executar esta operação."
	case http.StatusNotFound:
		return "O recurso indicado não foi encontrado."
	case http.StatusConflict:
		return "O pedido entra em conflito com o estado atual do recurso."
	case http.StatusUnprocessableEntity:
		return "Os dados introduzidos são inválidos."
	default:
		return "Ocorreu um erro interno no servidor."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "O nome é obrigatório."
	case "email is required":
		return "O email é obrigatório."
	case "email is invalid":
		return "O formato do email é inválido."
	case "password is required":
		return "A palavra-passe é obrigatória."
	case "role is unknown":
		return "A função indicada não é válida."
	case "at least one store is required":
		return "Indique pelo menos uma loja."
	case "no valid entries in batch":
		return "Nenhum horário válido no pedido."
	default:
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
