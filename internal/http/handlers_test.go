package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/application"
)

type stubAuthService struct {
	result application.AuthenticateResult
	err    error
}

func (s stubAuthService) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	return s.result, s.err
}

type stubUserService struct {
	users     []application.User
	created   application.User
	updated   application.User
	deleteErr error
	err       error
}

func (s stubUserService) CreateUser(ctx context.Context, params application.CreateUserParams) (application.User, error) {
	return s.created, s.err
}

func (s stubUserService) UpdateUser(ctx context.Context, params application.UpdateUserParams) (application.User, error) {
	return s.updated, s.err
}

func (s stubUserService) DeleteUser(ctx context.Context, principal application.Principal, userID string) error {
	return s.deleteErr
}

func (s stubUserService) ListUsers(ctx context.Context, principal application.Principal) ([]application.User, error) {
	return s.users, s.err
}

type stubScheduleService struct {
	entries    []application.ScheduleEntry
	created    []application.ScheduleEntry
	lastCreate application.CreateEntriesParams
	lastUpdate application.UpdateEntryTimesParams
	err        error
	deleteErr  error
}

func (s *stubScheduleService) ListEntries(ctx context.Context, principal application.Principal) ([]application.ScheduleEntry, error) {
	return s.entries, s.err
}

func (s *stubScheduleService) CreateEntries(ctx context.Context, params application.CreateEntriesParams) ([]application.ScheduleEntry, error) {
	s.lastCreate = params
	return s.created, s.err
}

func (s *stubScheduleService) UpdateEntryTimes(ctx context.Context, params application.UpdateEntryTimesParams) error {
	s.lastUpdate = params
	return s.err
}

func (s *stubScheduleService) DeleteEntry(ctx context.Context, principal application.Principal, id string) error {
	return s.deleteErr
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(recorder.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return out
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	t.Run("returns token and user summary", func(t *testing.T) {
		t.Parallel()

		service := stubAuthService{result: application.AuthenticateResult{
			User: application.User{
				ID:    "user-1",
				Name:  "Ana Martins",
				Email: "ana@example.com",
				Role:  application.RoleManager,
			},
			Token:     "signed-token",
			ExpiresAt: time.Now().Add(time.Hour),
		}}
		handler := NewAuthHandler(service, nil)

		body := strings.NewReader(`{"email":"Ana@Example.com","password":"secret"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
		}
		resp := decodeBody[loginResponse](t, recorder)
		if resp.Token != "signed-token" {
			t.Fatalf("token = %q, want %q", resp.Token, "signed-token")
		}
		if resp.User.Role != "MANAGER" {
			t.Fatalf("user.role = %q, want MANAGER", resp.User.Role)
		}
	})

	t.Run("maps invalid credentials to 401", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(stubAuthService{err: application.ErrInvalidCredentials}, nil)

		body := strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusUnauthorized)
		}
		resp := decodeBody[errorResponse](t, recorder)
		if resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("error_code = %q, want AUTH_INVALID_CREDENTIALS", resp.ErrorCode)
		}
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(stubAuthService{}, nil)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
		}
	})
}

func TestUserHandler(t *testing.T) {
	t.Parallel()

	t.Run("list masks stored passwords", func(t *testing.T) {
		t.Parallel()

		service := stubUserService{users: []application.User{{
			ID:     "user-1",
			Name:   "Ana Martins",
			Email:  "ana@example.com",
			Role:   application.RoleStaff,
			Stores: []string{"Rimini Centro"},
		}}}
		handler := NewUserHandler(service, nil)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
		}
		users := decodeBody[[]userDTO](t, recorder)
		if len(users) != 1 {
			t.Fatalf("got %d users, want 1", len(users))
		}
		if users[0].Password != application.MaskedPassword {
			t.Fatalf("password = %q, want mask", users[0].Password)
		}
	})

	t.Run("maps last administrator deletion to 403", func(t *testing.T) {
		t.Parallel()

		handler := NewUserHandler(stubUserService{deleteErr: application.ErrLastAdministrator}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/users/admin-1", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "admin-1"))
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)

		if recorder.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusForbidden)
		}
		resp := decodeBody[errorResponse](t, recorder)
		if resp.ErrorCode != "USER_LAST_ADMINISTRATOR" {
			t.Fatalf("error_code = %q, want USER_LAST_ADMINISTRATOR", resp.ErrorCode)
		}
	})

	t.Run("delete returns confirmation message", func(t *testing.T) {
		t.Parallel()

		handler := NewUserHandler(stubUserService{}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/users/user-2", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user-2"))
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
		}
		resp := decodeBody[messageResponse](t, recorder)
		if resp.Message == "" {
			t.Fatal("expected confirmation message")
		}
	})

	t.Run("surfaces localized validation errors", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"email": "email is invalid"}}
		handler := NewUserHandler(stubUserService{err: vErr}, nil)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Ana"}`))
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusUnprocessableEntity)
		}
		resp := decodeBody[errorResponse](t, recorder)
		if resp.Errors["email"] != "O formato do email é inválido." {
			t.Fatalf("localized error = %q", resp.Errors["email"])
		}
	})
}

func TestScheduleHandler_Create(t *testing.T) {
	t.Parallel()

	entry := application.ScheduleEntry{ID: "entry-1", EmployeeName: "Ana", Store: "Rimini Centro", Week: "Semana 1", Day: "Segunda-feira"}

	t.Run("accepts a single object body", func(t *testing.T) {
		t.Parallel()

		service := &stubScheduleService{created: []application.ScheduleEntry{entry}}
		handler := NewScheduleHandler(service, nil)

		body := strings.NewReader(`{"utilizador_nome":"Ana","loja":"Rimini Centro","semana":"Semana 1","dia_trabalho":"Segunda-feira"}`)
		req := httptest.NewRequest(http.MethodPost, "/schedule-entries", body)
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusCreated)
		}
		if len(service.lastCreate.Entries) != 1 {
			t.Fatalf("batch size = %d, want 1", len(service.lastCreate.Entries))
		}
		resp := decodeBody[createEntriesResponse](t, recorder)
		if len(resp.InsertedRows) != 1 {
			t.Fatalf("insertedRows length = %d, want 1", len(resp.InsertedRows))
		}
		if resp.InsertedRows[0].ID != "entry-1" || resp.InsertedRows[0].EmployeeName != "Ana" {
			t.Fatalf("insertedRows[0] = %+v, want Ana's row", resp.InsertedRows[0])
		}
	})

	t.Run("accepts an array body", func(t *testing.T) {
		t.Parallel()

		service := &stubScheduleService{created: []application.ScheduleEntry{entry, entry}}
		handler := NewScheduleHandler(service, nil)

		body := strings.NewReader(`[
			{"utilizador_nome":"Ana","loja":"Rimini Centro","semana":"Semana 1","dia_trabalho":"Segunda-feira"},
			{"utilizador_nome":"Bruno","loja":"Rimini Centro","semana":"Semana 1","dia_trabalho":"Terça-feira"}
		]`)
		req := httptest.NewRequest(http.MethodPost, "/schedule-entries", body)
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusCreated)
		}
		if len(service.lastCreate.Entries) != 2 {
			t.Fatalf("batch size = %d, want 2", len(service.lastCreate.Entries))
		}
		resp := decodeBody[createEntriesResponse](t, recorder)
		if len(resp.InsertedRows) != 2 {
			t.Fatalf("insertedRows length = %d, want 2", len(resp.InsertedRows))
		}
	})

	t.Run("returns only the inserted subset of a partially valid batch", func(t *testing.T) {
		t.Parallel()

		service := &stubScheduleService{created: []application.ScheduleEntry{entry}}
		handler := NewScheduleHandler(service, nil)

		body := strings.NewReader(`[
			{"utilizador_nome":"Ana","loja":"Rimini Centro","semana":"Semana 1","dia_trabalho":"Segunda-feira"},
			{"loja":"Rimini Centro"}
		]`)
		req := httptest.NewRequest(http.MethodPost, "/schedule-entries", body)
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusCreated)
		}
		resp := decodeBody[createEntriesResponse](t, recorder)
		if len(resp.InsertedRows) != 1 {
			t.Fatalf("insertedRows length = %d, want 1", len(resp.InsertedRows))
		}
		if resp.InsertedRows[0].EmployeeName != "Ana" {
			t.Fatalf("insertedRows[0].EmployeeName = %q, want Ana", resp.InsertedRows[0].EmployeeName)
		}
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		t.Parallel()

		handler := NewScheduleHandler(&stubScheduleService{}, nil)
		req := httptest.NewRequest(http.MethodPost, "/schedule-entries", strings.NewReader("not json"))
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
		}
	})
}

func TestScheduleHandler_UpdateTimes(t *testing.T) {
	t.Parallel()

	start := "09:00"
	end := "13:00"

	service := &stubScheduleService{}
	handler := NewScheduleHandler(service, nil)

	body := strings.NewReader(`[{"id":"entry-1","hora_entrada":"09:00","hora_saida":"13:00"}]`)
	req := httptest.NewRequest(http.MethodPut, "/schedule-entries/edit", body)
	recorder := httptest.NewRecorder()
	handler.UpdateTimes(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if len(service.lastUpdate.Updates) != 1 {
		t.Fatalf("batch size = %d, want 1", len(service.lastUpdate.Updates))
	}
	update := service.lastUpdate.Updates[0]
	if update.ID != "entry-1" {
		t.Fatalf("update id = %q", update.ID)
	}
	if update.StartTime == nil || *update.StartTime != start {
		t.Fatalf("start = %v, want %q", update.StartTime, start)
	}
	if update.EndTime == nil || *update.EndTime != end {
		t.Fatalf("end = %v, want %q", update.EndTime, end)
	}
}

func TestScheduleHandler_Delete(t *testing.T) {
	t.Parallel()

	t.Run("maps missing entry to 404", func(t *testing.T) {
		t.Parallel()

		handler := NewScheduleHandler(&stubScheduleService{deleteErr: application.ErrNotFound}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/schedule-entries/missing", nil)
		req = req.WithContext(ContextWithEntryID(req.Context(), "missing"))
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNotFound)
		}
	})

	t.Run("confirms successful deletion", func(t *testing.T) {
		t.Parallel()

		handler := NewScheduleHandler(&stubScheduleService{}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/schedule-entries/entry-1", nil)
		req = req.WithContext(ContextWithEntryID(req.Context(), "entry-1"))
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
		}
	})
}

func TestReportHandler(t *testing.T) {
	t.Parallel()

	start := "09:00"
	end := "13:00"
	entries := []application.ScheduleEntry{
		{ID: "1", EmployeeName: "Ana", Store: "Rimini Centro", Week: "Semana 1", Day: "Segunda-feira", StartTime: &start, EndTime: &end},
	}

	t.Run("requires the week parameter", func(t *testing.T) {
		t.Parallel()

		handler := NewReportHandler(&stubScheduleService{entries: entries}, nil)
		req := httptest.NewRequest(http.MethodGet, "/reports/schedule.pdf?loja=Rimini+Centro", nil)
		recorder := httptest.NewRecorder()
		handler.Render(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
		}
	})

	t.Run("requires exactly one scope", func(t *testing.T) {
		t.Parallel()

		handler := NewReportHandler(&stubScheduleService{entries: entries}, nil)
		req := httptest.NewRequest(http.MethodGet, "/reports/schedule.pdf?semana=Semana+1&loja=A&utilizador=B", nil)
		recorder := httptest.NewRecorder()
		handler.Render(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
		}
	})

	t.Run("renders a PDF for a store", func(t *testing.T) {
		t.Parallel()

		handler := NewReportHandler(&stubScheduleService{entries: entries}, nil)
		req := httptest.NewRequest(http.MethodGet, "/reports/schedule.pdf?semana=Semana+1&loja=Rimini+Centro", nil)
		recorder := httptest.NewRecorder()
		handler.Render(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
		}
		if ct := recorder.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Fatalf("content type = %q, want application/pdf", ct)
		}
		if !strings.HasPrefix(recorder.Body.String(), "%PDF") {
			t.Fatal("body does not start with %PDF")
		}
		if cd := recorder.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
			t.Fatalf("content disposition = %q", cd)
		}
	})
}

func TestUploadHandler(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests without a photo part", func(t *testing.T) {
		t.Parallel()

		handler := NewUploadHandler(t.TempDir(), nil, nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
		}
	})

	t.Run("stores the photo and returns its URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		uploadedAt := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
		handler := NewUploadHandler(dir, func() time.Time { return uploadedAt }, nil)

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("photo", "perfil.png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("fake-png-bytes")); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("failed to close writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/upload", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		recorder := httptest.NewRecorder()
		handler.Upload(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
		}
		resp := decodeBody[uploadResponse](t, recorder)
		if !strings.Contains(resp.URL, "/uploads/") || !strings.HasSuffix(resp.URL, ".png") {
			t.Fatalf("unexpected url %q", resp.URL)
		}

		stored := filepath.Join(dir, filepath.Base(resp.URL))
		data, err := os.ReadFile(stored)
		if err != nil {
			t.Fatalf("stored file missing: %v", err)
		}
		if string(data) != "fake-png-bytes" {
			t.Fatalf("stored content = %q", data)
		}
	})
}

func TestRouterMethodHandling(t *testing.T) {
	t.Parallel()

	scheduleService := &stubScheduleService{}
	router := NewRouter(RouterConfig{
		Auth:      NewAuthHandler(stubAuthService{err: application.ErrInvalidCredentials}, nil),
		Users:     NewUserHandler(stubUserService{}, nil),
		Schedules: NewScheduleHandler(scheduleService, nil),
		Health:    NewHealthHandler(nil, nil),
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "login rejects GET", method: http.MethodGet, path: "/auth/login", want: http.StatusMethodNotAllowed},
		{name: "entries rejects PUT at collection", method: http.MethodPut, path: "/schedule-entries", want: http.StatusMethodNotAllowed},
		{name: "edit rejects POST", method: http.MethodPost, path: "/schedule-entries/edit", want: http.StatusMethodNotAllowed},
		{name: "users rejects DELETE at collection", method: http.MethodDelete, path: "/users", want: http.StatusMethodNotAllowed},
		{name: "health responds to GET", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "unknown path is 404", method: http.MethodGet, path: "/nope", want: http.StatusNotFound},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, tc.path, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tc.want {
				t.Fatalf("status = %d, want %d", recorder.Code, tc.want)
			}
		})
	}
}
