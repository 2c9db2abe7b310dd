package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/application"
	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/config"
	httptransport "github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/http"
	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/persistence"
	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/persistence/sqlite"
	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/token"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Error("failed to create upload directory", "error", err, "path", cfg.UploadDir)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	userRepo := newUserRepositoryAdapter(storage.Users)
	scheduleRepo := newScheduleRepositoryAdapter(storage.Schedules)
	credentialStore := newCredentialStoreAdapter(storage.Users)

	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL, now)

	authService := application.NewAuthServiceWithLogger(credentialStore, issuer, nil, logger)
	userService := application.NewUserServiceWithLogger(userRepo, nil, idGenerator, now, logger)
	scheduleService := application.NewScheduleServiceWithLogger(scheduleRepo, idGenerator, now, logger)

	authHandler := httptransport.NewAuthHandler(authService, logger)
	userHandler := httptransport.NewUserHandler(userService, logger)
	scheduleHandler := httptransport.NewScheduleHandler(scheduleService, logger)
	uploadHandler := httptransport.NewUploadHandler(cfg.UploadDir, now, logger)
	reportHandler := httptransport.NewReportHandler(scheduleService, logger)
	healthHandler := httptransport.NewHealthHandler(storage, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      authHandler,
		Users:     userHandler,
		Schedules: scheduleHandler,
		Uploads:   uploadHandler,
		Reports:   reportHandler,
		Health:    healthHandler,
		UploadDir: cfg.UploadDir,
		Protected: httptransport.RequireToken(issuer, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("horarios API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type userRepositoryAdapter struct {
	repo *sqlite.UserRepository
}

func newUserRepositoryAdapter(repo *sqlite.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, record application.UserRecord) (application.User, error) {
	if err := a.repo.CreateUser(ctx, toPersistenceUser(record)); err != nil {
		return application.User{}, translatePersistenceError(err)
	}
	stored, err := a.repo.GetUser(ctx, record.ID)
	if err != nil {
		return application.User{}, translatePersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUserRecord(ctx context.Context, id string) (application.UserRecord, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.UserRecord{}, translatePersistenceError(err)
	}
	return application.UserRecord{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, record application.UserRecord) (application.User, error) {
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(record)); err != nil {
		return application.User{}, translatePersistenceError(err)
	}
	stored, err := a.repo.GetUser(ctx, record.ID)
	if err != nil {
		return application.User{}, translatePersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return translatePersistenceError(a.repo.DeleteUser(ctx, id))
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, translatePersistenceError(err)
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type credentialStoreAdapter struct {
	repo *sqlite.UserRepository
}

func newCredentialStoreAdapter(repo *sqlite.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, translatePersistenceError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

type scheduleRepositoryAdapter struct {
	repo *sqlite.ScheduleRepository
}

func newScheduleRepositoryAdapter(repo *sqlite.ScheduleRepository) *scheduleRepositoryAdapter {
	return &scheduleRepositoryAdapter{repo: repo}
}

func (a *scheduleRepositoryAdapter) CreateEntry(ctx context.Context, entry application.ScheduleEntry) (application.ScheduleEntry, error) {
	if err := a.repo.CreateEntry(ctx, toPersistenceEntry(entry)); err != nil {
		return application.ScheduleEntry{}, translatePersistenceError(err)
	}
	return entry, nil
}

func (a *scheduleRepositoryAdapter) ListEntries(ctx context.Context) ([]application.ScheduleEntry, error) {
	models, err := a.repo.ListEntries(ctx)
	if err != nil {
		return nil, translatePersistenceError(err)
	}
	entries := make([]application.ScheduleEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toApplicationEntry(model))
	}
	return entries, nil
}

func (a *scheduleRepositoryAdapter) UpdateEntryTimes(ctx context.Context, updates []application.TimeUpdateInput) error {
	persisted := make([]persistence.TimeUpdate, 0, len(updates))
	for _, update := range updates {
		persisted = append(persisted, persistence.TimeUpdate{
			ID:        update.ID,
			StartTime: cloneString(update.StartTime),
			EndTime:   cloneString(update.EndTime),
		})
	}
	return translatePersistenceError(a.repo.UpdateEntryTimes(ctx, persisted))
}

func (a *scheduleRepositoryAdapter) DeleteEntry(ctx context.Context, id string) error {
	return translatePersistenceError(a.repo.DeleteEntry(ctx, id))
}

// translatePersistenceError maps storage sentinels onto the application error
// taxonomy so services never import the persistence package.
func translatePersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	case errors.Is(err, persistence.ErrLastAdministrator):
		return application.ErrLastAdministrator
	default:
		return err
	}
}

func toApplicationUser(model persistence.User) application.User {
	role, ok := application.ParseRole(model.Role)
	if !ok {
		role = application.RoleStaff
	}
	return application.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      role,
		Stores:    append([]string(nil), model.Stores...),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceUser(record application.UserRecord) persistence.User {
	return persistence.User{
		ID:           record.ID,
		Name:         record.Name,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
		Role:         string(record.Role),
		Stores:       append([]string(nil), record.Stores...),
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toApplicationEntry(model persistence.ScheduleEntry) application.ScheduleEntry {
	return application.ScheduleEntry{
		ID:           model.ID,
		UserID:       cloneString(model.UserID),
		EmployeeName: model.EmployeeName,
		Store:        model.Store,
		Week:         model.Week,
		Day:          model.Day,
		StartTime:    cloneString(model.StartTime),
		EndTime:      cloneString(model.EndTime),
		CreatedAt:    model.CreatedAt,
	}
}

func toPersistenceEntry(entry application.ScheduleEntry) persistence.ScheduleEntry {
	return persistence.ScheduleEntry{
		ID:           entry.ID,
		UserID:       cloneString(entry.UserID),
		EmployeeName: entry.EmployeeName,
		Store:        entry.Store,
		Week:         entry.Week,
		Day:          entry.Day,
		StartTime:    cloneString(entry.StartTime),
		EndTime:      cloneString(entry.EndTime),
		CreatedAt:    entry.CreatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
