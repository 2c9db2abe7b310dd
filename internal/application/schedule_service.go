package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/roster"
)

// ScheduleRepository captures the persistence operations needed by the schedule service.
type ScheduleRepository interface {
	CreateEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error)
	ListEntries(ctx context.Context) ([]ScheduleEntry, error)
	UpdateEntryTimes(ctx context.Context, updates []TimeUpdateInput) error
	DeleteEntry(ctx context.Context, id string) error
}

// ScheduleService coordinates batch insertion, time edits, and deletion of
// shift assignments.
type ScheduleService struct {
	entries     ScheduleRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewScheduleService wires dependencies for the schedule service.
func NewScheduleService(entries ScheduleRepository, idGenerator func() string, now func() time.Time) *ScheduleService {
	return NewScheduleServiceWithLogger(entries, idGenerator, now, nil)
}

// NewScheduleServiceWithLogger constructs a ScheduleService with a specified logger.
func NewScheduleServiceWithLogger(entries ScheduleRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ScheduleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		entries:     entries,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ScheduleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScheduleService", operation, attrs...)
}

// ListEntries returns all entries in canonical weekday order.
func (s *ScheduleService) ListEntries(ctx context.Context, principal Principal) ([]ScheduleEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.entries == nil {
		return nil, nil
	}
	return s.entries.ListEntries(ctx)
}

// CreateEntries inserts a batch of entries. Entries missing the employee
// name, store, week, or a canonical day label are skipped rather than failing
// the batch; the inserted subset is returned. A batch in which nothing
// validates yields a ValidationError. Partial success over strict rejection
// is the intended policy for this endpoint.
func (s *ScheduleService) CreateEntries(ctx context.Context, params CreateEntriesParams) ([]ScheduleEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if !params.Principal.CanManageSchedules() {
		return nil, ErrUnauthorized
	}
	if s.entries == nil {
		return nil, fmt.Errorf("schedule repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateEntries", "batch_size", len(params.Entries))

	inserted := make([]ScheduleEntry, 0, len(params.Entries))
	skipped := 0
	for _, input := range params.Entries {
		normalized := normalizeEntryInput(input)
		if !entryInputValid(normalized) {
			skipped++
			logger.WarnContext(ctx, "skipping invalid schedule entry",
				"employee", normalized.EmployeeName, "store", normalized.Store, "day", normalized.Day)
			continue
		}

		entry := ScheduleEntry{
			ID:           s.idGenerator(),
			UserID:       normalized.UserID,
			EmployeeName: normalized.EmployeeName,
			Store:        normalized.Store,
			Week:         normalized.Week,
			Day:          normalized.Day,
			StartTime:    normalized.StartTime,
			EndTime:      normalized.EndTime,
			CreatedAt:    s.now(),
		}

		persisted, err := s.entries.CreateEntry(ctx, entry)
		if err != nil {
			logger.ErrorContext(ctx, "entry insert failed", "error", err, "error_kind", ErrorKind(err))
			return nil, err
		}
		inserted = append(inserted, persisted)
	}

	if len(inserted) == 0 {
		vErr := &ValidationError{}
		vErr.add("entries", "no valid entries in batch")
		logger.ErrorContext(ctx, "batch rejected: no valid entries", "skipped", skipped)
		return nil, vErr
	}

	logger.With("inserted", len(inserted), "skipped", skipped).InfoContext(ctx, "entries created")
	return inserted, nil
}

// UpdateEntryTimes overwrites start/end times for each update carrying an id.
// Updates without an id are ignored; unknown ids are silent no-ops.
func (s *ScheduleService) UpdateEntryTimes(ctx context.Context, params UpdateEntryTimesParams) error {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if !params.Principal.CanManageSchedules() {
		return ErrUnauthorized
	}
	if s.entries == nil {
		return fmt.Errorf("schedule repository not configured")
	}

	updates := make([]TimeUpdateInput, 0, len(params.Updates))
	for _, update := range params.Updates {
		if strings.TrimSpace(update.ID) == "" {
			continue
		}
		updates = append(updates, update)
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.entries.UpdateEntryTimes(ctx, updates); err != nil {
		s.loggerWith(ctx, "UpdateEntryTimes").
			ErrorContext(ctx, "time update failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.loggerWith(ctx, "UpdateEntryTimes", "updated", len(updates)).InfoContext(ctx, "entry times updated")
	return nil
}

// DeleteEntry removes one entry; ErrNotFound when no row matched.
func (s *ScheduleService) DeleteEntry(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if !principal.CanManageSchedules() {
		return ErrUnauthorized
	}
	if s.entries == nil {
		return fmt.Errorf("schedule repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEntry", "entry_id", id)
	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.ErrorContext(ctx, "entry not found", "error_kind", "not_found")
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "entry delete failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "entry deleted")
	return nil
}

func normalizeEntryInput(input ScheduleEntryInput) ScheduleEntryInput {
	return ScheduleEntryInput{
		UserID:       input.UserID,
		EmployeeName: strings.TrimSpace(input.EmployeeName),
		Store:        strings.TrimSpace(input.Store),
		Week:         strings.TrimSpace(input.Week),
		Day:          strings.TrimSpace(input.Day),
		StartTime:    trimTime(input.StartTime),
		EndTime:      trimTime(input.EndTime),
	}
}

func entryInputValid(input ScheduleEntryInput) bool {
	if input.EmployeeName == "" || input.Store == "" || input.Week == "" {
		return false
	}
	return roster.IsCanonicalDay(input.Day)
}

func trimTime(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
