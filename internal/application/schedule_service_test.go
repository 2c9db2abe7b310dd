package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubScheduleRepository struct {
	entries     []ScheduleEntry
	createErr   error
	updateErr   error
	deleteErr   error
	lastUpdates []TimeUpdateInput
}

func (r *stubScheduleRepository) CreateEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error) {
	if r.createErr != nil {
		return ScheduleEntry{}, r.createErr
	}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *stubScheduleRepository) ListEntries(ctx context.Context) ([]ScheduleEntry, error) {
	return r.entries, nil
}

func (r *stubScheduleRepository) UpdateEntryTimes(ctx context.Context, updates []TimeUpdateInput) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.lastUpdates = updates
	return nil
}

func (r *stubScheduleRepository) DeleteEntry(ctx context.Context, id string) error {
	return r.deleteErr
}

var managerPrincipal = Principal{UserID: "manager-1", Name: "Gestor", Email: "gestor@example.com", Role: RoleManager}

func newTestScheduleService(repo *stubScheduleRepository) *ScheduleService {
	counter := 0
	idGenerator := func() string {
		counter++
		return "entry-generated"
	}
	now := func() time.Time { return time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC) }
	return NewScheduleService(repo, idGenerator, now)
}

func validEntryInput() ScheduleEntryInput {
	return ScheduleEntryInput{
		EmployeeName: "Ana Martins",
		Store:        "Rimini Centro",
		Week:         "Semana 1",
		Day:          "Segunda-feira",
	}
}

func TestScheduleService_CreateEntries(t *testing.T) {
	t.Parallel()

	t.Run("requires schedule management privileges", func(t *testing.T) {
		t.Parallel()

		service := newTestScheduleService(&stubScheduleRepository{})
		_, err := service.CreateEntries(context.Background(), CreateEntriesParams{
			Principal: Principal{UserID: "staff-1", Role: RoleStaff},
			Entries:   []ScheduleEntryInput{validEntryInput()},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("skips invalid entries and inserts the rest", func(t *testing.T) {
		t.Parallel()

		repo := &stubScheduleRepository{}
		service := newTestScheduleService(repo)

		missingStore := validEntryInput()
		missingStore.Store = " "
		unknownDay := validEntryInput()
		unknownDay.Day = "Monday"

		inserted, err := service.CreateEntries(context.Background(), CreateEntriesParams{
			Principal: managerPrincipal,
			Entries:   []ScheduleEntryInput{validEntryInput(), missingStore, unknownDay},
		})
		if err != nil {
			t.Fatalf("CreateEntries returned error: %v", err)
		}
		if len(inserted) != 1 {
			t.Fatalf("inserted %d entries, want 1", len(inserted))
		}
		if len(repo.entries) != 1 {
			t.Fatalf("repository holds %d entries, want 1", len(repo.entries))
		}
		if inserted[0].ID == "" || inserted[0].CreatedAt.IsZero() {
			t.Fatalf("entry missing generated id or timestamp: %+v", inserted[0])
		}
	})

	t.Run("rejects a batch with no valid entries", func(t *testing.T) {
		t.Parallel()

		service := newTestScheduleService(&stubScheduleRepository{})

		invalid := validEntryInput()
		invalid.Day = "Feriado"
		_, err := service.CreateEntries(context.Background(), CreateEntriesParams{
			Principal: managerPrincipal,
			Entries:   []ScheduleEntryInput{invalid},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
		if _, ok := vErr.FieldErrors["entries"]; !ok {
			t.Fatalf("expected entries field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		t.Parallel()

		repoErr := errors.New("disk full")
		service := newTestScheduleService(&stubScheduleRepository{createErr: repoErr})

		_, err := service.CreateEntries(context.Background(), CreateEntriesParams{
			Principal: managerPrincipal,
			Entries:   []ScheduleEntryInput{validEntryInput()},
		})
		if !errors.Is(err, repoErr) {
			t.Fatalf("error = %v, want storage failure", err)
		}
	})

	t.Run("accepts entries without times", func(t *testing.T) {
		t.Parallel()

		repo := &stubScheduleRepository{}
		service := newTestScheduleService(repo)

		blank := " "
		input := validEntryInput()
		input.StartTime = &blank

		inserted, err := service.CreateEntries(context.Background(), CreateEntriesParams{
			Principal: managerPrincipal,
			Entries:   []ScheduleEntryInput{input},
		})
		if err != nil {
			t.Fatalf("CreateEntries returned error: %v", err)
		}
		if inserted[0].StartTime != nil {
			t.Fatalf("blank start time should normalize to nil, got %q", *inserted[0].StartTime)
		}
	})
}

func TestScheduleService_UpdateEntryTimes(t *testing.T) {
	t.Parallel()

	start := "09:00"
	end := "13:00"

	t.Run("requires schedule management privileges", func(t *testing.T) {
		t.Parallel()

		service := newTestScheduleService(&stubScheduleRepository{})
		err := service.UpdateEntryTimes(context.Background(), UpdateEntryTimesParams{
			Principal: Principal{UserID: "staff-1", Role: RoleStaff},
			Updates:   []TimeUpdateInput{{ID: "entry-1", StartTime: &start}},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("drops updates without an id", func(t *testing.T) {
		t.Parallel()

		repo := &stubScheduleRepository{}
		service := newTestScheduleService(repo)

		err := service.UpdateEntryTimes(context.Background(), UpdateEntryTimesParams{
			Principal: managerPrincipal,
			Updates: []TimeUpdateInput{
				{ID: " ", StartTime: &start},
				{ID: "entry-1", StartTime: &start, EndTime: &end},
			},
		})
		if err != nil {
			t.Fatalf("UpdateEntryTimes returned error: %v", err)
		}
		if len(repo.lastUpdates) != 1 {
			t.Fatalf("forwarded %d updates, want 1", len(repo.lastUpdates))
		}
		if repo.lastUpdates[0].ID != "entry-1" {
			t.Fatalf("forwarded id = %q", repo.lastUpdates[0].ID)
		}
	})

	t.Run("treats an all-blank batch as a no-op", func(t *testing.T) {
		t.Parallel()

		repo := &stubScheduleRepository{updateErr: errors.New("repository must not be called")}
		service := newTestScheduleService(repo)

		err := service.UpdateEntryTimes(context.Background(), UpdateEntryTimesParams{
			Principal: managerPrincipal,
			Updates:   []TimeUpdateInput{{ID: ""}},
		})
		if err != nil {
			t.Fatalf("UpdateEntryTimes returned error: %v", err)
		}
	})
}

func TestScheduleService_DeleteEntry(t *testing.T) {
	t.Parallel()

	t.Run("requires schedule management privileges", func(t *testing.T) {
		t.Parallel()

		service := newTestScheduleService(&stubScheduleRepository{})
		err := service.DeleteEntry(context.Background(), Principal{UserID: "staff-1", Role: RoleStaff}, "entry-1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("maps missing entries to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		service := newTestScheduleService(&stubScheduleRepository{deleteErr: ErrNotFound})
		err := service.DeleteEntry(context.Background(), managerPrincipal, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("allows managers to delete entries", func(t *testing.T) {
		t.Parallel()

		service := newTestScheduleService(&stubScheduleRepository{})
		if err := service.DeleteEntry(context.Background(), managerPrincipal, "entry-1"); err != nil {
			t.Fatalf("DeleteEntry returned error: %v", err)
		}
	})
}

func TestScheduleService_ListEntries(t *testing.T) {
	t.Parallel()

	t.Run("requires an authenticated principal", func(t *testing.T) {
		t.Parallel()

		service := newTestScheduleService(&stubScheduleRepository{})
		_, err := service.ListEntries(context.Background(), Principal{})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("returns entries for staff", func(t *testing.T) {
		t.Parallel()

		repo := &stubScheduleRepository{entries: []ScheduleEntry{{ID: "entry-1"}}}
		service := newTestScheduleService(repo)

		entries, err := service.ListEntries(context.Background(), Principal{UserID: "staff-1", Role: RoleStaff})
		if err != nil {
			t.Fatalf("ListEntries returned error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
	})
}
