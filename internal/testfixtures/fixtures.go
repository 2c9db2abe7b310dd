// Package testfixtures provides deterministic clocks, identifier generators,
// record builders, and a temporary SQLite harness shared by tests across the
// repository.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/persistence"
)

var (
	userCounter  uint64
	entryCounter uint64
)

var referenceTime = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user record.
type UserOption func(*persistence.User)

// NewUserRecord returns a deterministic persistence user with optional overrides.
func NewUserRecord(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Name:         fmt.Sprintf("Utilizador %03d", idx),
		Email:        fmt.Sprintf("%s@example.com", id),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         "STAFF",
		Stores:       []string{"Rimini Centro"},
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user id.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) { u.ID = id }
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithUserRole overrides the generated role.
func WithUserRole(role string) UserOption {
	return func(u *persistence.User) { u.Role = role }
}

// WithUserStores overrides the generated store assignment.
func WithUserStores(stores ...string) UserOption {
	return func(u *persistence.User) { u.Stores = stores }
}

// EntryOption configures a generated schedule entry record.
type EntryOption func(*persistence.ScheduleEntry)

// NewEntryRecord returns a deterministic persistence schedule entry with
// optional overrides.
func NewEntryRecord(opts ...EntryOption) persistence.ScheduleEntry {
	idx := atomic.AddUint64(&entryCounter, 1)
	start := "09:00"
	end := "13:00"
	entry := persistence.ScheduleEntry{
		ID:           fmt.Sprintf("entry-%03d", idx),
		EmployeeName: fmt.Sprintf("Utilizador %03d", idx),
		Store:        "Rimini Centro",
		Week:         "Semana 1",
		Day:          "Segunda-feira",
		StartTime:    &start,
		EndTime:      &end,
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Second),
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// WithEntryID overrides the generated entry id.
func WithEntryID(id string) EntryOption {
	return func(e *persistence.ScheduleEntry) { e.ID = id }
}

// WithEntryDay overrides the generated weekday.
func WithEntryDay(day string) EntryOption {
	return func(e *persistence.ScheduleEntry) { e.Day = day }
}

// WithEntryWeek overrides the generated week label.
func WithEntryWeek(week string) EntryOption {
	return func(e *persistence.ScheduleEntry) { e.Week = week }
}

// WithEntryStore overrides the generated store.
func WithEntryStore(store string) EntryOption {
	return func(e *persistence.ScheduleEntry) { e.Store = store }
}

// WithEntryEmployee overrides the generated employee name.
func WithEntryEmployee(name string) EntryOption {
	return func(e *persistence.ScheduleEntry) { e.EmployeeName = name }
}

// WithEntryTimes overrides the generated start and end times. Empty strings
// clear the corresponding time.
func WithEntryTimes(start, end string) EntryOption {
	return func(e *persistence.ScheduleEntry) {
		if start == "" {
			e.StartTime = nil
		} else {
			s := start
			e.StartTime = &s
		}
		if end == "" {
			e.EndTime = nil
		} else {
			s := end
			e.EndTime = &s
		}
	}
}
