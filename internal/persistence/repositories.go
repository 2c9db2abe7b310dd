package persistence

import "context"

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	// DeleteUser removes a user. The last-administrator check and the delete
	// run as a single storage transaction; implementations return
	// ErrLastAdministrator when the target is the only remaining
	// administrator and ErrNotFound when the id is unknown.
	DeleteUser(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// TimeUpdate carries the fields rewritten by a batch time edit.
type TimeUpdate struct {
	ID        string
	StartTime *string
	EndTime   *string
}

// ScheduleRepository stores schedule entries.
type ScheduleRepository interface {
	CreateEntry(ctx context.Context, entry ScheduleEntry) error
	ListEntries(ctx context.Context) ([]ScheduleEntry, error)
	// UpdateEntryTimes overwrites start/end for each referenced id. Unknown
	// ids are silent no-ops by design.
	UpdateEntryTimes(ctx context.Context, updates []TimeUpdate) error
	DeleteEntry(ctx context.Context, id string) error
}
