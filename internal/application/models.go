package application

import (
	"strings"
	"time"
)

// Role gates which mutating operations a session may perform.
type Role string

const (
	RoleStaff         Role = "STAFF"
	RoleManager       Role = "MANAGER"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// ParseRole maps a caller supplied role name to a known Role. The second
// return value reports whether the name was recognised.
func ParseRole(name string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(name))) {
	case RoleStaff:
		return RoleStaff, true
	case RoleManager:
		return RoleManager, true
	case RoleAdministrator:
		return RoleAdministrator, true
	}
	return "", false
}

// MaskedPassword is the sentinel returned in place of stored hashes. Callers
// echoing it back on update signal "keep the current password".
const MaskedPassword = "******"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

// IsAdministrator reports whether the principal holds the ADMINISTRATOR role.
func (p Principal) IsAdministrator() bool {
	return p.Role == RoleAdministrator
}

// CanManageSchedules reports whether the principal may mutate schedule entries.
func (p Principal) CanManageSchedules() bool {
	return p.Role == RoleManager || p.Role == RoleAdministrator
}

// User represents an employee account exposed by the application services.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Stores    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRecord pairs a user with its stored password hash for persistence round trips.
type UserRecord struct {
	User
	PasswordHash string
}

// UserCredentials models the authentication attributes looked up at login.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Stores   []string
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update an existing user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// ScheduleEntry represents one persisted shift assignment.
type ScheduleEntry struct {
	ID           string
	UserID       *string
	EmployeeName string
	Store        string
	Week         string
	Day          string
	StartTime    *string
	EndTime      *string
	CreatedAt    time.Time
}

// ScheduleEntryInput captures caller provided fields for one new entry.
type ScheduleEntryInput struct {
	UserID       *string
	EmployeeName string
	Store        string
	Week         string
	Day          string
	StartTime    *string
	EndTime      *string
}

// CreateEntriesParams wraps a batch of entries to insert.
type CreateEntriesParams struct {
	Principal Principal
	Entries   []ScheduleEntryInput
}

// TimeUpdateInput carries the fields rewritten by a batch time edit.
type TimeUpdateInput struct {
	ID        string
	StartTime *string
	EndTime   *string
}

// UpdateEntryTimesParams wraps a batch of time edits.
type UpdateEntryTimesParams struct {
	Principal Principal
	Updates   []TimeUpdateInput
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
