package persistence

import "time"

// User represents an employee account in the scheduling domain.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Stores       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScheduleEntry represents one (employee, store, week, day, time range)
// assignment row. UserID may be empty: entries reference employees by the
// denormalized name once the owning account is renamed or deleted.
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
