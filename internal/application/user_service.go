package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, record UserRecord) (User, error)
	GetUserRecord(ctx context.Context, id string) (UserRecord, error)
	UpdateUser(ctx context.Context, record UserRecord) (User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]User, error)
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService orchestrates validation, authorization, and persistence for users.
type UserService struct {
	users        UserRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, hash PasswordHasher, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, hash, idGenerator, now, nil)
}

// NewUserServiceWithLogger constructs a UserService with a specified logger.
func NewUserServiceWithLogger(users UserRepository, hash PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if hash == nil {
		hash = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:        users,
		hashPassword: hash,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// CreateUser validates input, hashes the password, and persists a new user.
// Only administrators may create accounts.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !params.Principal.IsAdministrator() {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	normalized := normalizeUserInput(params.Input)
	role, vErr := validateUserInput(normalized, true)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(normalized.Password)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	record := UserRecord{
		User: User{
			ID:        s.idGenerator(),
			Name:      normalized.Name,
			Email:     normalized.Email,
			Role:      role,
			Stores:    normalized.Stores,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}

	persisted, err := s.users.CreateUser(ctx, record)
	if err != nil {
		s.loggerWith(ctx, "CreateUser", "email", normalized.Email).
			ErrorContext(ctx, "user creation failed", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	s.loggerWith(ctx, "CreateUser", "user_id", persisted.ID).InfoContext(ctx, "user created")
	return persisted, nil
}

// UpdateUser validates input and updates an existing user. The password is
// re-hashed only when the caller supplies a new plaintext value; an empty
// password or the masked sentinel preserves the stored hash, so echoing a
// listed user back does not lock the account out.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if !params.Principal.IsAdministrator() {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	existing, err := s.users.GetUserRecord(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	normalized := normalizeUserInput(params.Input)
	keepPassword := normalized.Password == "" || normalized.Password == MaskedPassword
	role, vErr := validateUserInput(normalized, !keepPassword)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash := existing.PasswordHash
	if !keepPassword {
		hash, err = s.hashPassword(normalized.Password)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	record := UserRecord{
		User: User{
			ID:        existing.ID,
			Name:      normalized.Name,
			Email:     normalized.Email,
			Role:      role,
			Stores:    normalized.Stores,
			CreatedAt: existing.CreatedAt,
			UpdatedAt: s.now(),
		},
		PasswordHash: hash,
	}

	persisted, err := s.users.UpdateUser(ctx, record)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		s.loggerWith(ctx, "UpdateUser", "user_id", params.UserID).
			ErrorContext(ctx, "user update failed", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	s.loggerWith(ctx, "UpdateUser", "user_id", persisted.ID).InfoContext(ctx, "user updated")
	return persisted, nil
}

// DeleteUser removes a user when requested by an administrator. Deleting the
// sole remaining administrator fails with ErrLastAdministrator; the guard is
// enforced atomically by the storage layer.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdministrator() {
		return ErrUnauthorized
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteUser", "user_id", userID)
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		logger.ErrorContext(ctx, "user delete failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "user deleted")
	return nil
}

// ListUsers returns all users for any authenticated principal. Password hashes
// never leave the repository boundary; responses carry the masked sentinel.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.users == nil {
		return nil, nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func normalizeUserInput(input UserInput) UserInput {
	stores := make([]string, 0, len(input.Stores))
	for _, store := range input.Stores {
		if trimmed := strings.TrimSpace(store); trimmed != "" {
			stores = append(stores, trimmed)
		}
	}

	return UserInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: input.Password,
		Role:     strings.TrimSpace(input.Role),
		Stores:   stores,
	}
}

func validateUserInput(input UserInput, passwordRequired bool) (Role, *ValidationError) {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if passwordRequired && input.Password == "" {
		vErr.add("password", "password is required")
	}

	if len(input.Stores) == 0 {
		vErr.add("stores", "at least one store is required")
	}

	role, ok := ParseRole(input.Role)
	if !ok {
		vErr.add("role", "role is unknown")
	}

	return role, vErr
}
