package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubCredentialStore struct {
	creds map[string]UserCredentials
	err   error
}

func (s stubCredentialStore) GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error) {
	if s.err != nil {
		return UserCredentials{}, s.err
	}
	creds, ok := s.creds[email]
	if !ok {
		return UserCredentials{}, ErrNotFound
	}
	return creds, nil
}

type stubTokenIssuer struct {
	token     string
	expiresAt time.Time
	err       error
}

func (s stubTokenIssuer) Issue(user User) (string, time.Time, error) {
	return s.token, s.expiresAt, s.err
}

func newTestAuthService(store CredentialStore) *AuthService {
	verify := func(hashedPassword, password string) error {
		if hashedPassword == "hashed:"+password {
			return nil
		}
		return ErrInvalidCredentials
	}
	issuer := stubTokenIssuer{
		token:     "signed-token",
		expiresAt: time.Date(2025, time.April, 1, 18, 0, 0, 0, time.UTC),
	}
	return NewAuthService(store, issuer, verify)
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	registered := UserCredentials{
		User: User{
			ID:    "user-1",
			Name:  "Ana Martins",
			Email: "ana@example.com",
			Role:  RoleAdministrator,
		},
		PasswordHash: "hashed:segredo",
	}
	store := stubCredentialStore{creds: map[string]UserCredentials{
		"ana@example.com": registered,
	}}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		t.Parallel()

		service := newTestAuthService(store)
		result, err := service.Authenticate(context.Background(), AuthenticateParams{
			Email:    "Ana@Example.com",
			Password: "segredo",
		})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}
		if result.Token != "signed-token" {
			t.Fatalf("token = %q, want signed-token", result.Token)
		}
		if result.User.ID != registered.User.ID {
			t.Fatalf("user id = %q, want %q", result.User.ID, registered.User.ID)
		}
		if result.ExpiresAt.IsZero() {
			t.Fatal("expected a non-zero expiry")
		}
	})

	t.Run("unknown email and wrong password yield the same rejection", func(t *testing.T) {
		t.Parallel()

		service := newTestAuthService(store)

		_, unknownErr := service.Authenticate(context.Background(), AuthenticateParams{
			Email:    "nobody@example.com",
			Password: "segredo",
		})
		_, wrongErr := service.Authenticate(context.Background(), AuthenticateParams{
			Email:    "ana@example.com",
			Password: "errada",
		})

		if !errors.Is(unknownErr, ErrInvalidCredentials) {
			t.Fatalf("unknown email error = %v, want ErrInvalidCredentials", unknownErr)
		}
		if !errors.Is(wrongErr, ErrInvalidCredentials) {
			t.Fatalf("wrong password error = %v, want ErrInvalidCredentials", wrongErr)
		}
		if unknownErr.Error() != wrongErr.Error() {
			t.Fatalf("rejections differ: %q vs %q", unknownErr, wrongErr)
		}
	})

	t.Run("rejects empty credentials without a lookup", func(t *testing.T) {
		t.Parallel()

		service := newTestAuthService(stubCredentialStore{err: errors.New("store should not be called")})

		if _, err := service.Authenticate(context.Background(), AuthenticateParams{Email: "", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("empty email error = %v, want ErrInvalidCredentials", err)
		}
		if _, err := service.Authenticate(context.Background(), AuthenticateParams{Email: "a@b.com", Password: ""}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("empty password error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("propagates unexpected store failures", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("disk unavailable")
		service := newTestAuthService(stubCredentialStore{err: storeErr})

		_, err := service.Authenticate(context.Background(), AuthenticateParams{
			Email:    "ana@example.com",
			Password: "segredo",
		})
		if !errors.Is(err, storeErr) {
			t.Fatalf("error = %v, want wrapped store failure", err)
		}
		if errors.Is(err, ErrInvalidCredentials) {
			t.Fatal("store failure must not be reported as invalid credentials")
		}
	})
}
