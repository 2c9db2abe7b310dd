package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the scheduling service.
type Config struct {
	HTTPPort  int
	SQLiteDSN string
	JWTSecret string
	TokenTTL  time.Duration
	UploadDir string
}

// Load parses configuration values from the current process environment. A
// .env file in the working directory is merged in first when present, without
// overriding variables already exported.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:horarios.db?_foreign_keys=on",
		TokenTTL:  8 * time.Hour,
		UploadDir: "uploads",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("HORARIOS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "HORARIOS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("HORARIOS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("HORARIOS_JWT_SECRET")); secret == "" {
		missing = append(missing, "HORARIOS_JWT_SECRET")
	} else {
		cfg.JWTSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("HORARIOS_TOKEN_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "HORARIOS_TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if dir := strings.TrimSpace(os.Getenv("HORARIOS_UPLOAD_DIR")); dir != "" {
		cfg.UploadDir = dir
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente obrigatórias em falta: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valores de variáveis de ambiente inválidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
