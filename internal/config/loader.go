package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultDatabaseURL points at a local SQLite file with foreign keys enabled.
const DefaultDatabaseURL = "file:shiftmanager.db?_pragma=foreign_keys(1)"

// Config captures environment driven configuration values for the shift manager service.
type Config struct {
	HTTPPort       int           `yaml:"http_port" validate:"min=1,max=65535"`
	DatabaseURL    string        `yaml:"database_url" validate:"required"`
	SecretKey      string        `yaml:"secret_key"`
	AdminCode      string        `yaml:"admin_code"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" validate:"gt=0"`
	LogLevel       string        `yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load parses configuration values from the current process environment.
//
// A .env file in the working directory (or at SHIFT_ENV_FILE) is merged into
// the environment first without overriding variables that are already set.
// SHIFT_CONFIG_FILE may name a YAML file whose values sit between the
// defaults and the environment.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("SHIFT_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("設定ファイル %s を読み込めません: %w", envFile, err)
	}

	cfg := Config{
		HTTPPort:       4567,
		DatabaseURL:    DefaultDatabaseURL,
		AccessTokenTTL: 30 * time.Minute,
		LogLevel:       "info",
	}

	if path := strings.TrimSpace(os.Getenv("SHIFT_CONFIG_FILE")); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 3)

	if portValue := strings.TrimSpace(os.Getenv("SHIFT_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SHIFT_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		cfg.DatabaseURL = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("SECRET_KEY")); secret != "" {
		cfg.SecretKey = secret
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}

	if code := strings.TrimSpace(os.Getenv("ADMIN_CODE")); code != "" {
		cfg.AdminCode = code
	}
	if cfg.AdminCode == "" {
		missing = append(missing, "ADMIN_CODE")
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ACCESS_TOKEN_TTL")
		} else {
			cfg.AccessTokenTTL = ttl
		}
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("必須の環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("設定値が不正です: %w", err)
	}

	return cfg, nil
}

// IsPostgres reports whether DatabaseURL selects the PostgreSQL backend.
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイル %s を読み込めません: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("設定ファイル %s の形式が不正です: %w", path, err)
	}
	return nil
}
