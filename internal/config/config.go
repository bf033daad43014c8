package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is the placeholder secret used for local development only.
const DefaultJWTSecret = "your-secret-key-change-this"

// DefaultAdminPassword is the password of the seeded admin when none is configured.
const DefaultAdminPassword = "admin123"

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	JobIDPrefix    string        `yaml:"job_id_prefix"`
	StaticDir      string        `yaml:"static_dir"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	Admin          AdminConfig   `yaml:"admin"`
}

// AdminConfig holds the account seeded on first start.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

func LoadConfig(path string) (*Config, error) {
	addr := getEnv("WORKSHOP_ADDR", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", "3000")
	}

	cfg := &Config{
		Addr:           addr,
		JWTSecret:      getEnv("WORKSHOP_JWT_SECRET", getEnv("JWT_SECRET", DefaultJWTSecret)),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("WORKSHOP_DATABASE_PATH", "workshop.db"),
		TokenDuration:  24 * time.Hour,
		MigrateOnStart: true,
		JobIDPrefix:    getEnv("WORKSHOP_JOB_ID_PREFIX", "FE"),
		StaticDir:      getEnv("WORKSHOP_STATIC_DIR", ""),
		LogLevel:       getEnv("WORKSHOP_LOG_LEVEL", "info"),
		LogFormat:      "json",
		Admin: AdminConfig{
			Username: "admin",
			Password: getEnv("WORKSHOP_ADMIN_PASSWORD", DefaultAdminPassword),
			Email:    "admin@fahadelectric.com",
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks the loaded configuration. The placeholder JWT secret is
// only accepted when WORKSHOP_ENV is "development" (the default).
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == DefaultJWTSecret && Env() != "development" {
		errs = append(errs, fmt.Errorf("jwt_secret must be overridden outside development (env=%s)", Env()))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	if c.JobIDPrefix == "" {
		errs = append(errs, errors.New("job_id_prefix is required"))
	}
	if c.Admin.Username == "" || c.Admin.Password == "" {
		errs = append(errs, errors.New("admin.username and admin.password are required"))
	}

	return errors.Join(errs...)
}

// Warnings lists settings that are accepted but unsafe to run with.
func (c *Config) Warnings() []string {
	var out []string
	if c.JWTSecret == DefaultJWTSecret {
		out = append(out, "jwt_secret is the built-in placeholder; set WORKSHOP_JWT_SECRET before exposing the server")
	}
	return out
}

// Env returns the deployment environment name.
func Env() string {
	return strings.ToLower(getEnv("WORKSHOP_ENV", "development"))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
