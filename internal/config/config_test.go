package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/workshop/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:          ":3000",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "workshop.db",
		TokenDuration: 24 * time.Hour,
		JobIDPrefix:   "FE",
		Admin:         config.AdminConfig{Username: "admin", Password: "admin123"},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("WORKSHOP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("WORKSHOP_JWT_SECRET", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("WORKSHOP_DATABASE_PATH", "")
	t.Setenv("WORKSHOP_ADMIN_PASSWORD", "")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Fatalf("expected default addr :3000, got %q", cfg.Addr)
	}
	if cfg.JWTSecret != config.DefaultJWTSecret {
		t.Fatalf("expected placeholder secret, got %q", cfg.JWTSecret)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Fatalf("expected 24h token duration, got %v", cfg.TokenDuration)
	}
	if cfg.JobIDPrefix != "FE" {
		t.Fatalf("expected FE prefix, got %q", cfg.JobIDPrefix)
	}
	if cfg.Admin.Username != "admin" || cfg.Admin.Password != config.DefaultAdminPassword {
		t.Fatalf("unexpected admin defaults: %+v", cfg.Admin)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WORKSHOP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("WORKSHOP_DATABASE_PATH", "/tmp/x.db")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Addr)
	}
	if cfg.JWTSecret != "from-env" {
		t.Fatalf("expected secret from env, got %q", cfg.JWTSecret)
	}
	if cfg.DatabasePath != "/tmp/x.db" {
		t.Fatalf("expected db path from env, got %q", cfg.DatabasePath)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	y := "addr: \":0\"\n" +
		"jwt_secret: yaml-secret\n" +
		"timeout: 3s\n" +
		"token_duration: 2h\n" +
		"job_id_prefix: RJ\n" +
		"admin:\n  username: boss\n  password: pw\n"
	if err := os.WriteFile(p, []byte(y), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":0" || cfg.JWTSecret != "yaml-secret" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.APITimeout != 3*time.Second || cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("durations not applied: %v %v", cfg.APITimeout, cfg.TokenDuration)
	}
	if cfg.JobIDPrefix != "RJ" || cfg.Admin.Username != "boss" {
		t.Fatalf("nested values not applied: %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.Admin.Email != "admin@fahadelectric.com" {
		t.Fatalf("expected default admin email, got %q", cfg.Admin.Email)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "Valid", env: "production", mutate: func(c *config.Config) {}},
		{name: "PlaceholderSecret_Production", env: "production", mutate: func(c *config.Config) { c.JWTSecret = config.DefaultJWTSecret }, wantErr: true},
		{name: "PlaceholderSecret_Development", env: "development", mutate: func(c *config.Config) { c.JWTSecret = config.DefaultJWTSecret }},
		{name: "EmptySecret", env: "development", mutate: func(c *config.Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "EmptyAddr", env: "development", mutate: func(c *config.Config) { c.Addr = " " }, wantErr: true},
		{name: "ZeroTimeout", env: "development", mutate: func(c *config.Config) { c.APITimeout = 0 }, wantErr: true},
		{name: "ZeroTokenDuration", env: "development", mutate: func(c *config.Config) { c.TokenDuration = 0 }, wantErr: true},
		{name: "EmptyPrefix", env: "development", mutate: func(c *config.Config) { c.JobIDPrefix = "" }, wantErr: true},
		{name: "MissingAdminPassword", env: "development", mutate: func(c *config.Config) { c.Admin.Password = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WORKSHOP_ENV", tt.env)
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := validConfig()
	if w := cfg.Warnings(); len(w) != 0 {
		t.Fatalf("expected no warnings, got %v", w)
	}

	cfg.JWTSecret = config.DefaultJWTSecret
	w := cfg.Warnings()
	if len(w) != 1 || !strings.Contains(w[0], "jwt_secret") {
		t.Fatalf("expected placeholder secret warning, got %v", w)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := validConfig()
	cfg.LogLevel = "warn"

	l := cfg.NewLogger(&buf)
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("expected json warn line, got %s", out)
	}

	buf.Reset()
	cfg.LogFormat = "text"
	cfg.NewLogger(&buf).Warn("plain")
	if !strings.Contains(buf.String(), "msg=plain") {
		t.Fatalf("expected text output, got %s", buf.String())
	}
}
