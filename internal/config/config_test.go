package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("unexpected server port %d", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 || cfg.Database.Host != "localhost" {
		t.Errorf("unexpected database defaults %+v", cfg.Database)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Format != "json" {
		t.Errorf("unexpected logger defaults %+v", cfg.Logger)
	}
	if cfg.Editor.AutosaveInterval != 1000*time.Millisecond {
		t.Errorf("unexpected autosave interval %v", cfg.Editor.AutosaveInterval)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BOT_CONSTRUCTOR_SERVER_PORT", "9000")
	t.Setenv("BOT_CONSTRUCTOR_LOGGER_LEVEL", "debug")

	cfg, err := Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("env override lost, port %d", cfg.Server.Port)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("env override lost, level %q", cfg.Logger.Level)
	}
}

func TestValidatorRejectsBrokenConfig(t *testing.T) {
	v := NewValidator()

	cfg := SetDefaultConfig()
	cfg.Server.Port = -1
	if err := v.Validate(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	cfg = SetDefaultConfig()
	cfg.Editor.AutosaveInterval = 0
	if err := v.Validate(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	if err := v.Validate(SetDefaultConfig()); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}
