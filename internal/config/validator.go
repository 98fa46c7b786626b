package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

type Validator interface {
	Validate(cfg *Config) error
}

type validator struct{}

func NewValidator() Validator {
	return validator{}
}

func (validator) Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalidConfig, cfg.Server.Port)
	}
	if cfg.Database.Host == "" {
		return fmt.Errorf("%w: database host is required", ErrInvalidConfig)
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		return fmt.Errorf("%w: database port %d", ErrInvalidConfig, cfg.Database.Port)
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("%w: database name is required", ErrInvalidConfig)
	}
	if cfg.Editor.AutosaveInterval <= 0 {
		return fmt.Errorf("%w: autosave interval must be positive", ErrInvalidConfig)
	}
	if cfg.Storage.Root == "" {
		return fmt.Errorf("%w: storage root is required", ErrInvalidConfig)
	}
	return nil
}
