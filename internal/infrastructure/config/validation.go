package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with readable messages
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the struct's validate tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')",
			e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig checks field tags, then the rules that span fields
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}
	if cfg.Logging.Output == "file" && cfg.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when logging.output is file")
	}
	if cfg.Database.Type == "postgres" && cfg.Database.URL == "" && cfg.Database.Host == "" {
		return fmt.Errorf("database.url or database.host is required for postgres")
	}
	for _, entry := range cfg.Simulation.Loop.Events.RollTable {
		if entry.Probability < 0 || entry.Probability > 1 {
			return fmt.Errorf("event roll probability for %s must be within [0,1], got %v", entry.Type, entry.Probability)
		}
	}
	return nil
}
