package errors

import (
	stdErrors "errors"
	"fmt"
)

// ConfigError represents a missing or malformed setting. These are fatal:
// the operation fails immediately and nothing is retried.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Setting != "" {
		return fmt.Sprintf("configuration %s: %s", e.Setting, e.Message)
	}
	return e.Message
}

// NewConfigError creates a ConfigError for the given setting.
func NewConfigError(setting, message string) *ConfigError {
	return &ConfigError{Setting: setting, Message: message}
}

// IsConfigError reports whether err is a ConfigError (even when wrapped).
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return stdErrors.As(err, &cfgErr)
}
