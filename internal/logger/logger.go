package logger

import (
	"go.uber.org/zap"
)

// New builds a zap logger for the given environment: JSON output in
// production, human-readable console output otherwise.
func New(isProduction bool) (*zap.Logger, error) {
	if isProduction {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewNamed builds an environment-appropriate logger named after the service.
func NewNamed(isProduction bool, name string) (*zap.Logger, error) {
	log, err := New(isProduction)
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
