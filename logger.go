package main

import (
	"fmt"

	"go.uber.org/zap"
)

// newLogger writes to a file because the terminal belongs to the UI.
func newLogger(path, sessionID string) (*zap.SugaredLogger, func() error, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build(zap.Fields(
		zap.String("ns", "reminder-editor"),
		zap.String("session", sessionID),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Sugar(), logger.Sync, nil
}
