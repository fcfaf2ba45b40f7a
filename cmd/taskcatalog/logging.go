package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-task-catalog/internal/config"
)

// newCLILogger builds the stderr logger. The --log-level flag wins over the
// configured level, which already includes the environment override.
func newCLILogger(w io.Writer, flagLevel, configLevel string) (*slog.Logger, error) {
	raw, source := selectedLogLevel(flagLevel, configLevel)

	level, err := config.ParseLevel(raw)
	if err != nil {
		if source == "flag" {
			return nil, fmt.Errorf("invalid --log-level %q", flagLevel)
		}
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, nil
}

func selectedLogLevel(flagLevel, configLevel string) (string, string) {
	if strings.TrimSpace(flagLevel) != "" {
		return flagLevel, "flag"
	}
	if strings.TrimSpace(configLevel) != "" {
		return configLevel, "config"
	}
	return config.DefaultLogLevel, "default"
}
