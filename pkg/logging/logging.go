package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger
func Setup(level string, jsonFormat bool) error {
	return Configure(logrus.StandardLogger(), os.Stderr, level, jsonFormat)
}

// Configure applies level and formatter to a logger writing to out
func Configure(logger *logrus.Logger, out io.Writer, level string, jsonFormat bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	logger.SetOutput(out)
	logger.SetLevel(lvl)
	if jsonFormat {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	}
	return nil
}

// ParseLevel accepts the level names used by the --log-level flag
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return logrus.InfoLevel, nil
	case "warning":
		return logrus.WarnLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Discard silences the standard logger, used by the terminal UI
func Discard() {
	logrus.SetOutput(io.Discard)
}
