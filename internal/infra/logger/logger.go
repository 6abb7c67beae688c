// internal/infra/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Init configures Log from the application config and returns a close function for the
// log file, if one was opened.
func Init(cfg *config.AppConfig) (func() error, error) {
	closeFn := func() error { return nil }

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("failed to open log file %q: %w", cfg.LogFile, err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closeFn = f.Close
	}
	Configure(Log, out, cfg.LogLevel, cfg.Environment)

	Log.Info("Logger initialized successfully.")
	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
	Log.Debugf("Log format set for environment: %s", cfg.Environment)
	return closeFn, nil
}

// Configure applies level, formatter and caller reporting to l.
func Configure(l *logrus.Logger, out io.Writer, logLevel, environment string) {
	l.SetOutput(out)
	l.SetReportCaller(true)

	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		l.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", logLevel, err)
	} else {
		l.SetLevel(level)
	}

	env := strings.ToLower(environment)
	if env == "production" || env == "staging" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   out != os.Stdout,
		})
	}
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
