// internal/logger/logger.go
package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	base     *logrus.Logger
	baseOnce sync.Once
)

// NewLogger returns the process-wide logrus logger.
// Every package keeps its own customLog handle, but they all share one
// output and one level so SetLevel applies everywhere.
func NewLogger() *logrus.Logger {
	baseOnce.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stdout)
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		base.SetLevel(logrus.InfoLevel)
	})
	return base
}

// SetLevel changes the level of the shared logger, e.g. "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	NewLogger().SetLevel(lvl)
	return nil
}
