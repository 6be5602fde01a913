package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the JSON logger used across the service. Unknown levels
// fall back to info.
func NewLogger(level string) *logrus.Logger {
	return newLogger(os.Stdout, level)
}

func newLogger(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		defer log.WithField("level", level).Warn("Unknown log level, using info")
	}
	log.SetLevel(lvl)
	return log
}
