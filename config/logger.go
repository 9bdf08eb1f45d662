package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the service-wide structured logger. JSON output so
// log aggregators can index stage/provider fields.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level := logrus.InfoLevel
	if parsed, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = parsed
	}
	log.SetLevel(level)

	return log
}
