// Package logger holds the process-wide logrus instance.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Init must run once at startup.
var Log *logrus.Logger

// Init configures the logger from the environment: LOG_LEVEL selects the
// level (default info), LOG_FORMAT=json switches to JSON output.
func Init() {
	Log = logrus.New()

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log.SetOutput(os.Stdout)
}
