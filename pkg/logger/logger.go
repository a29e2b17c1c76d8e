package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// InitLogger configures the shared logger. level accepts any logrus level
// name; unknown values fall back to info. The standard logrus logger gets the
// same output, format and level.
func InitLogger(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	for _, l := range []*logrus.Logger{Log, logrus.StandardLogger()} {
		// Output to stdout instead of the default stderr
		l.SetOutput(os.Stdout)
		// Set JSON formatter for structured logging
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(lvl)
	}
}
