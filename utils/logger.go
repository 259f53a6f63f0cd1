package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger from the configured level
// and environment. Production and staging log JSON; everything else gets the
// readable text formatter.
func InitLogger(level, environment string) {
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logrus.Warnf("Invalid log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	switch strings.ToLower(environment) {
	case "production", "staging":
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}
