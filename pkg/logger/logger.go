package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before InitLogger runs so
// packages and tests never see a nil logger.
var Log = logrus.New()

// InitLogger configures Log from the level and format names in the config.
func InitLogger(level, format string) *logrus.Logger {
	Log = New(os.Stdout, level, format)
	return Log
}

// New builds a standalone logger writing to out.
func New(out io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()
	l.Out = out

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
