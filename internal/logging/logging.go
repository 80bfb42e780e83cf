package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger.
// format is "json" or "text"; unknown levels fall back to info.
func Init(level, format string) {
	InitOutput(level, format, os.Stderr)
}

// InitOutput is Init with an explicit output writer
func InitOutput(level, format string, out io.Writer) {
	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logrus.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// For returns a logger entry scoped to a component
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// OrDefault returns entry, or a component logger when entry is nil
func OrDefault(entry *logrus.Entry, component string) *logrus.Entry {
	if entry != nil {
		return entry
	}
	return For(component)
}
