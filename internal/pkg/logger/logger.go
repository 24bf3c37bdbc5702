// Package logger builds the process logger: structured JSON via logrus with
// optional PII redaction.
//
// The logger is constructed once by the process entrypoint and passed
// explicitly to every component that logs. Nothing in this package touches
// logrus's package-level standard logger.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignite/newsletter/internal/config"
)

// New creates a logger writing to w. Unknown levels fall back to info.
func New(cfg config.LogSettings, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "time",
				logrus.FieldKeyMsg:  "msg",
			},
		})
	}

	if cfg.RedactPII {
		log.AddHook(RedactHook{})
	}
	return log
}

// Discard returns a logger that drops everything, for tests and tools.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// RedactHook masks email addresses in the message and in every field before
// the entry is formatted.
type RedactHook struct{}

func (RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (RedactHook) Fire(entry *logrus.Entry) error {
	entry.Message = redactValue("", entry.Message)

	for key, val := range entry.Data {
		switch v := val.(type) {
		case string:
			entry.Data[key] = redactValue(key, v)
		case error:
			entry.Data[key] = redactValue(key, v.Error())
		case fmt.Stringer:
			entry.Data[key] = redactValue(key, v.String())
		}
	}
	return nil
}
