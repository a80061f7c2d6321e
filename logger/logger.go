// Package logger is a small structured-logging facade over
// github.com/sirupsen/logrus, grounded on github.com/nabbar/golib/logger's
// Level enum and its "level value used as both the log call and the log
// level" calling convention (archive.ExtractAll logs via
// liblog.DebugLevel.Log(...)). The teacher's full config/entry/fields/hook
// machinery (syslog, gin, hclog, viper-driven setup) is orthogonal to an
// embeddable archive engine and is not reproduced here — see DESIGN.md.
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Level mirrors the subset of github.com/nabbar/golib/logger.Level this
// package offers.
type Level uint8

const (
	ErrorLevel Level = iota
	WarnLevel
	InfoLevel
	DebugLevel
)

func (l Level) String() string {
	switch l {
	case ErrorLevel:
		return "error"
	case WarnLevel:
		return "warn"
	case InfoLevel:
		return "info"
	default:
		return "debug"
	}
}

var std = logrus.New()

// SetOutput lets a caller redirect this package's log output (tests use
// this to assert on logged messages without touching stderr).
func SetOutput(l *logrus.Logger) {
	if l != nil {
		std = l
	}
}

func entry(fields logrus.Fields) *logrus.Entry {
	if fields == nil {
		return std.WithFields(logrus.Fields{})
	}
	return std.WithFields(fields)
}

// Log writes msg at the receiver's level.
func (l Level) Log(msg string) {
	l.LogFields(msg, nil)
}

// Logf formats then writes at the receiver's level.
func (l Level) Logf(pattern string, args ...any) {
	l.Log(fmt.Sprintf(pattern, args...))
}

// LogFields writes msg with structured fields attached.
func (l Level) LogFields(msg string, fields logrus.Fields) {
	e := entry(fields)
	switch l {
	case ErrorLevel:
		e.Error(msg)
	case WarnLevel:
		e.Warn(msg)
	case InfoLevel:
		e.Info(msg)
	default:
		e.Debug(msg)
	}
}
