package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// Logger provides verbose output for compilation decisions. Messages go to
// the commonlog backend configured by the host program.
type Logger struct {
	enabled bool
	log     commonlog.Logger
}

// NewLogger creates a logger named regvm.<name>.
func NewLogger(name string, enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		log:     commonlog.GetLogger("regvm." + name),
	}
}

// Log emits a formatted debug message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...interface{}) {
	if l.enabled {
		l.log.Debugf(format, args...)
	}
}

// Warn emits a formatted warning regardless of verbose mode.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warningf(format, args...)
}

// Section emits a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l.enabled {
		l.log.Info(fmt.Sprintf("=== %s ===", name))
	}
}

// Enabled returns whether the logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}
