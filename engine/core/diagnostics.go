package core

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Severity ranks a diagnostic raised while exporting a mesh.
type Severity uint8

const (
	SeverityMessage Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "message"
	}
}

// Diagnostics is the reporting sink the exporter raises conditions into.
// Implementations never abort the export; the caller decides what to do
// with accumulated errors and warnings.
type Diagnostics interface {
	Error(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Message(format string, args ...interface{})
}

// LogDiagnostics forwards diagnostics to the process logger.
type LogDiagnostics struct {
	logger *log.Logger
}

func NewLogDiagnostics(meshName string) *LogDiagnostics {
	return &LogDiagnostics{logger: Logger("mesh", meshName)}
}

func (ld *LogDiagnostics) Error(format string, args ...interface{}) {
	ld.logger.Helper()
	ld.logger.Errorf(format, args...)
}

func (ld *LogDiagnostics) Warning(format string, args ...interface{}) {
	ld.logger.Helper()
	ld.logger.Warnf(format, args...)
}

func (ld *LogDiagnostics) Message(format string, args ...interface{}) {
	ld.logger.Helper()
	ld.logger.Infof(format, args...)
}

// Diagnostic is a single recorded entry.
type Diagnostic struct {
	Severity Severity
	Text     string
}

// DiagnosticRecorder keeps every raised diagnostic in order.
type DiagnosticRecorder struct {
	mutex   sync.Mutex
	entries []Diagnostic
}

func NewDiagnosticRecorder() *DiagnosticRecorder {
	return &DiagnosticRecorder{}
}

func (dr *DiagnosticRecorder) record(severity Severity, format string, args ...interface{}) {
	dr.mutex.Lock()
	defer dr.mutex.Unlock()
	dr.entries = append(dr.entries, Diagnostic{Severity: severity, Text: fmt.Sprintf(format, args...)})
}

func (dr *DiagnosticRecorder) Error(format string, args ...interface{}) {
	dr.record(SeverityError, format, args...)
}

func (dr *DiagnosticRecorder) Warning(format string, args ...interface{}) {
	dr.record(SeverityWarning, format, args...)
}

func (dr *DiagnosticRecorder) Message(format string, args ...interface{}) {
	dr.record(SeverityMessage, format, args...)
}

// Entries returns a copy of the recorded diagnostics.
func (dr *DiagnosticRecorder) Entries() []Diagnostic {
	dr.mutex.Lock()
	defer dr.mutex.Unlock()
	out := make([]Diagnostic, len(dr.entries))
	copy(out, dr.entries)
	return out
}

// Count returns how many diagnostics of the given severity were recorded.
func (dr *DiagnosticRecorder) Count(severity Severity) int {
	dr.mutex.Lock()
	defer dr.mutex.Unlock()
	n := 0
	for _, e := range dr.entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

type multiDiagnostics []Diagnostics

// MultiDiagnostics fans every diagnostic out to all the given sinks.
func MultiDiagnostics(sinks ...Diagnostics) Diagnostics {
	return multiDiagnostics(sinks)
}

func (md multiDiagnostics) Error(format string, args ...interface{}) {
	for _, d := range md {
		d.Error(format, args...)
	}
}

func (md multiDiagnostics) Warning(format string, args ...interface{}) {
	for _, d := range md {
		d.Warning(format, args...)
	}
}

func (md multiDiagnostics) Message(format string, args ...interface{}) {
	for _, d := range md {
		d.Message(format, args...)
	}
}
