// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultErrorLog is the diagnostic log path used when none is configured.
const DefaultErrorLog = "social_agent_error.log"

// DiagnosticLog appends one JSON record per failed model attempt. Records
// are written under the logger's lock so concurrent writers never
// interleave; the file is opened in append mode so separate processes
// sharing it do not clobber each other.
type DiagnosticLog struct {
	logger *logrus.Logger
	closer io.Closer
}

// OpenDiagnosticLog opens (or creates) path for appending.
func OpenDiagnosticLog(path string) (*DiagnosticLog, error) {
	if path == "" {
		path = DefaultErrorLog
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening diagnostic log %s: %w", path, err)
	}
	d := NewDiagnosticLog(f)
	d.closer = f
	return d, nil
}

// NewDiagnosticLog writes records to w.
func NewDiagnosticLog(w io.Writer) *DiagnosticLog {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	return &DiagnosticLog{logger: logger}
}

// Record writes a record for a failed attempt. A nil log discards it.
func (d *DiagnosticLog) Record(a Attempt) {
	if d == nil {
		return
	}
	msg := "unknown error"
	if a.Err != nil {
		msg = a.Err.Error()
	}
	d.logger.WithFields(logrus.Fields{
		"model":      a.Model,
		"attempt":    a.Number,
		"elapsed_ms": a.Elapsed.Milliseconds(),
		"error_type": fmt.Sprintf("%T", a.Err),
		"causes":     causes(a.Err),
	}).Error(msg)
}

// Close closes the underlying file, if any.
func (d *DiagnosticLog) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// causes lists the messages of err's unwrap chain below err itself.
func causes(err error) []string {
	var out []string
	for err != nil {
		err = errors.Unwrap(err)
		if err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}
