/*
NAME
  logging.go

DESCRIPTION
  logging.go defines the Logger interface library packages in this
  repository depend on, matching github.com/ausocean/utils/logging.Logger's
  actual method set (the type revid/config.Config.Logger is declared
  and used with) so any equivalent leveled logger satisfies it without
  adaptation.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package logging defines the minimal leveled-logging interface used
// by pipeline and the cmd binaries. Library packages below pipeline
// never log directly; they return errors instead.
package logging

// Verbosity levels, matching github.com/ausocean/utils/logging's
// ordering (Debug is the most verbose).
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
)

// Logger is the leveled logging contract, matching
// github.com/ausocean/utils/logging.Logger's method set exactly
// (revid/config.Config.Logger's declared type) so that
// logging.New(...) satisfies it without adaptation. cmd/ binaries
// back it with github.com/ausocean/utils/logging.New; dvbsdecode and
// dvbswatch write through gopkg.in/natefinch/lumberjack.v2 for
// rotation, exactly as cmd/looper/main.go does in the teacher repo,
// while dvbsplot writes to stderr.
type Logger interface {
	SetLevel(int8)
	Debug(message string, params ...interface{})
	Info(message string, params ...interface{})
	Warning(message string, params ...interface{})
	Error(message string, params ...interface{})
	Fatal(message string, params ...interface{})
}

// Discard is a Logger that drops everything, used by tests and
// callers that don't want diagnostics.
type Discard struct{}

// SetLevel implements Logger.
func (Discard) SetLevel(int8) {}

// Debug implements Logger.
func (Discard) Debug(message string, params ...interface{}) {}

// Info implements Logger.
func (Discard) Info(message string, params ...interface{}) {}

// Warning implements Logger.
func (Discard) Warning(message string, params ...interface{}) {}

// Error implements Logger.
func (Discard) Error(message string, params ...interface{}) {}

// Fatal implements Logger.
func (Discard) Fatal(message string, params ...interface{}) {}
