// internal/app/system/auditlog/auditlog.go

// Package auditlog records one line per processed command: who sent
// what from where and which code it got back. Events go through the
// structured logger with audit=true so they can be split out of the
// operational log downstream.
package auditlog

import "go.uber.org/zap"

// Modes for the audit config key.
const (
	ModeLog = "log"
	ModeOff = "off"
)

// Logger emits audit events.
type Logger struct {
	zapLog  *zap.Logger
	enabled bool
}

// New creates an audit Logger. Any mode other than "off" enables it.
func New(zapLog *zap.Logger, mode string) *Logger {
	return &Logger{zapLog: zapLog, enabled: mode != ModeOff}
}

// Record logs one command outcome. user is empty for anonymous
// sessions; request is the raw command line (payload bytes excluded).
func (l *Logger) Record(addr, user, request, result string) {
	if !l.enabled {
		return
	}
	l.zapLog.Info("command",
		zap.Bool("audit", true),
		zap.String("addr", addr),
		zap.String("user", user),
		zap.String("request", request),
		zap.String("result", result),
	)
}
