package logger

import (
	"log"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelOff
)

var LoggerEnabled = true

type DefaultLogger struct {
	name  string
	level Level
}

// NewDefaultLogger logs through the standard log package at LevelInfo and above.
func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{name: name, level: LevelInfo}
}

// WithLevel sets the minimum level that gets printed.
func (d *DefaultLogger) WithLevel(level Level) *DefaultLogger {
	d.level = level
	return d
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	d.print(LevelDebug, "DEBUG", format, args...)
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.print(LevelInfo, "INFO", format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.print(LevelError, "ERROR", format, args...)
}

func (d *DefaultLogger) print(level Level, tag, format string, args ...any) {
	if !LoggerEnabled || level < d.level {
		return
	}
	log.Printf("["+tag+"] "+d.name+" | "+format+"\n", args...)
}

type nopLogger struct{}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
