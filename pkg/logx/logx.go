// Package logx provides a minimal leveled wrapper around the standard
// library logger, in the style of the wider corpus this module was
// adapted from: a small level filter around *log.Logger rather than a
// third-party structured-logging framework.
package logx

import (
	"log"
	"os"
)

// Level is a logging verbosity level.
type Level int

// Levels, low to high severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled logger backed by the standard library's *log.Logger.
type Logger struct {
	level  Level
	output *log.Logger
}

// New creates a Logger writing to os.Stderr with the given minimum level.
func New(level Level) *Logger {
	return &Logger{level: level, output: log.New(os.Stderr, "", log.LstdFlags)}
}

var std = New(LevelInfo)

// Default returns the package-level default logger.
func Default() *Logger { return std }

// SetLevel changes the minimum level of the default logger.
func SetLevel(l Level) { std.level = l }

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	l.output.Printf("["+level.String()+"] "+format, args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

// Debugf logs at debug level on the default logger.
func Debugf(format string, args ...any) { std.Debugf(format, args...) }

// Infof logs at info level on the default logger.
func Infof(format string, args ...any) { std.Infof(format, args...) }

// Warnf logs at warn level on the default logger.
func Warnf(format string, args ...any) { std.Warnf(format, args...) }

// Errorf logs at error level on the default logger.
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
