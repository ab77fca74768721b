package logging

import (
	"log"
	"os"
)

// Level represents logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled logging with a component tag.
type Logger struct {
	level     Level
	component string
}

// New creates a logger for one component at the specified level.
func New(component string, level Level) *Logger {
	return &Logger{level: level, component: component}
}

// NewDefault creates a component logger whose level comes from the LOG_LEVEL
// environment variable (ERROR, WARN, INFO, DEBUG); INFO when unset.
func NewDefault(component string) *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "DEBUG":
		level = LevelDebug
	}
	return New(component, level)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf("[%s] ERROR: "+format, append([]interface{}{l.component}, args...)...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf("[%s] WARN: "+format, append([]interface{}{l.component}, args...)...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf("[%s] "+format, append([]interface{}{l.component}, args...)...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf("[%s] DEBUG: "+format, append([]interface{}{l.component}, args...)...)
	}
}
