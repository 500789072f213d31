// Package logger provides leveled logging for the prediction engine and its
// command surface.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// ParseLevel maps a level name to its Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides leveled logging.
type Logger struct {
	level Level
	out   *log.Logger
}

var defaultLogger *Logger

// Init initializes the default logger with the specified level and format.
// The text format adds source locations for interactive use.
func Init(level string, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	defaultLogger = &Logger{
		level: ParseLevel(level),
		out:   log.New(os.Stderr, "", flags),
	}
}

func logf(l Level, format string, args ...interface{}) {
	if defaultLogger == nil || l < defaultLogger.level {
		return
	}
	msg := "[" + levelNames[l] + "] " + fmt.Sprintf(format, args...)
	_ = defaultLogger.out.Output(3, msg)
}

func Debug(format string, args ...interface{}) { logf(DebugLevel, format, args...) }

func Info(format string, args ...interface{}) { logf(InfoLevel, format, args...) }

func Warn(format string, args ...interface{}) { logf(WarnLevel, format, args...) }

func Error(format string, args ...interface{}) { logf(ErrorLevel, format, args...) }

// Fatal logs regardless of level and exits.
func Fatal(format string, args ...interface{}) {
	msg := "[FATAL] " + fmt.Sprintf(format, args...)
	if defaultLogger != nil {
		_ = defaultLogger.out.Output(3, msg)
	}
	os.Exit(1)
}
