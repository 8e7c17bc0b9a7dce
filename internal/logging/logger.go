package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Level represents an enumeration of log levels
type Level int

const (
	LevelDebug   Level = 10
	LevelInfo    Level = 20
	LevelWarning Level = 30
	LevelError   Level = 40
)

func (l Level) String() string {
	switch {
	case l >= LevelError:
		return "ERROR"
	case l >= LevelWarning:
		return "WARN"
	case l >= LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Logger provides leveled key-value logging with a component prefix.
type Logger struct {
	out *log.Logger

	mu    sync.Mutex
	level Level
}

// New creates a logger for the named component. The default threshold is
// Info unless a level is supplied.
func New(component string, level ...Level) *Logger {
	threshold := LevelInfo
	if len(level) > 0 {
		threshold = level[0]
	}
	return &Logger{
		out:   log.New(os.Stdout, fmt.Sprintf("[%s] ", component), log.LstdFlags),
		level: threshold,
	}
}

// SetLevel sets the logging threshold.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) { l.emit(LevelDebug, msg, keyvals...) }

// Info logs an informational message.
func (l *Logger) Info(msg string, keyvals ...any) { l.emit(LevelInfo, msg, keyvals...) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...any) { l.emit(LevelWarning, msg, keyvals...) }

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...any) { l.emit(LevelError, msg, keyvals...) }

func (l *Logger) emit(level Level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	formatted := fmt.Sprintf("[%s] %s", level, msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		formatted += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	l.out.Println(formatted)
}
