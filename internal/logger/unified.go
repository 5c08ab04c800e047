package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogType selects the channel a log entry is routed to
type LogType string

const (
	UserLog LogType = "user"
	OpLog   LogType = "op"
)

// Field is a key-value pair attached to operational log entries
type Field struct {
	Key   string
	Value interface{}
}

// WithRunID tags an entry with the id of an execution run
func WithRunID(runID string) Field {
	return Field{Key: "run_id", Value: runID}
}

// WithTask tags an entry with a task name
func WithTask(name string) Field {
	return Field{Key: "task", Value: name}
}

// WithLevel tags an entry with a schedule level
func WithLevel(level int) Field {
	return Field{Key: "level", Value: level}
}

func toLogrusFields(logType LogType, fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields)+1)
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	out["log_type"] = string(logType)
	return out
}

// UnifiedLogger owns the single logrus logger both channels write through
type UnifiedLogger struct {
	mu     sync.RWMutex
	logger *logrus.Logger
}

var (
	unifiedLog *UnifiedLogger
	once       sync.Once
)

// GetLogger returns the global logger, creating it on first use
func GetLogger() *UnifiedLogger {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&CLIFormatter{
			DisableTimestamp: true,
			DisableLevel:     true,
		})
		unifiedLog = &UnifiedLogger{logger: l}
	})
	return unifiedLog
}

// Configure updates the output, level and formatter of the logger
func (l *UnifiedLogger) Configure(output io.Writer, level logrus.Level, formatter logrus.Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.SetOutput(output)
	l.logger.SetLevel(level)
	l.logger.SetFormatter(formatter)
}

// GetInternalLogger returns the underlying logrus logger
func (l *UnifiedLogger) GetInternalLogger() *logrus.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}
