package logger

import (
	"fmt"
	"strings"
	"sync"
)

// LogEntry is a single buffered log line with its level.
type LogEntry struct {
	Level   string
	Message string
}

// NoopLogger implements iface.Logger without writing anywhere. Messages are
// buffered so tests can assert on them. Safe for concurrent use.
type NoopLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

func NewNoopLogger() *NoopLogger {
	return &NoopLogger{entries: make([]LogEntry, 0)}
}

func (l *NoopLogger) Title(msg string, args ...any) {
	l.addEntry("TITLE", fmt.Sprintf("\n"+msg+"\n", args...))
}

func (l *NoopLogger) Info(msg string, args ...any) {
	l.buffer("INFO", msg, args...)
}

func (l *NoopLogger) Warn(msg string, args ...any) {
	l.buffer("WARN", msg, args...)
}

func (l *NoopLogger) Error(msg string, args ...any) {
	l.buffer("ERROR", msg, args...)
}

func (l *NoopLogger) Debug(msg string, args ...any) {
	l.buffer("DEBUG", msg, args...)
}

func (l *NoopLogger) buffer(level, msg string, args ...any) {
	msg = strings.Trim(msg, "\n")
	if msg == "" {
		return
	}
	l.addEntry(level, fmt.Sprintf(msg, args...))
}

func (l *NoopLogger) addEntry(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: message})
}

// GetMessages returns all buffered messages in order.
func (l *NoopLogger) GetMessages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	messages := make([]string, len(l.entries))
	for i, entry := range l.entries {
		messages[i] = entry.Message
	}
	return messages
}

// GetMessagesByLevel returns all buffered messages for one log level.
func (l *NoopLogger) GetMessagesByLevel(level string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var messages []string
	for _, entry := range l.entries {
		if entry.Level == level {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

// Len returns the number of buffered entries.
func (l *NoopLogger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
