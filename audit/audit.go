package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single immutable record of an executed action. Entries are
// never mutated or removed once appended.
type Entry struct {
	ID         uuid.UUID         `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Action     string            `json:"action"`
	Parameters map[string]any    `json:"parameters"`
	Context    map[string]string `json:"context,omitempty"`
	Result     any               `json:"result"`
}

// Log is an append-only execution log. Appends are serialized by a mutex so
// that the entry count is a consistent, monotonically increasing counter
// under concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog creates an empty audit log
func NewLog() *Log {
	return &Log{}
}

// Append records one executed action and returns the new entry together
// with the log length after the append. No two concurrent appends observe
// the same count.
func (l *Log) Append(action string, parameters map[string]any, context map[string]string, result any) (Entry, int) {
	entry := Entry{
		ID:         uuid.New(),
		Timestamp:  time.Now().UTC(),
		Action:     action,
		Parameters: parameters,
		Context:    context,
		Result:     result,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return entry, len(l.entries)
}

// Len returns the current number of entries
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a snapshot copy of the log
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
