package convo

import (
	"slices"

	"github.com/nathoo/dirt/types"
)

// LogCapacity is the number of entries a conversation log retains.
const LogCapacity = 5

// Log is a bounded FIFO of conversation entries. Only the most recent
// LogCapacity entries are kept, in insertion order.
type Log struct {
	entries []types.LogEntry
	total   int
}

// Append adds an entry, dropping the oldest entries on overflow.
func (l *Log) Append(e types.LogEntry) {
	l.entries = append(l.entries, e)
	l.total++
	if len(l.entries) > LogCapacity {
		l.entries = slices.Clone(l.entries[len(l.entries)-LogCapacity:])
	}
}

// Entries returns a copy of the retained entries, oldest first.
func (l *Log) Entries() []types.LogEntry {
	return slices.Clone(l.entries)
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Total returns the number of entries ever appended. Front ends compare it
// between frames to find entries they have not shown yet.
func (l *Log) Total() int {
	return l.total
}
