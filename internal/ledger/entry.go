package ledger

import (
	"time"

	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/google/uuid"
)

// Entry is one immutable line of the household ledger.
type Entry struct {
	ID           uuid.UUID            `json:"id"`
	Category     enums.LedgerCategory `json:"category"`
	Description  string               `json:"description"`
	SignedAmount int64                `json:"signed_amount"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Log is the append-only sequence of entries in the order they were written.
type Log []Entry

// Append returns a new log ending with entries; the receiver is not reused.
func (l Log) Append(entries ...Entry) Log {
	out := make(Log, 0, len(l)+len(entries))
	out = append(out, l...)
	return append(out, entries...)
}

// Clone copies the log.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	copy(out, l)
	return out
}

// NewestFirst returns the entries in reverse chronological order.
func (l Log) NewestFirst() []Entry {
	out := make([]Entry, len(l))
	for i, e := range l {
		out[len(l)-1-i] = e
	}
	return out
}
