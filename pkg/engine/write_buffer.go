package engine

import (
	"sync"

	"github.com/diamonddb/diamond-node/pkg/catalog"
)

// WriteBufferEntry is a record waiting to be persisted. Data holds the
// record already encoded to the table's record size.
type WriteBufferEntry struct {
	Table  string
	ID     int64
	Record catalog.Record
	Data   []byte
}

// WriteBuffer holds records accepted since the last persist, in arrival order.
type WriteBuffer struct {
	entries []WriteBufferEntry
	mutex   sync.Mutex
}

func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{
		entries: make([]WriteBufferEntry, 0),
	}
}

// Drain empties the buffer and returns everything it held.
func (wb *WriteBuffer) Drain() []WriteBufferEntry {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	entries := wb.entries
	wb.entries = make([]WriteBufferEntry, 0, len(entries))

	return entries
}

func (wb *WriteBuffer) Enqueue(entry WriteBufferEntry) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	wb.entries = append(wb.entries, entry)
}

func (wb *WriteBuffer) Len() int {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	return len(wb.entries)
}

// Requeue puts entries back ahead of anything enqueued since they were
// drained, so later writes to the same id still win.
func (wb *WriteBuffer) Requeue(entries []WriteBufferEntry) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	wb.entries = append(append(make([]WriteBufferEntry, 0, len(entries)+len(wb.entries)), entries...), wb.entries...)
}
