package pipeline

import (
	"bytes"
	"fmt"
	"sync"

	"firestige.xyz/overwatch/internal/core"
)

// Actions a match entry can select.
const (
	ActionKeep = "keep"
	ActionDrop = "drop"
)

// Entry is one installed ternary match entry.
type Entry struct {
	Action   string
	Key      []byte
	Priority int
}

// Table is a ternary match table.
type Table struct {
	schema *Schema

	mu      sync.RWMutex
	entries []Entry
}

func newTable(s *Schema) *Table {
	return &Table{schema: s}
}

// Name returns the table name.
func (t *Table) Name() string { return t.schema.Name }

// Len returns the number of installed entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Table) install(action string, key, params []byte, priority int) error {
	switch action {
	case ActionKeep, ActionDrop:
	default:
		return fmt.Errorf("%s: action %q: %w", t.Name(), action, core.ErrUnknownAction)
	}
	if len(params) != 0 {
		return fmt.Errorf("%s: %d parameter bytes: %w", t.Name(), len(params), core.ErrBadParams)
	}
	if err := t.checkKey(key); err != nil {
		return err
	}

	t.mu.Lock()
	t.entries = append(t.entries, Entry{
		Action:   action,
		Key:      bytes.Clone(key),
		Priority: priority,
	})
	t.mu.Unlock()
	return nil
}

func (t *Table) checkKey(key []byte) error {
	if len(key) != t.schema.KeyLen() {
		return fmt.Errorf("%s: key is %d bytes, want %d: %w", t.Name(), len(key), t.schema.KeyLen(), core.ErrBadKey)
	}
	off := 0
	for _, w := range t.schema.Widths {
		if tag := key[off]; tag != TagIgnore && tag != TagExact {
			return fmt.Errorf("%s: tag %d at offset %d: %w", t.Name(), tag, off, core.ErrBadKey)
		}
		off += w + 1
	}
	return nil
}

// lookup returns the action selected for the given sub-field values.
// The highest priority match wins and the first installed entry breaks
// ties. ok is false when no entry matches.
func (t *Table) lookup(fields [][]byte) (action string, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	best := -1
	for i := range t.entries {
		e := &t.entries[i]
		if !t.matches(e.Key, fields) {
			continue
		}
		if best < 0 || e.Priority > t.entries[best].Priority {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return t.entries[best].Action, true
}

func (t *Table) matches(key []byte, fields [][]byte) bool {
	off := 0
	for i, w := range t.schema.Widths {
		tag := key[off]
		value := key[off+1 : off+1+w]
		off += w + 1
		if tag == TagIgnore {
			continue
		}
		if !bytes.Equal(value, fields[i]) {
			return false
		}
	}
	return true
}
