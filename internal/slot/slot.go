// Package slot provides the in-memory storage slot the engine mutates during
// a call. The host loads persisted bytes into a Memory slot, runs the
// handler, and writes the slot back only on success.
package slot

import (
	"github.com/alanyoungcy/predledger/internal/domain"
)

// Memory is a growth-only in-memory slot. A write larger than the current
// buffer reallocates to exactly the new size; a smaller write overwrites the
// prefix and leaves the remaining bytes in place, so the buffer never
// shrinks.
type Memory struct {
	buf   []byte
	dirty bool
}

// NewMemory returns a slot seeded with a copy of data.
func NewMemory(data []byte) *Memory {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Memory{buf: buf}
}

// Bytes returns the current slot contents. Callers must not mutate the
// returned slice; all mutation goes through Write.
func (m *Memory) Bytes() []byte {
	return m.buf
}

// Len returns the current slot size in bytes.
func (m *Memory) Len() int {
	return len(m.buf)
}

// Write stores data into the slot under the growth-only policy and marks the
// slot dirty.
func (m *Memory) Write(data []byte) error {
	if len(data) > len(m.buf) {
		grown := make([]byte, len(data))
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf, data)
	m.dirty = true
	return nil
}

// Dirty reports whether the slot has been written since creation or the last
// ClearDirty.
func (m *Memory) Dirty() bool {
	return m.dirty
}

// ClearDirty resets the dirty flag, typically after the host persists the
// slot.
func (m *Memory) ClearDirty() {
	m.dirty = false
}

// Compile-time interface check.
var _ domain.Slot = (*Memory)(nil)
