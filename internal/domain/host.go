package domain

import (
	"context"
	"time"
)

// Slot is one logical storage slot: a mutable byte buffer with a growth-only
// write contract. Writing a payload larger than the current buffer grows the
// buffer to exactly the payload size; writing a smaller payload never shrinks
// it, so transient failures cannot corrupt previously persisted bytes.
type Slot interface {
	Bytes() []byte
	Write(data []byte) error
}

// Account is the host-supplied view of one account participating in an
// instruction. Signer verification is a host primitive; by the time an
// Account reaches the engine, IsSigner is already established.
type Account struct {
	Key      Identity
	Owner    Identity
	IsSigner bool
	Slot     Slot
}

// SlotStore persists slot contents by key. Load returns ErrSlotNotFound for a
// key that has never been saved; hosts treat that as a zero-length slot.
type SlotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// LockManager serializes conflicting access to a slot across host processes.
// Acquire returns ErrLockHeld when another holder owns the lock.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// StreamMessage is one entry read from the instruction stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// InstructionStream is the durable, ordered feed the host consumes
// instructions from and publishes them to.
type InstructionStream interface {
	Append(ctx context.Context, payload []byte) error
	Read(ctx context.Context, lastID string, count int) ([]StreamMessage, error)
}

// AuditStore persists an append-only log of applied instructions.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
}

// Archiver stores point-in-time snapshots of encoded slot contents.
type Archiver interface {
	Archive(ctx context.Context, slotKey string, data []byte) (string, error)
}
