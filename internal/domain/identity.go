package domain

import (
	"encoding/hex"
	"fmt"
)

// Identity is an opaque 32-byte public identifier. It is equality-comparable
// and carries no other semantics inside the engine.
type Identity [32]byte

// EventID is the 32-byte unique identifier of a prediction event.
type EventID [32]byte

// ParseIdentity decodes a 64-character hex string into an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("domain: parse identity %q: %w", s, err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("domain: identity must be %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the lowercase hex encoding of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the identity is all zero bytes.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// ParseEventID decodes a 64-character hex string into an EventID.
func ParseEventID(s string) (EventID, error) {
	id, err := ParseIdentity(s)
	return EventID(id), err
}

// String returns the lowercase hex encoding of the event id.
func (id EventID) String() string {
	return hex.EncodeToString(id[:])
}
