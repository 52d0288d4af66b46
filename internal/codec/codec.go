// Package codec implements the deterministic binary wire format for the
// prediction ledger's persisted records and instruction parameters.
//
// The layout is little-endian throughout: fixed-width integers, sequences and
// strings prefixed with a u32 count, maps as a u32 count followed by
// key/value pairs in insertion order, enums as a single u8 variant index, and
// options as a u8 presence flag. Encoding the same logical value always
// yields identical bytes. Decoding of persisted records tolerates trailing
// bytes, because backing storage only ever grows; instruction parameter
// payloads must be consumed exactly.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/alanyoungcy/predledger/internal/domain"
)

// maxCollectionLen bounds decoded sequence and map lengths so a corrupted
// count prefix cannot drive allocation of gigabytes.
const maxCollectionLen = 1 << 20

type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) i64(v int64) {
	w.u64(uint64(v))
}

func (w *writer) bytes32(v [32]byte) {
	w.buf = append(w.buf, v[:]...)
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) boolean(b bool) {
	if b {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// reader decodes from a byte slice with a sticky error: after the first
// failure every subsequent read is a no-op returning zero values, and err()
// reports the original cause.
type reader struct {
	data []byte
	off  int
	fail error
}

func (r *reader) errf(format string, args ...any) {
	if r.fail == nil {
		r.fail = fmt.Errorf("codec: "+format+": %w", append(args, domain.ErrDecode)...)
	}
}

func (r *reader) err() error {
	return r.fail
}

func (r *reader) take(n int) []byte {
	if r.fail != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.errf("truncated input at offset %d (need %d bytes)", r.off, n)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) i64() int64 {
	return int64(r.u64())
}

func (r *reader) bytes32() [32]byte {
	var out [32]byte
	b := r.take(32)
	if b != nil {
		copy(out[:], b)
	}
	return out
}

func (r *reader) str() string {
	n := r.u32()
	if n > maxCollectionLen {
		r.errf("string length %d exceeds limit", n)
		return ""
	}
	b := r.take(int(n))
	return string(b)
}

func (r *reader) boolean() bool {
	switch r.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		r.errf("invalid bool byte at offset %d", r.off-1)
		return false
	}
}

// finish rejects leftover input. Record decoders skip this because slot
// storage only grows; instruction payloads must be consumed exactly.
func (r *reader) finish() {
	if r.fail == nil && r.off != len(r.data) {
		r.errf("%d trailing bytes after offset %d", len(r.data)-r.off, r.off)
	}
}

// length reads a u32 collection count and validates it against the limit.
func (r *reader) length(what string) int {
	n := r.u32()
	if n > maxCollectionLen {
		r.errf("%s count %d exceeds limit", what, n)
		return 0
	}
	return int(n)
}
