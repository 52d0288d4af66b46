package codec

import (
	"github.com/alanyoungcy/predledger/internal/domain"
)

// EncodeTokenLedger serializes the mint record.
func EncodeTokenLedger(t *domain.TokenLedger) []byte {
	w := &writer{}
	w.bytes32([32]byte(t.Owner))
	w.u8(uint8(t.Status))
	w.u64(t.Supply)
	w.u64(t.CirculatingSupply)
	w.str(t.Ticker)
	w.u8(t.Decimals)
	if t.Metadata == nil {
		w.u32(0)
	} else {
		w.u32(uint32(t.Metadata.Len()))
		t.Metadata.Range(func(key string, value [32]byte) bool {
			w.str(key)
			w.bytes32(value)
			return true
		})
	}
	if t.Balances == nil {
		w.u32(0)
	} else {
		w.u32(uint32(t.Balances.Len()))
		t.Balances.Range(func(target domain.Identity, balance uint64) bool {
			w.bytes32([32]byte(target))
			w.u64(balance)
			return true
		})
	}
	return w.buf
}

// DecodeTokenLedger deserializes the mint record. Unlike the predictions
// aggregate there is no empty-buffer bootstrap: the mint is created
// explicitly by initialize_mint, so a zero-length slot is a decode failure.
func DecodeTokenLedger(data []byte) (*domain.TokenLedger, error) {
	r := &reader{data: data}
	t := &domain.TokenLedger{}
	t.Owner = domain.Identity(r.bytes32())
	status := r.u8()
	if status > uint8(domain.MintStatusFinished) {
		r.errf("unknown mint status %d", status)
	}
	t.Status = domain.MintStatus(status)
	t.Supply = r.u64()
	t.CirculatingSupply = r.u64()
	t.Ticker = r.str()
	t.Decimals = r.u8()

	t.Metadata = domain.NewOrderedMap[string, [32]byte]()
	entries := r.length("metadata")
	for i := 0; i < entries && r.err() == nil; i++ {
		key := r.str()
		value := r.bytes32()
		if _, exists := t.Metadata.Get(key); exists {
			r.errf("duplicate metadata key %q", key)
			break
		}
		t.Metadata.Set(key, value)
	}

	t.Balances = domain.NewOrderedMap[domain.Identity, uint64]()
	holders := r.length("balance")
	for i := 0; i < holders && r.err() == nil; i++ {
		target := domain.Identity(r.bytes32())
		balance := r.u64()
		if _, exists := t.Balances.Get(target); exists {
			r.errf("duplicate balance key %s", target)
			break
		}
		t.Balances.Set(target, balance)
	}

	if err := r.err(); err != nil {
		return nil, err
	}
	return t, nil
}
