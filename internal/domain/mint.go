package domain

// MintStatus is the lifecycle state of the token mint. The numeric values are
// part of the wire format.
type MintStatus uint8

const (
	MintStatusOngoing MintStatus = iota
	MintStatusFinished
)

// String returns a human-readable status name for logging.
func (s MintStatus) String() string {
	if s == MintStatusFinished {
		return "finished"
	}
	return "ongoing"
}

// TokenLedger is the fungible-token mint record: total and circulating
// supply plus a per-identity balance table. Amounts are in the smallest token
// denomination.
type TokenLedger struct {
	Owner             Identity
	Status            MintStatus
	Supply            uint64
	CirculatingSupply uint64
	Ticker            string
	Decimals          uint8
	Metadata          *OrderedMap[string, [32]byte]
	Balances          *OrderedMap[Identity, uint64]
}

// NewTokenLedger returns an initialized mint owned by owner with zero
// circulating supply and no balances.
func NewTokenLedger(owner Identity, supply uint64, ticker string, decimals uint8) *TokenLedger {
	return &TokenLedger{
		Owner:    owner,
		Status:   MintStatusOngoing,
		Supply:   supply,
		Ticker:   ticker,
		Decimals: decimals,
		Metadata: NewOrderedMap[string, [32]byte](),
		Balances: NewOrderedMap[Identity, uint64](),
	}
}

// Balance returns the target's balance, zero when absent.
func (t *TokenLedger) Balance(target Identity) uint64 {
	if t.Balances == nil {
		return 0
	}
	balance, _ := t.Balances.Get(target)
	return balance
}

// Credit mints amount to the target's balance and increases the circulating
// supply. It fails with ErrSupplyExceeded when the result would exceed the
// total supply, leaving the ledger unchanged.
func (t *TokenLedger) Credit(target Identity, amount uint64) error {
	if t.CirculatingSupply+amount > t.Supply || t.CirculatingSupply+amount < t.CirculatingSupply {
		return ErrSupplyExceeded
	}
	if t.Balances == nil {
		t.Balances = NewOrderedMap[Identity, uint64]()
	}
	t.Balances.Set(target, t.Balance(target)+amount)
	t.CirculatingSupply += amount
	return nil
}

// Debit burns amount from the target's balance and decreases the circulating
// supply. It fails with ErrInsufficientFunds when the balance does not cover
// the amount; balances never go negative.
func (t *TokenLedger) Debit(target Identity, amount uint64) error {
	balance := t.Balance(target)
	if balance < amount {
		return ErrInsufficientFunds
	}
	t.Balances.Set(target, balance-amount)
	if t.CirculatingSupply < amount {
		t.CirculatingSupply = 0
	} else {
		t.CirculatingSupply -= amount
	}
	return nil
}
