package domain

// Instruction parameter structs. Each is the codec-encoded payload that
// follows the opcode byte on the wire.

// CreateEventParams creates a new Active event with NumOutcomes zero-balance
// outcomes.
type CreateEventParams struct {
	UniqueID        EventID
	ExpiryTimestamp uint32
	NumOutcomes     uint8
}

// CloseEventParams administratively closes an event.
type CloseEventParams struct {
	UniqueID EventID
}

// PlaceBetParams places a wager on one outcome of an event.
type PlaceBetParams struct {
	UniqueID  EventID
	OutcomeID uint8
	Amount    uint64
	Side      BetSide
}

// ResolveEventParams resolves an event with a winning outcome.
type ResolveEventParams struct {
	UniqueID       EventID
	WinningOutcome uint8
}

// ClaimWinningsParams claims the signer's payout on a resolved event.
type ClaimWinningsParams struct {
	UniqueID EventID
}

// InitializeMintParams creates the token mint record.
type InitializeMintParams struct {
	Owner    Identity
	Supply   uint64
	Ticker   string
	Decimals uint8
}

// MintTokensParams credits tokens to the target account.
type MintTokensParams struct {
	Amount uint64
}

// BurnTokensParams debits tokens from the target account.
type BurnTokensParams struct {
	Amount uint64
}
