package domain

import "errors"

// The engine's closed error set. Every handler failure maps to exactly one of
// these; hosts translate them to numeric codes at the program boundary.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrDuplicateEvent       = errors.New("event already exists")
	ErrEventNotFound        = errors.New("event not found")
	ErrInvalidOutcome       = errors.New("invalid outcome")
	ErrEventNotActive       = errors.New("event not active")
	ErrEventAlreadyResolved = errors.New("event already resolved")
	ErrEventNotResolved     = errors.New("event not resolved")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSupplyExceeded       = errors.New("supply exceeded")
	ErrAlreadyInitialized   = errors.New("account already initialized")
	ErrIllegalOwner         = errors.New("illegal owner")
	ErrDecode               = errors.New("decode failed")
	ErrEncode               = errors.New("encode failed")

	// Host-side errors, outside the instruction error set.
	ErrLockHeld     = errors.New("lock already held")
	ErrSlotNotFound = errors.New("slot not found")
)
