package program

import (
	"errors"

	"github.com/alanyoungcy/predledger/internal/domain"
)

// Numeric error codes for the host boundary. Inside the engine errors stay
// as the domain sentinel set; hosts that need a stable wire representation
// translate through Code. The values are stable and must not be reordered.
const (
	CodeOK uint32 = iota
	CodeUnauthorized
	CodeDuplicateEvent
	CodeEventNotFound
	CodeInvalidOutcome
	CodeEventNotActive
	CodeEventAlreadyResolved
	CodeEventNotResolved
	CodeInsufficientFunds
	CodeSupplyExceeded
	CodeAccountAlreadyInitialized
	CodeIllegalOwner
	CodeDecodeError
	CodeEncodeError

	// CodeUnknown is returned for errors outside the closed set.
	CodeUnknown uint32 = 0xffffffff
)

var codes = []struct {
	err  error
	code uint32
}{
	{domain.ErrUnauthorized, CodeUnauthorized},
	{domain.ErrDuplicateEvent, CodeDuplicateEvent},
	{domain.ErrEventNotFound, CodeEventNotFound},
	{domain.ErrInvalidOutcome, CodeInvalidOutcome},
	{domain.ErrEventNotActive, CodeEventNotActive},
	{domain.ErrEventAlreadyResolved, CodeEventAlreadyResolved},
	{domain.ErrEventNotResolved, CodeEventNotResolved},
	{domain.ErrInsufficientFunds, CodeInsufficientFunds},
	{domain.ErrSupplyExceeded, CodeSupplyExceeded},
	{domain.ErrAlreadyInitialized, CodeAccountAlreadyInitialized},
	{domain.ErrIllegalOwner, CodeIllegalOwner},
	{domain.ErrDecode, CodeDecodeError},
	{domain.ErrEncode, CodeEncodeError},
}

// Code maps an error returned by Process to its numeric boundary code. A nil
// error is CodeOK; an error outside the closed set is CodeUnknown.
func Code(err error) uint32 {
	if err == nil {
		return CodeOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}
