package codec

import (
	"github.com/alanyoungcy/predledger/internal/domain"
)

// Instruction parameter codecs. Each Encode/Decode pair covers the payload
// that follows the opcode byte on the wire.

// EncodeCreateEventParams serializes create_event parameters.
func EncodeCreateEventParams(p domain.CreateEventParams) []byte {
	w := &writer{}
	w.bytes32(p.UniqueID)
	w.u32(p.ExpiryTimestamp)
	w.u8(p.NumOutcomes)
	return w.buf
}

// DecodeCreateEventParams deserializes create_event parameters.
func DecodeCreateEventParams(data []byte) (domain.CreateEventParams, error) {
	r := &reader{data: data}
	var p domain.CreateEventParams
	p.UniqueID = domain.EventID(r.bytes32())
	p.ExpiryTimestamp = r.u32()
	p.NumOutcomes = r.u8()
	r.finish()
	return p, r.err()
}

// EncodeCloseEventParams serializes close_event parameters.
func EncodeCloseEventParams(p domain.CloseEventParams) []byte {
	w := &writer{}
	w.bytes32(p.UniqueID)
	return w.buf
}

// DecodeCloseEventParams deserializes close_event parameters.
func DecodeCloseEventParams(data []byte) (domain.CloseEventParams, error) {
	r := &reader{data: data}
	var p domain.CloseEventParams
	p.UniqueID = domain.EventID(r.bytes32())
	r.finish()
	return p, r.err()
}

// EncodePlaceBetParams serializes place_bet parameters.
func EncodePlaceBetParams(p domain.PlaceBetParams) []byte {
	w := &writer{}
	w.bytes32(p.UniqueID)
	w.u8(p.OutcomeID)
	w.u64(p.Amount)
	w.u8(uint8(p.Side))
	return w.buf
}

// DecodePlaceBetParams deserializes place_bet parameters.
func DecodePlaceBetParams(data []byte) (domain.PlaceBetParams, error) {
	r := &reader{data: data}
	var p domain.PlaceBetParams
	p.UniqueID = domain.EventID(r.bytes32())
	p.OutcomeID = r.u8()
	p.Amount = r.u64()
	side := r.u8()
	if side > uint8(domain.BetSideBuy) {
		r.errf("unknown bet side %d", side)
	}
	p.Side = domain.BetSide(side)
	r.finish()
	return p, r.err()
}

// EncodeResolveEventParams serializes resolve_event parameters.
func EncodeResolveEventParams(p domain.ResolveEventParams) []byte {
	w := &writer{}
	w.bytes32(p.UniqueID)
	w.u8(p.WinningOutcome)
	return w.buf
}

// DecodeResolveEventParams deserializes resolve_event parameters.
func DecodeResolveEventParams(data []byte) (domain.ResolveEventParams, error) {
	r := &reader{data: data}
	var p domain.ResolveEventParams
	p.UniqueID = domain.EventID(r.bytes32())
	p.WinningOutcome = r.u8()
	r.finish()
	return p, r.err()
}

// EncodeClaimWinningsParams serializes claim_winnings parameters.
func EncodeClaimWinningsParams(p domain.ClaimWinningsParams) []byte {
	w := &writer{}
	w.bytes32(p.UniqueID)
	return w.buf
}

// DecodeClaimWinningsParams deserializes claim_winnings parameters.
func DecodeClaimWinningsParams(data []byte) (domain.ClaimWinningsParams, error) {
	r := &reader{data: data}
	var p domain.ClaimWinningsParams
	p.UniqueID = domain.EventID(r.bytes32())
	r.finish()
	return p, r.err()
}

// EncodeInitializeMintParams serializes initialize_mint parameters.
func EncodeInitializeMintParams(p domain.InitializeMintParams) []byte {
	w := &writer{}
	w.bytes32([32]byte(p.Owner))
	w.u64(p.Supply)
	w.str(p.Ticker)
	w.u8(p.Decimals)
	return w.buf
}

// DecodeInitializeMintParams deserializes initialize_mint parameters.
func DecodeInitializeMintParams(data []byte) (domain.InitializeMintParams, error) {
	r := &reader{data: data}
	var p domain.InitializeMintParams
	p.Owner = domain.Identity(r.bytes32())
	p.Supply = r.u64()
	p.Ticker = r.str()
	p.Decimals = r.u8()
	r.finish()
	return p, r.err()
}

// EncodeMintTokensParams serializes mint_tokens parameters.
func EncodeMintTokensParams(p domain.MintTokensParams) []byte {
	w := &writer{}
	w.u64(p.Amount)
	return w.buf
}

// DecodeMintTokensParams deserializes mint_tokens parameters.
func DecodeMintTokensParams(data []byte) (domain.MintTokensParams, error) {
	r := &reader{data: data}
	p := domain.MintTokensParams{Amount: r.u64()}
	r.finish()
	return p, r.err()
}

// EncodeBurnTokensParams serializes burn_tokens parameters.
func EncodeBurnTokensParams(p domain.BurnTokensParams) []byte {
	w := &writer{}
	w.u64(p.Amount)
	return w.buf
}

// DecodeBurnTokensParams deserializes burn_tokens parameters.
func DecodeBurnTokensParams(data []byte) (domain.BurnTokensParams, error) {
	r := &reader{data: data}
	p := domain.BurnTokensParams{Amount: r.u64()}
	r.finish()
	return p, r.err()
}
