// Package program is the instruction surface of the prediction ledger: it
// decodes an opcode plus codec-encoded parameters, checks the account list,
// and dispatches to the event or token ledger handlers.
package program

import (
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/predledger/internal/codec"
	"github.com/alanyoungcy/predledger/internal/domain"
	"github.com/alanyoungcy/predledger/internal/ledger"
	"github.com/alanyoungcy/predledger/internal/token"
)

// Opcode selects a handler. The numeric values are part of the instruction
// wire format.
type Opcode uint8

const (
	OpCreateEvent Opcode = iota
	OpCloseEvent
	OpPlaceBet
	OpResolveEvent
	OpClaimWinnings
	OpInitializeMint
	OpMintTokens
	OpBurnTokens
)

// String returns the instruction name for logging.
func (op Opcode) String() string {
	switch op {
	case OpCreateEvent:
		return "create_event"
	case OpCloseEvent:
		return "close_event"
	case OpPlaceBet:
		return "place_bet"
	case OpResolveEvent:
		return "resolve_event"
	case OpClaimWinnings:
		return "claim_winnings"
	case OpInitializeMint:
		return "initialize_mint"
	case OpMintTokens:
		return "mint_tokens"
	case OpBurnTokens:
		return "burn_tokens"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(op))
	}
}

// accountCount is the number of accounts each opcode expects, in the
// documented order.
func (op Opcode) accountCount() int {
	switch op {
	case OpCreateEvent, OpCloseEvent, OpResolveEvent, OpInitializeMint, OpBurnTokens:
		return 2
	case OpPlaceBet, OpClaimWinnings, OpMintTokens:
		return 3
	default:
		return 0
	}
}

// Program routes instructions to the ledger handlers.
type Program struct {
	id     domain.Identity
	events *ledger.Service
	tokens *token.Service
	logger *slog.Logger
}

// New creates a Program with the given program identity.
func New(id domain.Identity, logger *slog.Logger) *Program {
	return &Program{
		id:     id,
		events: ledger.New(logger),
		tokens: token.New(logger),
		logger: logger.With(slog.String("component", "program")),
	}
}

// ID returns the program identity used for account-owner checks.
func (p *Program) ID() domain.Identity {
	return p.id
}

// Process executes one instruction: data is the opcode byte followed by the
// codec-encoded parameter struct, accounts is the per-opcode account list,
// and height is the externally supplied block height used to timestamp bets.
// It returns a domain error with zero observable mutation on any failure.
func (p *Program) Process(accounts []*domain.Account, data []byte, height int64) error {
	if len(data) == 0 {
		return fmt.Errorf("program: empty instruction: %w", domain.ErrDecode)
	}
	op := Opcode(data[0])
	payload := data[1:]

	if want := op.accountCount(); want == 0 {
		return fmt.Errorf("program: unknown opcode %d: %w", uint8(op), domain.ErrDecode)
	} else if len(accounts) < want {
		return fmt.Errorf("program: %s expects %d accounts, got %d: %w",
			op, want, len(accounts), domain.ErrDecode)
	}

	p.logger.Debug("dispatching instruction", slog.String("op", op.String()))

	switch op {
	case OpCreateEvent:
		params, err := codec.DecodeCreateEventParams(payload)
		if err != nil {
			return err
		}
		return p.events.CreateEvent(accounts[0], accounts[1], params)

	case OpCloseEvent:
		params, err := codec.DecodeCloseEventParams(payload)
		if err != nil {
			return err
		}
		return p.events.CloseEvent(accounts[0], accounts[1], params)

	case OpPlaceBet:
		params, err := codec.DecodePlaceBetParams(payload)
		if err != nil {
			return err
		}
		return p.events.PlaceBet(accounts[0], accounts[1], accounts[2], params, height)

	case OpResolveEvent:
		params, err := codec.DecodeResolveEventParams(payload)
		if err != nil {
			return err
		}
		return p.events.ResolveEvent(accounts[0], accounts[1], params)

	case OpClaimWinnings:
		params, err := codec.DecodeClaimWinningsParams(payload)
		if err != nil {
			return err
		}
		return p.events.ClaimWinnings(accounts[0], accounts[1], accounts[2], params)

	case OpInitializeMint:
		params, err := codec.DecodeInitializeMintParams(payload)
		if err != nil {
			return err
		}
		return p.tokens.InitializeMint(accounts[0], accounts[1], p.id, params)

	case OpMintTokens:
		params, err := codec.DecodeMintTokensParams(payload)
		if err != nil {
			return err
		}
		return p.tokens.MintTokens(accounts[0], accounts[1], accounts[2], params)

	case OpBurnTokens:
		params, err := codec.DecodeBurnTokensParams(payload)
		if err != nil {
			return err
		}
		return p.tokens.BurnTokens(accounts[0], accounts[1], params)
	}

	return fmt.Errorf("program: unknown opcode %d: %w", uint8(op), domain.ErrDecode)
}
