// Package token implements the fungible-token mint ledger: initialize, mint,
// and burn against a single mint storage slot.
package token

import (
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/predledger/internal/codec"
	"github.com/alanyoungcy/predledger/internal/domain"
)

// Service executes token ledger instructions against host-supplied accounts.
type Service struct {
	logger *slog.Logger
}

// New creates a Service logging through the given logger.
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "token")),
	}
}

// InitializeMint creates the mint record in the mint account's slot. It fails
// with ErrAlreadyInitialized when the slot already holds data and with
// ErrIllegalOwner when the account is not owned by the program.
func (s *Service) InitializeMint(mint, owner *domain.Account, programID domain.Identity, params domain.InitializeMintParams) error {
	if !owner.IsSigner {
		return domain.ErrUnauthorized
	}
	if len(mint.Slot.Bytes()) != 0 {
		return domain.ErrAlreadyInitialized
	}
	if mint.Owner != programID {
		return domain.ErrIllegalOwner
	}

	ledger := domain.NewTokenLedger(params.Owner, params.Supply, params.Ticker, params.Decimals)

	if err := mint.Slot.Write(codec.EncodeTokenLedger(ledger)); err != nil {
		return fmt.Errorf("token: persist mint: %w", err)
	}

	s.logger.Info("mint initialized",
		slog.String("owner", params.Owner.String()),
		slog.String("ticker", params.Ticker),
		slog.Uint64("supply", params.Supply),
	)
	return nil
}

// MintTokens credits params.Amount to the target's balance. Only the mint
// owner may mint, and the circulating supply may never exceed the total
// supply.
func (s *Service) MintTokens(mint, owner, target *domain.Account, params domain.MintTokensParams) error {
	if !owner.IsSigner {
		return domain.ErrUnauthorized
	}

	ledger, err := codec.DecodeTokenLedger(mint.Slot.Bytes())
	if err != nil {
		return err
	}
	if owner.Key != ledger.Owner {
		return domain.ErrUnauthorized
	}
	if err := ledger.Credit(target.Key, params.Amount); err != nil {
		return err
	}

	if err := mint.Slot.Write(codec.EncodeTokenLedger(ledger)); err != nil {
		return fmt.Errorf("token: persist mint: %w", err)
	}

	s.logger.Info("tokens minted",
		slog.String("target", target.Key.String()),
		slog.Uint64("amount", params.Amount),
		slog.Uint64("circulating", ledger.CirculatingSupply),
	)
	return nil
}

// BurnTokens debits params.Amount from the target's balance. The target must
// have signed; a balance below the amount fails with ErrInsufficientFunds.
func (s *Service) BurnTokens(mint, target *domain.Account, params domain.BurnTokensParams) error {
	if !target.IsSigner {
		return domain.ErrUnauthorized
	}

	ledger, err := codec.DecodeTokenLedger(mint.Slot.Bytes())
	if err != nil {
		return err
	}
	if err := ledger.Debit(target.Key, params.Amount); err != nil {
		return err
	}

	if err := mint.Slot.Write(codec.EncodeTokenLedger(ledger)); err != nil {
		return fmt.Errorf("token: persist mint: %w", err)
	}

	s.logger.Info("tokens burned",
		slog.String("target", target.Key.String()),
		slog.Uint64("amount", params.Amount),
		slog.Uint64("circulating", ledger.CirculatingSupply),
	)
	return nil
}
