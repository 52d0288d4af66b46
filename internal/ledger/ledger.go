// Package ledger implements the event ledger: the create/close/bet/resolve/
// claim state-transition protocol over the predictions aggregate.
//
// Every handler follows the same load-mutate-store cycle: decode the slot,
// validate every precondition, compute the full mutation in memory, and only
// then write the re-encoded records back. The slot writes are the last action
// of each handler, so a failure is never observable as partially applied
// state.
package ledger

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/alanyoungcy/predledger/internal/codec"
	"github.com/alanyoungcy/predledger/internal/domain"
)

// Service executes event ledger instructions against host-supplied accounts.
type Service struct {
	logger *slog.Logger
}

// New creates a Service logging through the given logger.
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "ledger")),
	}
}

// CreateEvent appends a new Active event with params.NumOutcomes zero-balance
// outcomes to the aggregate in the state account.
func (s *Service) CreateEvent(state, creator *domain.Account, params domain.CreateEventParams) error {
	if !creator.IsSigner {
		return domain.ErrUnauthorized
	}

	predictions, err := codec.DecodePredictions(state.Slot.Bytes())
	if err != nil {
		return err
	}
	if predictions.Find(params.UniqueID) != nil {
		return domain.ErrDuplicateEvent
	}

	outcomes := make([]domain.Outcome, 0, params.NumOutcomes)
	for i := uint8(0); i < params.NumOutcomes; i++ {
		outcomes = append(outcomes, domain.NewOutcome(i))
	}
	predictions.Append(domain.PredictionEvent{
		UniqueID:        params.UniqueID,
		Creator:         creator.Key,
		ExpiryTimestamp: params.ExpiryTimestamp,
		Outcomes:        outcomes,
		Status:          domain.EventStatusActive,
	})

	if err := state.Slot.Write(codec.EncodePredictions(predictions)); err != nil {
		return fmt.Errorf("ledger: persist aggregate: %w", err)
	}

	s.logger.Info("event created",
		slog.String("event_id", params.UniqueID.String()),
		slog.String("creator", creator.Key.String()),
		slog.Int("outcomes", int(params.NumOutcomes)),
	)
	return nil
}

// CloseEvent administratively closes an Active event. Only the creator may
// close it.
func (s *Service) CloseEvent(state, caller *domain.Account, params domain.CloseEventParams) error {
	if !caller.IsSigner {
		return domain.ErrUnauthorized
	}

	predictions, err := codec.DecodePredictions(state.Slot.Bytes())
	if err != nil {
		return err
	}
	event := predictions.Find(params.UniqueID)
	if event == nil {
		return domain.ErrEventNotFound
	}
	if caller.Key != event.Creator {
		return domain.ErrUnauthorized
	}
	if event.Status != domain.EventStatusActive {
		return domain.ErrEventNotActive
	}

	event.Status = domain.EventStatusClosed

	if err := state.Slot.Write(codec.EncodePredictions(predictions)); err != nil {
		return fmt.Errorf("ledger: persist aggregate: %w", err)
	}

	s.logger.Info("event closed", slog.String("event_id", params.UniqueID.String()))
	return nil
}

// PlaceBet records a wager on one outcome of an Active event and settles it
// against the token ledger in the mint account: BUY burns the amount from
// the bettor's balance, SELL mints it back. Both slot writes happen after
// every check and computation has succeeded.
func (s *Service) PlaceBet(state, mint, bettor *domain.Account, params domain.PlaceBetParams, height int64) error {
	if !bettor.IsSigner {
		return domain.ErrUnauthorized
	}

	predictions, err := codec.DecodePredictions(state.Slot.Bytes())
	if err != nil {
		return err
	}
	tokens, err := codec.DecodeTokenLedger(mint.Slot.Bytes())
	if err != nil {
		return err
	}

	event := predictions.Find(params.UniqueID)
	if event == nil {
		return domain.ErrEventNotFound
	}
	if event.Status != domain.EventStatusActive {
		return domain.ErrEventNotActive
	}
	outcome := event.Outcome(params.OutcomeID)
	if outcome == nil {
		return domain.ErrInvalidOutcome
	}

	switch params.Side {
	case domain.BetSideBuy:
		if err := tokens.Debit(bettor.Key, params.Amount); err != nil {
			return err
		}
		outcome.TotalAmount += params.Amount
		event.TotalPoolAmount += params.Amount

	case domain.BetSideSell:
		// A sell may not drive the outcome balance negative, and may not
		// reduce more position than the bettor actually holds.
		if outcome.TotalAmount < params.Amount {
			return domain.ErrInvalidOutcome
		}
		if outcome.NetStake(bettor.Key) < params.Amount {
			return domain.ErrInvalidOutcome
		}
		if err := tokens.Credit(bettor.Key, params.Amount); err != nil {
			return err
		}
		outcome.TotalAmount -= params.Amount
		event.TotalPoolAmount -= params.Amount

	default:
		return domain.ErrInvalidOutcome
	}

	outcome.AppendBet(domain.Bet{
		User:      bettor.Key,
		EventID:   params.UniqueID,
		OutcomeID: params.OutcomeID,
		Amount:    params.Amount,
		Timestamp: height,
		Side:      params.Side,
	})

	if err := state.Slot.Write(codec.EncodePredictions(predictions)); err != nil {
		return fmt.Errorf("ledger: persist aggregate: %w", err)
	}
	if err := mint.Slot.Write(codec.EncodeTokenLedger(tokens)); err != nil {
		return fmt.Errorf("ledger: persist mint: %w", err)
	}

	s.logger.Info("bet placed",
		slog.String("event_id", params.UniqueID.String()),
		slog.String("bettor", bettor.Key.String()),
		slog.Int("outcome", int(params.OutcomeID)),
		slog.Uint64("amount", params.Amount),
		slog.String("side", params.Side.String()),
	)
	return nil
}

// ResolveEvent records the winning outcome on an Active event and moves it to
// the terminal Resolved state. Only the creator may resolve.
func (s *Service) ResolveEvent(state, resolver *domain.Account, params domain.ResolveEventParams) error {
	if !resolver.IsSigner {
		return domain.ErrUnauthorized
	}

	predictions, err := codec.DecodePredictions(state.Slot.Bytes())
	if err != nil {
		return err
	}
	event := predictions.Find(params.UniqueID)
	if event == nil {
		return domain.ErrEventNotFound
	}
	if resolver.Key != event.Creator {
		return domain.ErrUnauthorized
	}
	if event.Status != domain.EventStatusActive {
		return domain.ErrEventAlreadyResolved
	}
	if event.Outcome(params.WinningOutcome) == nil {
		return domain.ErrInvalidOutcome
	}

	winning := params.WinningOutcome
	event.Status = domain.EventStatusResolved
	event.WinningOutcome = &winning

	if err := state.Slot.Write(codec.EncodePredictions(predictions)); err != nil {
		return fmt.Errorf("ledger: persist aggregate: %w", err)
	}

	s.logger.Info("event resolved",
		slog.String("event_id", params.UniqueID.String()),
		slog.Int("winning_outcome", int(winning)),
	)
	return nil
}

// ClaimWinnings pays the claimant's share of the pool on a Resolved event:
// floor(stake * pool / winning_total), credited through the token ledger.
// Claimed bets are flagged so a repeat call pays nothing further.
func (s *Service) ClaimWinnings(state, mint, claimant *domain.Account, params domain.ClaimWinningsParams) error {
	if !claimant.IsSigner {
		return domain.ErrUnauthorized
	}

	predictions, err := codec.DecodePredictions(state.Slot.Bytes())
	if err != nil {
		return err
	}
	tokens, err := codec.DecodeTokenLedger(mint.Slot.Bytes())
	if err != nil {
		return err
	}

	event := predictions.Find(params.UniqueID)
	if event == nil {
		return domain.ErrEventNotFound
	}
	if event.Status != domain.EventStatusResolved || event.WinningOutcome == nil {
		return domain.ErrEventNotResolved
	}
	outcome := event.Outcome(*event.WinningOutcome)
	if outcome == nil {
		return domain.ErrInvalidOutcome
	}

	stake := outcome.NetStake(claimant.Key)
	if stake == 0 || outcome.TotalAmount == 0 {
		// Nothing unclaimed: a repeat claim yields zero additional payout.
		s.logger.Info("claim with no unclaimed stake",
			slog.String("event_id", params.UniqueID.String()),
			slog.String("claimant", claimant.Key.String()),
		)
		return nil
	}

	payout := proRataPayout(stake, event.TotalPoolAmount, outcome.TotalAmount)
	if err := tokens.Credit(claimant.Key, payout); err != nil {
		return err
	}

	history, _ := outcome.Bets.Get(claimant.Key)
	for i := range history {
		history[i].Claimed = true
	}
	outcome.Bets.Set(claimant.Key, history)

	if err := state.Slot.Write(codec.EncodePredictions(predictions)); err != nil {
		return fmt.Errorf("ledger: persist aggregate: %w", err)
	}
	if err := mint.Slot.Write(codec.EncodeTokenLedger(tokens)); err != nil {
		return fmt.Errorf("ledger: persist mint: %w", err)
	}

	s.logger.Info("winnings claimed",
		slog.String("event_id", params.UniqueID.String()),
		slog.String("claimant", claimant.Key.String()),
		slog.Uint64("stake", stake),
		slog.Uint64("payout", payout),
	)
	return nil
}

// proRataPayout computes floor(stake * pool / winningTotal) without
// intermediate overflow.
func proRataPayout(stake, pool, winningTotal uint64) uint64 {
	product := new(big.Int).Mul(
		new(big.Int).SetUint64(stake),
		new(big.Int).SetUint64(pool),
	)
	product.Quo(product, new(big.Int).SetUint64(winningTotal))
	return product.Uint64()
}
