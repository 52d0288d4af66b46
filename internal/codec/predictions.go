package codec

import (
	"github.com/alanyoungcy/predledger/internal/domain"
)

// EncodePredictions serializes the full aggregate. The same logical value
// always produces identical bytes.
func EncodePredictions(p *domain.Predictions) []byte {
	w := &writer{}
	w.u32(p.TotalPredictions)
	w.u32(uint32(len(p.Predictions)))
	for i := range p.Predictions {
		encodeEvent(w, &p.Predictions[i])
	}
	return w.buf
}

// DecodePredictions deserializes the aggregate from slot bytes. A zero-length
// buffer decodes to an empty aggregate: the bootstrap rule for first use of
// an uninitialized slot, not general leniency. Any other malformed input
// fails with an error wrapping domain.ErrDecode.
func DecodePredictions(data []byte) (*domain.Predictions, error) {
	if len(data) == 0 {
		return &domain.Predictions{}, nil
	}

	r := &reader{data: data}
	p := &domain.Predictions{}
	p.TotalPredictions = r.u32()
	n := r.length("event")
	for i := 0; i < n && r.err() == nil; i++ {
		p.Predictions = append(p.Predictions, decodeEvent(r))
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeEvent(w *writer, e *domain.PredictionEvent) {
	w.bytes32(e.UniqueID)
	w.bytes32([32]byte(e.Creator))
	w.u32(e.ExpiryTimestamp)
	w.u32(uint32(len(e.Outcomes)))
	for i := range e.Outcomes {
		encodeOutcome(w, &e.Outcomes[i])
	}
	w.u64(e.TotalPoolAmount)
	w.u8(uint8(e.Status))
	if e.WinningOutcome != nil {
		w.u8(1)
		w.u8(*e.WinningOutcome)
	} else {
		w.u8(0)
	}
}

func decodeEvent(r *reader) domain.PredictionEvent {
	var e domain.PredictionEvent
	e.UniqueID = domain.EventID(r.bytes32())
	e.Creator = domain.Identity(r.bytes32())
	e.ExpiryTimestamp = r.u32()
	n := r.length("outcome")
	for i := 0; i < n && r.err() == nil; i++ {
		e.Outcomes = append(e.Outcomes, decodeOutcome(r))
	}
	e.TotalPoolAmount = r.u64()
	status := r.u8()
	if status > uint8(domain.EventStatusCancelled) {
		r.errf("unknown event status %d", status)
	}
	e.Status = domain.EventStatus(status)
	switch r.u8() {
	case 0:
	case 1:
		winning := r.u8()
		e.WinningOutcome = &winning
	default:
		r.errf("invalid winning-outcome flag")
	}
	return e
}

func encodeOutcome(w *writer, o *domain.Outcome) {
	w.u8(o.ID)
	w.u64(o.TotalAmount)
	if o.Bets == nil {
		w.u32(0)
		return
	}
	w.u32(uint32(o.Bets.Len()))
	o.Bets.Range(func(user domain.Identity, bets []domain.Bet) bool {
		w.bytes32([32]byte(user))
		w.u32(uint32(len(bets)))
		for i := range bets {
			encodeBet(w, &bets[i])
		}
		return true
	})
}

func decodeOutcome(r *reader) domain.Outcome {
	var o domain.Outcome
	o.ID = r.u8()
	o.TotalAmount = r.u64()
	o.Bets = domain.NewOrderedMap[domain.Identity, []domain.Bet]()
	users := r.length("bettor")
	for i := 0; i < users && r.err() == nil; i++ {
		user := domain.Identity(r.bytes32())
		count := r.length("bet")
		var bets []domain.Bet
		for j := 0; j < count && r.err() == nil; j++ {
			bets = append(bets, decodeBet(r))
		}
		if _, exists := o.Bets.Get(user); exists {
			r.errf("duplicate bettor key %s in outcome %d", user, o.ID)
			return o
		}
		o.Bets.Set(user, bets)
	}
	return o
}

func encodeBet(w *writer, b *domain.Bet) {
	w.bytes32([32]byte(b.User))
	w.bytes32(b.EventID)
	w.u8(b.OutcomeID)
	w.u64(b.Amount)
	w.i64(b.Timestamp)
	w.u8(uint8(b.Side))
	w.boolean(b.Claimed)
}

func decodeBet(r *reader) domain.Bet {
	var b domain.Bet
	b.User = domain.Identity(r.bytes32())
	b.EventID = domain.EventID(r.bytes32())
	b.OutcomeID = r.u8()
	b.Amount = r.u64()
	b.Timestamp = r.i64()
	side := r.u8()
	if side > uint8(domain.BetSideBuy) {
		r.errf("unknown bet side %d", side)
	}
	b.Side = domain.BetSide(side)
	b.Claimed = r.boolean()
	return b
}
