package domain

// EventStatus is the lifecycle state of a prediction event. The numeric
// values are part of the wire format and must not be reordered.
type EventStatus uint8

const (
	EventStatusActive EventStatus = iota
	EventStatusClosed
	EventStatusResolved
	// EventStatusCancelled is a modeled terminal state. No handler currently
	// reaches it; it is kept so previously written records stay decodable.
	EventStatusCancelled
)

// Terminal reports whether the status permits no further transitions.
func (s EventStatus) Terminal() bool {
	return s != EventStatusActive
}

// String returns a human-readable status name for logging.
func (s EventStatus) String() string {
	switch s {
	case EventStatusActive:
		return "active"
	case EventStatusClosed:
		return "closed"
	case EventStatusResolved:
		return "resolved"
	case EventStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// BetSide indicates whether a wager buys into an outcome or sells out of it.
// The numeric values are part of the wire format.
type BetSide uint8

const (
	BetSideSell BetSide = iota
	BetSideBuy
)

// String returns a human-readable side name for logging.
func (s BetSide) String() string {
	if s == BetSideBuy {
		return "buy"
	}
	return "sell"
}

// Bet is a single wager record from one identity on one outcome.
type Bet struct {
	User      Identity
	EventID   EventID
	OutcomeID uint8
	Amount    uint64
	Timestamp int64
	Side      BetSide
	Claimed   bool
}

// Outcome is one possible result of an event, aggregating all bets placed on
// it. Bets are grouped per bettor in insertion order.
type Outcome struct {
	ID          uint8
	TotalAmount uint64
	Bets        *OrderedMap[Identity, []Bet]
}

// NewOutcome returns a zero-balance outcome with the given id.
func NewOutcome(id uint8) Outcome {
	return Outcome{ID: id, Bets: NewOrderedMap[Identity, []Bet]()}
}

// AppendBet records a bet in the per-bettor history, preserving insertion
// order within and across bettors.
func (o *Outcome) AppendBet(bet Bet) {
	if o.Bets == nil {
		o.Bets = NewOrderedMap[Identity, []Bet]()
	}
	history, _ := o.Bets.Get(bet.User)
	o.Bets.Set(bet.User, append(history, bet))
}

// NetStake returns the bettor's unclaimed position on this outcome: the sum
// of unclaimed BUY amounts minus unclaimed SELL amounts, floored at zero.
func (o *Outcome) NetStake(user Identity) uint64 {
	if o.Bets == nil {
		return 0
	}
	history, ok := o.Bets.Get(user)
	if !ok {
		return 0
	}
	var buys, sells uint64
	for _, b := range history {
		if b.Claimed {
			continue
		}
		if b.Side == BetSideBuy {
			buys += b.Amount
		} else {
			sells += b.Amount
		}
	}
	if sells >= buys {
		return 0
	}
	return buys - sells
}

// PredictionEvent is a prediction market with N mutually exclusive outcomes
// and one shared wager pool.
type PredictionEvent struct {
	UniqueID        EventID
	Creator         Identity
	ExpiryTimestamp uint32
	Outcomes        []Outcome
	TotalPoolAmount uint64
	Status          EventStatus
	WinningOutcome  *uint8
}

// Outcome returns a pointer to the outcome with the given id, or nil when the
// id is out of range. Outcome ids are dense indices 0..len(Outcomes).
func (e *PredictionEvent) Outcome(id uint8) *Outcome {
	if int(id) >= len(e.Outcomes) {
		return nil
	}
	return &e.Outcomes[id]
}

// Predictions is the top-level persisted aggregate holding every event.
// Events are never removed, only marked terminal.
type Predictions struct {
	TotalPredictions uint32
	Predictions      []PredictionEvent
}

// Find returns a pointer to the event with the given unique id, or nil.
func (p *Predictions) Find(id EventID) *PredictionEvent {
	for i := range p.Predictions {
		if p.Predictions[i].UniqueID == id {
			return &p.Predictions[i]
		}
	}
	return nil
}

// Append adds a new event to the aggregate and bumps the counter. The caller
// is responsible for the duplicate-id check.
func (p *Predictions) Append(event PredictionEvent) {
	p.Predictions = append(p.Predictions, event)
	p.TotalPredictions++
}
