package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/predledger/internal/domain"
)

func ident(b byte) domain.Identity {
	var id domain.Identity
	id[0] = b
	return id
}

func eventID(b byte) domain.EventID {
	var id domain.EventID
	id[0] = b
	return id
}

func sampleAggregate() *domain.Predictions {
	winning := uint8(0)

	outcome0 := domain.NewOutcome(0)
	outcome0.TotalAmount = 30
	outcome0.AppendBet(domain.Bet{
		User:      ident(1),
		EventID:   eventID(9),
		OutcomeID: 0,
		Amount:    10,
		Timestamp: 100,
		Side:      domain.BetSideBuy,
	})
	outcome0.AppendBet(domain.Bet{
		User:      ident(2),
		EventID:   eventID(9),
		OutcomeID: 0,
		Amount:    20,
		Timestamp: 101,
		Side:      domain.BetSideBuy,
		Claimed:   true,
	})

	outcome1 := domain.NewOutcome(1)
	outcome1.TotalAmount = 70
	outcome1.AppendBet(domain.Bet{
		User:      ident(3),
		EventID:   eventID(9),
		OutcomeID: 1,
		Amount:    70,
		Timestamp: 102,
		Side:      domain.BetSideSell,
	})

	return &domain.Predictions{
		TotalPredictions: 2,
		Predictions: []domain.PredictionEvent{
			{
				UniqueID:        eventID(9),
				Creator:         ident(7),
				ExpiryTimestamp: 900000,
				Outcomes:        []domain.Outcome{outcome0, outcome1},
				TotalPoolAmount: 100,
				Status:          domain.EventStatusResolved,
				WinningOutcome:  &winning,
			},
			{
				UniqueID:        eventID(10),
				Creator:         ident(7),
				ExpiryTimestamp: 900500,
				Outcomes:        []domain.Outcome{domain.NewOutcome(0), domain.NewOutcome(1), domain.NewOutcome(2)},
				Status:          domain.EventStatusActive,
			},
		},
	}
}

func TestPredictionsRoundTrip(t *testing.T) {
	original := sampleAggregate()

	encoded := EncodePredictions(original)
	decoded, err := DecodePredictions(encoded)
	require.NoError(t, err)

	assert.Equal(t, original.TotalPredictions, decoded.TotalPredictions)
	require.Len(t, decoded.Predictions, 2)

	event := decoded.Predictions[0]
	assert.Equal(t, eventID(9), event.UniqueID)
	assert.Equal(t, ident(7), event.Creator)
	assert.Equal(t, uint64(100), event.TotalPoolAmount)
	assert.Equal(t, domain.EventStatusResolved, event.Status)
	require.NotNil(t, event.WinningOutcome)
	assert.Equal(t, uint8(0), *event.WinningOutcome)

	// Per-bettor history keeps insertion order.
	require.Len(t, event.Outcomes, 2)
	assert.Equal(t, []domain.Identity{ident(1), ident(2)}, event.Outcomes[0].Bets.Keys())
	bets, ok := event.Outcomes[0].Bets.Get(ident(2))
	require.True(t, ok)
	require.Len(t, bets, 1)
	assert.True(t, bets[0].Claimed)
	assert.Equal(t, domain.BetSideBuy, bets[0].Side)

	assert.Nil(t, decoded.Predictions[1].WinningOutcome)
}

func TestEncodePredictionsDeterministic(t *testing.T) {
	// Re-encoding a decoded aggregate must reproduce the original bytes.
	encoded := EncodePredictions(sampleAggregate())
	decoded, err := DecodePredictions(encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, EncodePredictions(decoded))
}

func TestDecodePredictionsBootstrap(t *testing.T) {
	// A zero-length buffer is the uninitialized-slot bootstrap case.
	decoded, err := DecodePredictions(nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), decoded.TotalPredictions)
	assert.Empty(t, decoded.Predictions)
}

func TestDecodePredictionsTrailingBytes(t *testing.T) {
	// Storage only grows, so decoded records may be followed by stale bytes.
	encoded := EncodePredictions(sampleAggregate())
	padded := append(append([]byte{}, encoded...), make([]byte, 64)...)

	decoded, err := DecodePredictions(padded)
	require.NoError(t, err)
	assert.Equal(t, encoded, EncodePredictions(decoded))
}

func TestDecodePredictionsMalformed(t *testing.T) {
	valid := EncodePredictions(sampleAggregate())

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "truncated header",
			data: valid[:3],
		},
		{
			name: "truncated event",
			data: valid[:40],
		},
		{
			name: "absurd event count",
			data: []byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff},
		},
		{
			name: "single zero byte",
			data: []byte{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePredictions(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDecode)
		})
	}
}

func TestDecodePredictionsBadStatus(t *testing.T) {
	p := sampleAggregate()
	p.Predictions[1].Status = domain.EventStatus(9)
	_, err := DecodePredictions(EncodePredictions(p))
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestTokenLedgerRoundTrip(t *testing.T) {
	original := domain.NewTokenLedger(ident(5), 1_000_000, "PRED", 6)
	original.Metadata.Set("uri", [32]byte{1, 2, 3})
	require.NoError(t, original.Credit(ident(1), 500))
	require.NoError(t, original.Credit(ident(2), 250))

	encoded := EncodeTokenLedger(original)
	decoded, err := DecodeTokenLedger(encoded)
	require.NoError(t, err)

	assert.Equal(t, ident(5), decoded.Owner)
	assert.Equal(t, domain.MintStatusOngoing, decoded.Status)
	assert.Equal(t, uint64(1_000_000), decoded.Supply)
	assert.Equal(t, uint64(750), decoded.CirculatingSupply)
	assert.Equal(t, "PRED", decoded.Ticker)
	assert.Equal(t, uint8(6), decoded.Decimals)
	assert.Equal(t, uint64(500), decoded.Balance(ident(1)))
	assert.Equal(t, uint64(250), decoded.Balance(ident(2)))

	// Deterministic: balances keep insertion order across the round trip.
	assert.Equal(t, encoded, EncodeTokenLedger(decoded))
}

func TestDecodeTokenLedgerEmpty(t *testing.T) {
	// Unlike the aggregate, the mint has no bootstrap rule.
	_, err := DecodeTokenLedger(nil)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestPlaceBetParamsRoundTrip(t *testing.T) {
	params := domain.PlaceBetParams{
		UniqueID:  eventID(4),
		OutcomeID: 2,
		Amount:    12345,
		Side:      domain.BetSideBuy,
	}

	decoded, err := DecodePlaceBetParams(EncodePlaceBetParams(params))
	require.NoError(t, err)
	assert.Equal(t, params, decoded)
}

func TestDecodePlaceBetParamsBadSide(t *testing.T) {
	data := EncodePlaceBetParams(domain.PlaceBetParams{UniqueID: eventID(4)})
	data[len(data)-1] = 7
	_, err := DecodePlaceBetParams(data)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestInitializeMintParamsRoundTrip(t *testing.T) {
	params := domain.InitializeMintParams{
		Owner:    ident(5),
		Supply:   21_000_000,
		Ticker:   "PRED",
		Decimals: 8,
	}

	decoded, err := DecodeInitializeMintParams(EncodeInitializeMintParams(params))
	require.NoError(t, err)
	assert.Equal(t, params, decoded)
}
