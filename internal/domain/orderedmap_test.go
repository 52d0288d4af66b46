package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())

	// Replacing a value keeps the key's original position.
	m.Set("a", 10)
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 3, m.Len())
}

func TestOrderedMapRange(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("x", 1)
	m.Set("y", 2)
	m.Set("z", 3)

	var visited []string
	m.Range(func(k string, v int) bool {
		visited = append(visited, k)
		return k != "y"
	})
	assert.Equal(t, []string{"x", "y"}, visited)
}

func TestOutcomeNetStake(t *testing.T) {
	user := Identity{1}
	other := Identity{2}

	tests := []struct {
		name string
		bets []Bet
		want uint64
	}{
		{
			name: "no bets",
			want: 0,
		},
		{
			name: "buys only",
			bets: []Bet{
				{User: user, Amount: 10, Side: BetSideBuy},
				{User: user, Amount: 5, Side: BetSideBuy},
			},
			want: 15,
		},
		{
			name: "sell reduces position",
			bets: []Bet{
				{User: user, Amount: 10, Side: BetSideBuy},
				{User: user, Amount: 4, Side: BetSideSell},
			},
			want: 6,
		},
		{
			name: "claimed bets excluded",
			bets: []Bet{
				{User: user, Amount: 10, Side: BetSideBuy, Claimed: true},
				{User: user, Amount: 5, Side: BetSideBuy},
			},
			want: 5,
		},
		{
			name: "sells exceeding buys floor at zero",
			bets: []Bet{
				{User: user, Amount: 3, Side: BetSideBuy},
				{User: user, Amount: 9, Side: BetSideSell},
			},
			want: 0,
		},
		{
			name: "other bettors ignored",
			bets: []Bet{
				{User: other, Amount: 50, Side: BetSideBuy},
				{User: user, Amount: 7, Side: BetSideBuy},
			},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := NewOutcome(0)
			for _, b := range tt.bets {
				outcome.AppendBet(b)
			}
			assert.Equal(t, tt.want, outcome.NetStake(user))
		})
	}
}

func TestTokenLedgerCreditDebit(t *testing.T) {
	ledger := NewTokenLedger(Identity{9}, 100, "PRED", 6)
	target := Identity{1}

	assert.NoError(t, ledger.Credit(target, 60))
	assert.Equal(t, uint64(60), ledger.Balance(target))
	assert.Equal(t, uint64(60), ledger.CirculatingSupply)

	// Exceeding total supply is rejected without mutation.
	assert.ErrorIs(t, ledger.Credit(target, 41), ErrSupplyExceeded)
	assert.Equal(t, uint64(60), ledger.Balance(target))
	assert.Equal(t, uint64(60), ledger.CirculatingSupply)

	assert.NoError(t, ledger.Debit(target, 25))
	assert.Equal(t, uint64(35), ledger.Balance(target))
	assert.Equal(t, uint64(35), ledger.CirculatingSupply)

	// Debits never drive a balance negative.
	assert.ErrorIs(t, ledger.Debit(target, 36), ErrInsufficientFunds)
	assert.Equal(t, uint64(35), ledger.Balance(target))
}
