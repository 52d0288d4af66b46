package token

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/predledger/internal/codec"
	"github.com/alanyoungcy/predledger/internal/domain"
	"github.com/alanyoungcy/predledger/internal/slot"
)

func testService() *Service {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ident(b byte) domain.Identity {
	var id domain.Identity
	id[0] = b
	return id
}

var programID = ident(200)

func initParams() domain.InitializeMintParams {
	return domain.InitializeMintParams{
		Owner:    ident(1),
		Supply:   1000,
		Ticker:   "PRED",
		Decimals: 6,
	}
}

// initializedMint returns a mint account holding a freshly initialized ledger.
func initializedMint(t *testing.T) *domain.Account {
	t.Helper()
	svc := testService()
	mint := &domain.Account{Key: ident(100), Owner: programID, Slot: slot.NewMemory(nil)}
	owner := &domain.Account{Key: ident(1), IsSigner: true}
	require.NoError(t, svc.InitializeMint(mint, owner, programID, initParams()))
	return mint
}

func decodeMint(t *testing.T, mint *domain.Account) *domain.TokenLedger {
	t.Helper()
	l, err := codec.DecodeTokenLedger(mint.Slot.Bytes())
	require.NoError(t, err)
	return l
}

func TestInitializeMint(t *testing.T) {
	mint := initializedMint(t)

	ledger := decodeMint(t, mint)
	assert.Equal(t, ident(1), ledger.Owner)
	assert.Equal(t, domain.MintStatusOngoing, ledger.Status)
	assert.Equal(t, uint64(1000), ledger.Supply)
	assert.Equal(t, uint64(0), ledger.CirculatingSupply)
	assert.Equal(t, "PRED", ledger.Ticker)
	assert.Equal(t, uint8(6), ledger.Decimals)
	assert.Equal(t, 0, ledger.Balances.Len())
}

func TestInitializeMintRejections(t *testing.T) {
	svc := testService()

	t.Run("unsigned owner", func(t *testing.T) {
		mint := &domain.Account{Key: ident(100), Owner: programID, Slot: slot.NewMemory(nil)}
		owner := &domain.Account{Key: ident(1)}
		err := svc.InitializeMint(mint, owner, programID, initParams())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Empty(t, mint.Slot.Bytes())
	})

	t.Run("already initialized", func(t *testing.T) {
		mint := initializedMint(t)
		before := append([]byte{}, mint.Slot.Bytes()...)
		owner := &domain.Account{Key: ident(1), IsSigner: true}
		err := svc.InitializeMint(mint, owner, programID, initParams())
		assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
		assert.Equal(t, before, mint.Slot.Bytes())
	})

	t.Run("foreign account owner", func(t *testing.T) {
		mint := &domain.Account{Key: ident(100), Owner: ident(201), Slot: slot.NewMemory(nil)}
		owner := &domain.Account{Key: ident(1), IsSigner: true}
		err := svc.InitializeMint(mint, owner, programID, initParams())
		assert.ErrorIs(t, err, domain.ErrIllegalOwner)
		assert.Empty(t, mint.Slot.Bytes())
	})
}

func TestMintTokens(t *testing.T) {
	svc := testService()
	mint := initializedMint(t)
	owner := &domain.Account{Key: ident(1), IsSigner: true}
	target := &domain.Account{Key: ident(5)}

	require.NoError(t, svc.MintTokens(mint, owner, target, domain.MintTokensParams{Amount: 400}))

	ledger := decodeMint(t, mint)
	assert.Equal(t, uint64(400), ledger.Balance(ident(5)))
	assert.Equal(t, uint64(400), ledger.CirculatingSupply)

	t.Run("non-owner rejected", func(t *testing.T) {
		impostor := &domain.Account{Key: ident(2), IsSigner: true}
		err := svc.MintTokens(mint, impostor, target, domain.MintTokensParams{Amount: 1})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unsigned owner rejected", func(t *testing.T) {
		unsigned := &domain.Account{Key: ident(1)}
		err := svc.MintTokens(mint, unsigned, target, domain.MintTokensParams{Amount: 1})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("supply cap enforced", func(t *testing.T) {
		before := append([]byte{}, mint.Slot.Bytes()...)
		err := svc.MintTokens(mint, owner, target, domain.MintTokensParams{Amount: 601})
		assert.ErrorIs(t, err, domain.ErrSupplyExceeded)
		assert.Equal(t, before, mint.Slot.Bytes())
	})

	t.Run("mint up to cap", func(t *testing.T) {
		require.NoError(t, svc.MintTokens(mint, owner, target, domain.MintTokensParams{Amount: 600}))
		assert.Equal(t, uint64(1000), decodeMint(t, mint).CirculatingSupply)
	})
}

func TestBurnTokens(t *testing.T) {
	svc := testService()
	mint := initializedMint(t)
	owner := &domain.Account{Key: ident(1), IsSigner: true}
	target := &domain.Account{Key: ident(5), IsSigner: true}
	require.NoError(t, svc.MintTokens(mint, owner, target, domain.MintTokensParams{Amount: 400}))

	t.Run("unsigned target rejected", func(t *testing.T) {
		unsigned := &domain.Account{Key: ident(5)}
		err := svc.BurnTokens(mint, unsigned, domain.BurnTokensParams{Amount: 1})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("burn decrements balance and circulation", func(t *testing.T) {
		require.NoError(t, svc.BurnTokens(mint, target, domain.BurnTokensParams{Amount: 150}))
		ledger := decodeMint(t, mint)
		assert.Equal(t, uint64(250), ledger.Balance(ident(5)))
		assert.Equal(t, uint64(250), ledger.CirculatingSupply)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		before := append([]byte{}, mint.Slot.Bytes()...)
		err := svc.BurnTokens(mint, target, domain.BurnTokensParams{Amount: 251})
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, before, mint.Slot.Bytes())
	})

	t.Run("burned funds can be reminted", func(t *testing.T) {
		require.NoError(t, svc.MintTokens(mint, owner, target, domain.MintTokensParams{Amount: 750}))
		assert.Equal(t, uint64(1000), decodeMint(t, mint).CirculatingSupply)
	})
}
