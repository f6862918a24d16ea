package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-temporal-storefront/checkout/storage"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAddFundsAndWithdraw(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	w := Open(ctx, store, zaptest.NewLogger(t))
	w.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	_, err := w.AddFunds(ctx, d("100"))
	require.NoError(t, err)
	tx, err := w.Withdraw(ctx, d("30.50"))
	require.NoError(t, err)

	assert.Equal(t, Debit, tx.Type)
	assert.Equal(t, "Withdrawal", tx.Description)
	assert.NotEmpty(t, tx.ID)
	assert.True(t, d("69.50").Equal(w.Balance()))

	txs := w.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "Withdrawal", txs[0].Description, "newest first")
	assert.Equal(t, "Funds Added", txs[1].Description)

	reopened := Open(ctx, store, zaptest.NewLogger(t))
	assert.True(t, d("69.50").Equal(reopened.Balance()))
	assert.Len(t, reopened.Transactions(), 2)
}

func TestInvalidAmounts(t *testing.T) {
	ctx := context.Background()
	w := Open(ctx, storage.NewMemory(), zaptest.NewLogger(t))

	_, err := w.AddFunds(ctx, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = w.AddFunds(ctx, d("-5"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = w.Withdraw(ctx, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = w.Pay(ctx, d("-1"), 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, w.Transactions())
}

func TestInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	w := Open(ctx, storage.NewMemory(), zaptest.NewLogger(t))

	_, err := w.Withdraw(ctx, d("1"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = w.AddFunds(ctx, d("10"))
	require.NoError(t, err)
	_, err = w.Pay(ctx, d("10.01"), 2)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, d("10").Equal(w.Balance()))
}

func TestPay(t *testing.T) {
	ctx := context.Background()
	w := Open(ctx, storage.NewMemory(), zaptest.NewLogger(t))

	_, err := w.AddFunds(ctx, d("500"))
	require.NoError(t, err)
	tx, err := w.Pay(ctx, d("500"), 3)
	require.NoError(t, err)

	assert.Equal(t, "Purchase (3 items)", tx.Description)
	assert.True(t, w.Balance().IsZero())
}

func TestOpen_MalformedStoredWallet(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":  `{"balance":`,
		"negative": `{"balance":"-10","transactions":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemory()
			require.NoError(t, store.Set(ctx, storage.KeyWallet, raw))

			w := Open(ctx, store, zaptest.NewLogger(t))
			assert.True(t, w.Balance().IsZero())
			assert.Empty(t, w.Transactions())
		})
	}
}

func TestOpen_LegacyNumericBalance(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.KeyWallet,
		`{"balance":250.5,"transactions":[{"type":"credit","amount":250.5,"description":"Funds Added","date":"2024-06-01T10:00:00Z"}]}`))

	w := Open(ctx, store, zaptest.NewLogger(t))
	assert.True(t, d("250.5").Equal(w.Balance()))
	require.Len(t, w.Transactions(), 1)
	assert.Equal(t, Credit, w.Transactions()[0].Type)
}
