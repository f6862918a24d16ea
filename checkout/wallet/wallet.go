// Package wallet keeps the local wallet balance and its transaction log.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-temporal-storefront/checkout/storage"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// Transaction types
const (
	Credit = "credit"
	Debit  = "debit"
)

// Transaction is one wallet movement
type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type state struct {
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
}

// Wallet is the only writer of storage.KeyWallet.
type Wallet struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	state state
}

// Open loads the stored wallet; absent or malformed data yields an empty one.
func Open(ctx context.Context, store storage.Store, logger *zap.Logger) *Wallet {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Wallet{store: store, logger: logger, now: time.Now}
	w.state = w.load(ctx)
	return w
}

func (w *Wallet) load(ctx context.Context) state {
	raw, ok, err := w.store.Get(ctx, storage.KeyWallet)
	if err != nil {
		w.logger.Warn("Failed to read stored wallet", zap.Error(err))
		return state{}
	}
	if !ok || raw == "" {
		return state{}
	}
	var s state
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		w.logger.Warn("Discarding malformed stored wallet", zap.Error(err))
		return state{}
	}
	if s.Balance.IsNegative() {
		w.logger.Warn("Discarding stored wallet with negative balance")
		return state{}
	}
	return s
}

// Balance returns the current balance.
func (w *Wallet) Balance() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Balance
}

// Transactions returns the log, newest first.
func (w *Wallet) Transactions() []Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Transaction(nil), w.state.Transactions...)
}

// AddFunds credits a positive amount.
func (w *Wallet) AddFunds(ctx context.Context, amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	return w.apply(ctx, Credit, amount, "Funds Added")
}

// Withdraw debits a positive amount no larger than the balance.
func (w *Wallet) Withdraw(ctx context.Context, amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	return w.apply(ctx, Debit, amount, "Withdrawal")
}

// Pay debits a purchase of lines distinct items.
func (w *Wallet) Pay(ctx context.Context, total decimal.Decimal, lines int) (Transaction, error) {
	if total.IsNegative() {
		return Transaction{}, ErrInvalidAmount
	}
	return w.apply(ctx, Debit, total, fmt.Sprintf("Purchase (%d items)", lines))
}

func (w *Wallet) apply(ctx context.Context, kind string, amount decimal.Decimal, description string) (Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.state
	switch kind {
	case Credit:
		next.Balance = next.Balance.Add(amount)
	case Debit:
		if amount.GreaterThan(next.Balance) {
			return Transaction{}, ErrInsufficientFunds
		}
		next.Balance = next.Balance.Sub(amount)
	}

	tx := Transaction{
		ID:          uuid.NewString(),
		Type:        kind,
		Amount:      amount,
		Description: description,
		Date:        w.now().UTC(),
	}
	next.Transactions = append([]Transaction{tx}, next.Transactions...)

	data, err := json.Marshal(next)
	if err != nil {
		return Transaction{}, fmt.Errorf("encode wallet: %w", err)
	}
	if err := w.store.Set(ctx, storage.KeyWallet, string(data)); err != nil {
		return Transaction{}, fmt.Errorf("persist wallet: %w", err)
	}
	w.state = next
	return tx, nil
}
