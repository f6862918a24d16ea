// Package flow drives one checkout attempt from form submission to a
// settlement result:
//
//	collecting -> validating -> settling -> approved | declined
//
// Validation runs in-process and reports every failing field at once; only a
// valid form reaches the Settler. Paid lines leave the cart only after approval.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-temporal-storefront/checkout/cart"
	"go-temporal-storefront/checkout/payment"
	"go-temporal-storefront/checkout/types"
	"go-temporal-storefront/checkout/wallet"
)

var (
	// ErrCheckoutInProgress is returned while another attempt is settling.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrEmptyCart          = errors.New("cart is empty")
)

// ReasonInsufficientWallet is reported when the wallet cannot cover the total.
const ReasonInsufficientWallet = "Insufficient wallet balance"

// BrandWallet marks receipts paid from the wallet.
const BrandWallet = "Wallet"

// Settler runs the settlement step for a validated attempt.
type Settler interface {
	Settle(ctx context.Context, input types.CheckoutInput) (types.SettlementResult, error)
}

// Option configures a Checkout.
type Option func(*Checkout)

// WithClock replaces time.Now for expiry checks and wallet receipts.
func WithClock(now func() time.Time) Option {
	return func(c *Checkout) { c.now = now }
}

// WithTaxRate sets the rate used for the charged amount.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(c *Checkout) { c.taxRate = rate }
}

// WithLatency sets the simulated settlement latency.
func WithLatency(d time.Duration) Option {
	return func(c *Checkout) { c.latency = d }
}

// WithWallet enables PayWithWallet.
func WithWallet(w *wallet.Wallet) Option {
	return func(c *Checkout) { c.wallet = w }
}

// Checkout coordinates the ledger, the validator and the settler. At most
// one attempt is in flight at a time.
type Checkout struct {
	ledger  *cart.Ledger
	settler Settler
	wallet  *wallet.Wallet
	logger  *zap.Logger
	now     func() time.Time
	taxRate decimal.Decimal
	latency time.Duration
	ids     types.TransactionIDs

	mu      sync.Mutex
	pending bool
}

// New returns a Checkout over ledger settling through settler.
func New(ledger *cart.Ledger, settler Settler, logger *zap.Logger, opts ...Option) *Checkout {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Checkout{
		ledger:  ledger,
		settler: settler,
		logger:  logger,
		now:     time.Now,
		taxRate: cart.DefaultTaxRate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pending reports whether an attempt is settling.
func (c *Checkout) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Checkout) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return false
	}
	c.pending = true
	return true
}

func (c *Checkout) release() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}

// Submit validates form and, if valid, settles the cart's grand total as it
// is right now. Validation failures and declines are results, not errors;
// errors are reserved for ErrCheckoutInProgress, ErrEmptyCart and system faults.
// Once settlement starts it runs to completion even if ctx is cancelled.
func (c *Checkout) Submit(ctx context.Context, form types.PaymentForm) (types.SettlementResult, error) {
	if !c.acquire() {
		return types.SettlementResult{}, ErrCheckoutInProgress
	}
	defer c.release()

	attempt, err := c.startAttempt()
	if err != nil {
		return types.SettlementResult{}, err
	}
	log := c.logger.With(zap.String("attemptID", attempt.ID), zap.String("amount", attempt.Amount.StringFixed(2)))

	attempt.advance(types.StageValidating)
	if reasons := payment.Validate(form, c.now()); len(reasons) > 0 {
		log.Info("Payment form rejected", zap.Strings("reasons", reasons))
		return attempt.finish(types.Declined(types.DeclineValidation, reasons...)), nil
	}

	attempt.advance(types.StageSettling)
	input := types.CheckoutInput{
		Request: types.SettlementRequest{
			AttemptID:  attempt.ID,
			Amount:     attempt.Amount,
			CardBrand:  payment.CardBrand(form.CardNumber),
			LastFour:   payment.LastFour(form.CardNumber),
			CardHolder: form.CardHolder,
		},
		Latency: c.latency,
	}
	settleCtx := context.WithoutCancel(ctx)
	result, err := c.settler.Settle(settleCtx, input)
	if err != nil {
		log.Error("Settlement failed", zap.Error(err))
		return types.SettlementResult{}, fmt.Errorf("settle attempt %s: %w", attempt.ID, err)
	}

	result = attempt.finish(result)
	if !result.IsApproved() {
		log.Info("Payment declined", zap.Strings("reasons", result.Reasons()))
		return result, nil
	}

	log.Info("Payment approved", zap.String("transactionID", result.Approved.TransactionID))
	if err := c.ledger.Deduct(settleCtx, attempt.Lines); err != nil {
		// Non-critical failure - the payment already went through
		log.Error("Failed to remove paid lines from cart", zap.Error(err))
	}
	return result, nil
}

// PayWithWallet pays the cart's grand total from the wallet balance.
// An insufficient balance is a validation decline.
func (c *Checkout) PayWithWallet(ctx context.Context) (types.SettlementResult, error) {
	if c.wallet == nil {
		return types.SettlementResult{}, errors.New("wallet payments are not enabled")
	}
	if !c.acquire() {
		return types.SettlementResult{}, ErrCheckoutInProgress
	}
	defer c.release()

	attempt, err := c.startAttempt()
	if err != nil {
		return types.SettlementResult{}, err
	}
	attempt.advance(types.StageValidating)
	attempt.advance(types.StageSettling)

	tx, err := c.wallet.Pay(ctx, attempt.Amount, len(attempt.Lines))
	if errors.Is(err, wallet.ErrInsufficientFunds) {
		return attempt.finish(types.Declined(types.DeclineValidation, ReasonInsufficientWallet)), nil
	}
	if err != nil {
		return types.SettlementResult{}, fmt.Errorf("wallet payment: %w", err)
	}

	now := c.now()
	result := attempt.finish(types.Approved(types.Approval{
		TransactionID: c.ids.Next(now),
		Amount:        attempt.Amount,
		CardBrand:     BrandWallet,
		Timestamp:     now.UTC(),
	}))
	c.logger.Info("Wallet payment approved",
		zap.String("attemptID", attempt.ID),
		zap.String("walletTransaction", tx.ID))

	if err := c.ledger.Deduct(ctx, attempt.Lines); err != nil {
		c.logger.Error("Failed to remove paid lines from cart", zap.Error(err))
	}
	return result, nil
}

// startAttempt snapshots the cart lines and their grand total, rounded to cents.
func (c *Checkout) startAttempt() (*attempt, error) {
	snap := c.ledger.SnapshotAt(c.taxRate)
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}
	return newAttempt(uuid.NewString(), snap.Total.Round(2), snap.Items), nil
}
