// Package cart implements the cart ledger: the ordered line items of the
// current cart, their derived totals, and their persisted form.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-temporal-storefront/checkout/storage"
	"go-temporal-storefront/checkout/types"
)

// DefaultTaxRate is the 8% demo rate.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// MaxQuantity caps a single line; larger requests saturate at it.
const MaxQuantity = 9999

// Snapshot is a read-only view of the cart handed to observers.
type Snapshot struct {
	Items     []types.LineItem
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// Observer is notified after every mutation.
type Observer interface {
	CartChanged(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) CartChanged(s Snapshot) { f(s) }

// Option configures a Ledger.
type Option func(*Ledger)

// WithObserver sets the observer notified after every mutation.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

// WithTaxRate sets the rate used for snapshots.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(l *Ledger) { l.taxRate = rate }
}

// Ledger owns the cart line items. It is the only writer of storage.KeyCart.
type Ledger struct {
	store    storage.Store
	logger   *zap.Logger
	observer Observer
	taxRate  decimal.Decimal

	mu    sync.Mutex
	items []types.LineItem
}

// New returns an empty ledger. Use Open to restore a persisted cart.
func New(store storage.Store, logger *zap.Logger, opts ...Option) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Ledger{
		store:   store,
		logger:  logger,
		taxRate: DefaultTaxRate,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open returns a ledger restored from store (empty when nothing usable is stored).
func Open(ctx context.Context, store storage.Store, logger *zap.Logger, opts ...Option) *Ledger {
	l := New(store, logger, opts...)
	l.Restore(ctx)
	return l
}

// AddItem adds qty of product, or increments the existing line with the same id.
// A qty below 1 counts as 1 and quantities saturate at MaxQuantity. The unit
// price is taken from product now and never re-read. A product without an id
// or with a negative price is ignored.
func (l *Ledger) AddItem(ctx context.Context, product types.ProductRef, qty int) ([]types.LineItem, error) {
	if product.ID == "" || product.Price.IsNegative() {
		l.logger.Warn("Ignoring invalid product",
			zap.String("id", product.ID), zap.String("price", product.Price.String()))
		return l.Items(), nil
	}
	qty = clampQuantity(qty)
	return l.mutate(ctx, func(items []types.LineItem) []types.LineItem {
		if i := indexOf(items, product.ID); i >= 0 {
			items[i].Quantity = addQuantity(items[i].Quantity, qty)
			return items
		}
		return append(items, types.LineItem{
			ID:        product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
			ImageRef:  product.ImageRef,
		})
	})
}

// RemoveItem drops the line with id. Removing an absent id is a no-op.
func (l *Ledger) RemoveItem(ctx context.Context, id string) ([]types.LineItem, error) {
	return l.mutate(ctx, func(items []types.LineItem) []types.LineItem {
		return removeID(items, id)
	})
}

// SetQuantity overwrites the quantity of id; qty <= 0 removes the line and
// qty above MaxQuantity stores MaxQuantity.
func (l *Ledger) SetQuantity(ctx context.Context, id string, qty int) ([]types.LineItem, error) {
	return l.mutate(ctx, func(items []types.LineItem) []types.LineItem {
		if qty <= 0 {
			return removeID(items, id)
		}
		if i := indexOf(items, id); i >= 0 {
			items[i].Quantity = clampQuantity(qty)
		}
		return items
	})
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) error {
	_, err := l.mutate(ctx, func([]types.LineItem) []types.LineItem { return nil })
	return err
}

// Deduct removes paid lines: each line's quantity comes off the matching
// cart line, and lines that reach zero are dropped. Lines added after paid
// was taken stay in the cart.
func (l *Ledger) Deduct(ctx context.Context, paid []types.LineItem) error {
	_, err := l.mutate(ctx, func(items []types.LineItem) []types.LineItem {
		for _, p := range paid {
			i := indexOf(items, p.ID)
			if i < 0 {
				continue
			}
			if items[i].Quantity <= p.Quantity {
				items = removeID(items, p.ID)
				continue
			}
			items[i].Quantity -= p.Quantity
		}
		return items
	})
	return err
}

// Items returns a copy of the line items in display order.
func (l *Ledger) Items() []types.LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneItems(l.items)
}

// Subtotal is the sum of unit price times quantity, recomputed every call.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return subtotal(l.items)
}

// Tax returns Subtotal times rate.
func (l *Ledger) Tax(rate decimal.Decimal) decimal.Decimal {
	return l.Subtotal().Mul(rate)
}

// GrandTotal returns Subtotal plus Tax(rate).
func (l *Ledger) GrandTotal(rate decimal.Decimal) decimal.Decimal {
	s := l.Subtotal()
	return s.Add(s.Mul(rate))
}

// TotalItemCount is the sum of quantities, not the number of lines.
func (l *Ledger) TotalItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return itemCount(l.items)
}

// Len is the number of distinct lines.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Snapshot returns the items and totals at the ledger's tax rate.
func (l *Ledger) Snapshot() Snapshot {
	return l.SnapshotAt(l.taxRate)
}

// SnapshotAt returns the items and totals at rate, read under one lock so the
// total always matches the items.
func (l *Ledger) SnapshotAt(rate decimal.Decimal) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshotOf(l.items, rate)
}

// Persist writes the current items to storage.
func (l *Ledger) Persist(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persistLocked(ctx)
}

// Restore replaces the in-memory items with what is stored. Absent or
// malformed data leaves an empty cart; read failures are logged, never returned.
func (l *Ledger) Restore(ctx context.Context) {
	items := l.load(ctx)
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
}

func (l *Ledger) load(ctx context.Context) []types.LineItem {
	raw, ok, err := l.store.Get(ctx, storage.KeyCart)
	if err != nil {
		l.logger.Warn("Failed to read stored cart", zap.Error(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var stored []types.LineItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		l.logger.Warn("Discarding malformed stored cart", zap.Error(err))
		return nil
	}

	items := make([]types.LineItem, 0, len(stored))
	for _, item := range stored {
		if !validLine(item) {
			l.logger.Warn("Dropping invalid stored line item",
				zap.String("id", item.ID), zap.Int("quantity", item.Quantity))
			continue
		}
		if indexOf(items, item.ID) >= 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (l *Ledger) mutate(ctx context.Context, fn func([]types.LineItem) []types.LineItem) ([]types.LineItem, error) {
	l.mu.Lock()
	l.items = fn(l.items)
	err := l.persistLocked(ctx)
	items := cloneItems(l.items)
	snap := snapshotOf(l.items, l.taxRate)
	l.mu.Unlock()

	if l.observer != nil {
		l.observer.CartChanged(snap)
	}
	return items, err
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	items := l.items
	if items == nil {
		items = []types.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := l.store.Set(ctx, storage.KeyCart, string(data)); err != nil {
		l.logger.Error("Failed to persist cart", zap.Error(err))
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func snapshotOf(items []types.LineItem, rate decimal.Decimal) Snapshot {
	sub := subtotal(items)
	tax := sub.Mul(rate)
	return Snapshot{
		Items:     cloneItems(items),
		Subtotal:  sub,
		Tax:       tax,
		Total:     sub.Add(tax),
		ItemCount: itemCount(items),
	}
}

// validLine is the invariant every retained line satisfies.
func validLine(item types.LineItem) bool {
	return item.ID != "" &&
		item.Quantity >= 1 && item.Quantity <= MaxQuantity &&
		!item.UnitPrice.IsNegative()
}

func clampQuantity(qty int) int {
	switch {
	case qty < 1:
		return 1
	case qty > MaxQuantity:
		return MaxQuantity
	}
	return qty
}

// addQuantity sums two clamped quantities, saturating at MaxQuantity.
func addQuantity(have, more int) int {
	if more > MaxQuantity-have {
		return MaxQuantity
	}
	return have + more
}

func subtotal(items []types.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	return sum
}

func itemCount(items []types.LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func indexOf(items []types.LineItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func removeID(items []types.LineItem, id string) []types.LineItem {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func cloneItems(items []types.LineItem) []types.LineItem {
	if len(items) == 0 {
		return []types.LineItem{}
	}
	return append([]types.LineItem(nil), items...)
}
