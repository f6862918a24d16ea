package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem represents a product in the cart. UnitPrice is frozen at add time.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"imageRef,omitempty"`
}

// Total returns unit price times quantity for the line.
func (i LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductRef is what the cart needs from a product when adding it.
type ProductRef struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageRef string
}

// BillingAddress is collected with the payment form but never validated.
type BillingAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// PaymentForm is the transient input of one checkout attempt
type PaymentForm struct {
	CardNumber     string
	CardHolder     string
	Expiry         string // MM/YY
	CVV            string
	BillingAddress BillingAddress
}

// Stage is a step of the checkout state machine
type Stage string

const (
	StageCollecting Stage = "collecting"
	StageValidating Stage = "validating"
	StageSettling   Stage = "settling"
	StageApproved   Stage = "approved"
	StageDeclined   Stage = "declined"
)

// Terminal reports whether no further transition is allowed.
func (s Stage) Terminal() bool {
	return s == StageApproved || s == StageDeclined
}

// Outcome tags a SettlementResult
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDeclined Outcome = "declined"
)

// DeclineKind separates user-correctable input errors from a settlement decline.
type DeclineKind string

const (
	DeclineValidation DeclineKind = "validation"
	DeclineSettlement DeclineKind = "decline"
)

// DeclineReason is the single user-facing reason of a settlement decline.
const DeclineReason = "Payment declined. Please try another card."

// Approval is the receipt of an approved settlement
type Approval struct {
	TransactionID string
	Amount        decimal.Decimal
	CardBrand     string
	LastFour      string
	Timestamp     time.Time
}

// Decline carries the ordered reasons of a declined attempt
type Decline struct {
	Kind    DeclineKind
	Reasons []string
}

// SettlementResult is either Approved or Declined, never both.
type SettlementResult struct {
	Outcome  Outcome
	Approved *Approval `json:",omitempty"`
	Declined *Decline  `json:",omitempty"`
}

// Approved builds an approved result.
func Approved(a Approval) SettlementResult {
	return SettlementResult{Outcome: OutcomeApproved, Approved: &a}
}

// Declined builds a declined result with the given reasons in order.
func Declined(kind DeclineKind, reasons ...string) SettlementResult {
	return SettlementResult{
		Outcome:  OutcomeDeclined,
		Declined: &Decline{Kind: kind, Reasons: append([]string(nil), reasons...)},
	}
}

func (r SettlementResult) IsApproved() bool {
	return r.Outcome == OutcomeApproved && r.Approved != nil
}

// Reasons returns the decline reasons, or nil for an approval.
func (r SettlementResult) Reasons() []string {
	if r.Declined == nil {
		return nil
	}
	return r.Declined.Reasons
}

// SettlementRequest is the part of a checkout attempt that crosses into the
// settlement workflow. It never carries the full card number.
type SettlementRequest struct {
	AttemptID  string
	Amount     decimal.Decimal
	CardBrand  string
	LastFour   string
	CardHolder string
}

// CheckoutInput is the CheckoutWorkflow argument
type CheckoutInput struct {
	Request SettlementRequest
	Latency time.Duration
}

// CheckoutStatus represents the current state of a checkout workflow
type CheckoutStatus struct {
	AttemptID string
	Stage     Stage
	Amount    decimal.Decimal
	Outcome   Outcome
	LastError string
}
