package activities

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.temporal.io/sdk/activity"

	"go-temporal-storefront/checkout/types"
)

// Activity names used by CheckoutWorkflow
const (
	SettlePaymentName = "SettlePayment"
	IssueReceiptName  = "IssueReceipt"
)

// DefaultDeclineRate is the demo decline probability.
const DefaultDeclineRate = 0.10

var transactionIDs types.TransactionIDs

// SettlementActivities stands in for a payment gateway. Rand and Now are
// seams for tests; nil means math/rand and time.Now.
type SettlementActivities struct {
	DeclineRate float64
	Rand        func() float64
	Now         func() time.Time
	IDs         *types.TransactionIDs
}

// SettlePayment approves or declines a settlement request at random,
// independent of its content.
func (a *SettlementActivities) SettlePayment(ctx context.Context, req types.SettlementRequest) (types.SettlementResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Settling payment", "attemptID", req.AttemptID, "amount", req.Amount.StringFixed(2), "brand", req.CardBrand)

	if req.Amount.IsNegative() {
		return types.SettlementResult{}, &types.PermanentError{Msg: fmt.Sprintf("negative amount %s", req.Amount)}
	}
	if len(req.LastFour) != 4 {
		return types.SettlementResult{}, &types.PermanentError{Msg: "card reference must be the last four digits"}
	}
	if err := ctx.Err(); err != nil {
		return types.SettlementResult{}, err
	}

	if a.random() < a.DeclineRate {
		logger.Warn("Card declined", "attemptID", req.AttemptID)
		return types.Declined(types.DeclineSettlement, types.DeclineReason), nil
	}

	now := a.now()
	ids := a.IDs
	if ids == nil {
		ids = &transactionIDs
	}
	approval := types.Approval{
		TransactionID: ids.Next(now),
		Amount:        req.Amount,
		CardBrand:     req.CardBrand,
		LastFour:      req.LastFour,
		Timestamp:     now.UTC(),
	}

	logger.Info("Payment approved", "attemptID", req.AttemptID, "transactionID", approval.TransactionID)
	return types.Approved(approval), nil
}

func (a *SettlementActivities) random() float64 {
	if a.Rand != nil {
		return a.Rand()
	}
	return rand.Float64()
}

func (a *SettlementActivities) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// ReceiptActivities records issued receipts
type ReceiptActivities struct{}

// IssueReceipt logs an approved settlement's receipt. It never sees the card number.
func (a *ReceiptActivities) IssueReceipt(ctx context.Context, receipt types.Approval) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Issuing receipt",
		"transactionID", receipt.TransactionID,
		"amount", receipt.Amount.StringFixed(2),
		"card", fmt.Sprintf("%s ending in %s", receipt.CardBrand, receipt.LastFour),
		"timestamp", receipt.Timestamp.Format(time.RFC3339))
	return nil
}
