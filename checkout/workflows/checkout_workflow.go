package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"go-temporal-storefront/checkout/activities"
	"go-temporal-storefront/checkout/types"
)

// StatusQuery returns the CheckoutStatus of a running or finished workflow.
const StatusQuery = "get-status"

// MaxSettlementLatency bounds the simulated gateway delay.
const MaxSettlementLatency = 10 * time.Second

// CheckoutWorkflow runs the settling stage of one checkout attempt:
// - simulated gateway latency on a durable timer
// - approve/decline via the SettlePayment activity
// - non-critical receipt issuing after approval
// Validation happens before the workflow starts; the request it gets is
// already valid and carries no full card number.
func CheckoutWorkflow(ctx workflow.Context, input types.CheckoutInput) (types.SettlementResult, error) {
	logger := workflow.GetLogger(ctx)
	req := input.Request

	status := types.CheckoutStatus{
		AttemptID: req.AttemptID,
		Stage:     types.StageSettling,
		Amount:    req.Amount,
	}

	err := workflow.SetQueryHandler(ctx, StatusQuery, func() (types.CheckoutStatus, error) {
		return status, nil
	})
	if err != nil {
		return types.SettlementResult{}, err
	}

	if req.Amount.IsNegative() {
		status.Stage = types.StageDeclined
		status.LastError = "negative amount"
		return types.SettlementResult{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("attempt %s has negative amount %s", req.AttemptID, req.Amount), "ValidationError", nil)
	}

	retryPolicy := &temporal.RetryPolicy{
		InitialInterval:        1 * time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        10 * time.Second,
		MaximumAttempts:        3,
		NonRetryableErrorTypes: []string{"PermanentError", "ValidationError"},
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         retryPolicy,
	})

	// Settlement cannot be cancelled once started, so the delay always runs out.
	if latency := boundedLatency(input.Latency); latency > 0 {
		if err := workflow.Sleep(ctx, latency); err != nil {
			return types.SettlementResult{}, err
		}
	}

	var result types.SettlementResult
	err = workflow.ExecuteActivity(ctx, activities.SettlePaymentName, req).Get(ctx, &result)
	if err != nil {
		status.LastError = fmt.Sprintf("settlement failed: %v", err)
		logger.Error("Settlement failed", "attemptID", req.AttemptID, "error", err)
		return types.SettlementResult{}, err
	}
	status.Outcome = result.Outcome

	if !result.IsApproved() {
		status.Stage = types.StageDeclined
		logger.Info("Payment declined", "attemptID", req.AttemptID)
		return result, nil
	}
	status.Stage = types.StageApproved
	logger.Info("Payment approved", "attemptID", req.AttemptID, "transactionID", result.Approved.TransactionID)

	// Receipt (non-critical)
	err = workflow.ExecuteActivity(ctx, activities.IssueReceiptName, *result.Approved).Get(ctx, nil)
	if err != nil {
		status.LastError = fmt.Sprintf("receipt failed: %v", err)
		logger.Warn("Receipt issuing failed", "error", err)
	}

	return result, nil
}

func boundedLatency(d time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case d > MaxSettlementLatency:
		return MaxSettlementLatency
	}
	return d
}
