package flow

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"go-temporal-storefront/checkout/types"
	"go-temporal-storefront/checkout/workflows"
)

// TemporalSettler settles attempts by running CheckoutWorkflow and waiting
// for its result.
type TemporalSettler struct {
	Client    client.Client
	TaskQueue string
}

// Settle starts one workflow per attempt, keyed by the attempt id.
func (s *TemporalSettler) Settle(ctx context.Context, input types.CheckoutInput) (types.SettlementResult, error) {
	options := client.StartWorkflowOptions{
		ID:        "checkout-" + input.Request.AttemptID,
		TaskQueue: s.TaskQueue,
	}

	we, err := s.Client.ExecuteWorkflow(ctx, options, workflows.CheckoutWorkflow, input)
	if err != nil {
		return types.SettlementResult{}, fmt.Errorf("start checkout workflow: %w", err)
	}

	var result types.SettlementResult
	if err := we.Get(ctx, &result); err != nil {
		return types.SettlementResult{}, fmt.Errorf("checkout workflow %s: %w", we.GetID(), err)
	}
	return result, nil
}
