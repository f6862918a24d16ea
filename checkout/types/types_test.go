package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemTotal(t *testing.T) {
	item := LineItem{ID: "5", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 3}
	assert.True(t, decimal.RequireFromString("59.97").Equal(item.Total()))
}

func TestSettlementResult_Tags(t *testing.T) {
	ok := Approved(Approval{TransactionID: "TXN1", LastFour: "0366"})
	assert.True(t, ok.IsApproved())
	assert.Nil(t, ok.Reasons())

	no := Declined(DeclineValidation, "Invalid card number", "Invalid CVV")
	assert.False(t, no.IsApproved())
	require.NotNil(t, no.Declined)
	assert.Equal(t, DeclineValidation, no.Declined.Kind)
	assert.Equal(t, []string{"Invalid card number", "Invalid CVV"}, no.Reasons())
}

func TestStageTerminal(t *testing.T) {
	assert.True(t, StageApproved.Terminal())
	assert.True(t, StageDeclined.Terminal())
	assert.False(t, StageCollecting.Terminal())
	assert.False(t, StageSettling.Terminal())
}

func TestTransactionIDs_StrictlyIncreasing(t *testing.T) {
	var ids TransactionIDs
	now := time.UnixMilli(1_700_000_000_000)

	first := ids.Next(now)
	second := ids.Next(now)
	third := ids.Next(now.Add(-time.Second))

	assert.Equal(t, "TXN1700000000000", first)
	assert.Equal(t, "TXN1700000000001", second)
	assert.Equal(t, "TXN1700000000002", third)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Reasons: []string{"Invalid card number", "Invalid CVV"}}
	assert.Equal(t, "Invalid card number; Invalid CVV", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
