package workflows

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"go-temporal-storefront/checkout/activities"
	"go-temporal-storefront/checkout/types"
)

type CheckoutWorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env      *testsuite.TestWorkflowEnvironment
	receipts *activities.ReceiptActivities
}

func TestCheckoutWorkflowSuite(t *testing.T) {
	suite.Run(t, new(CheckoutWorkflowSuite))
}

func (s *CheckoutWorkflowSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.receipts = &activities.ReceiptActivities{}
	s.env.RegisterActivity(s.receipts)
}

func (s *CheckoutWorkflowSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *CheckoutWorkflowSuite) registerSettlement(roll float64) {
	s.env.RegisterActivity(&activities.SettlementActivities{
		DeclineRate: activities.DefaultDeclineRate,
		Rand:        func() float64 { return roll },
		Now:         func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC) },
		IDs:         &types.TransactionIDs{},
	})
}

func input(latency time.Duration) types.CheckoutInput {
	return types.CheckoutInput{
		Request: types.SettlementRequest{
			AttemptID:  "attempt-1",
			Amount:     decimal.RequireFromString("2698.92"),
			CardBrand:  "Visa",
			LastFour:   "0366",
			CardHolder: "Ada Lovelace",
		},
		Latency: latency,
	}
}

func (s *CheckoutWorkflowSuite) status() types.CheckoutStatus {
	val, err := s.env.QueryWorkflow(StatusQuery)
	s.Require().NoError(err)
	var st types.CheckoutStatus
	s.Require().NoError(val.Get(&st))
	return st
}

func (s *CheckoutWorkflowSuite) Test_Approved() {
	s.registerSettlement(0.5)
	var timers []time.Duration
	s.env.SetOnTimerScheduledListener(func(timerID string, d time.Duration) {
		timers = append(timers, d)
	})

	s.env.ExecuteWorkflow(CheckoutWorkflow, input(2*time.Second))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result types.SettlementResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Require().True(result.IsApproved())
	s.Equal("TXN1718452800000", result.Approved.TransactionID)
	s.Equal("0366", result.Approved.LastFour)
	s.True(decimal.RequireFromString("2698.92").Equal(result.Approved.Amount))

	s.Equal([]time.Duration{2 * time.Second}, timers)
	st := s.status()
	s.Equal(types.StageApproved, st.Stage)
	s.Equal(types.OutcomeApproved, st.Outcome)
}

func (s *CheckoutWorkflowSuite) Test_Declined() {
	s.registerSettlement(0.01)

	s.env.ExecuteWorkflow(CheckoutWorkflow, input(0))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result types.SettlementResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.False(result.IsApproved())
	s.Equal([]string{types.DeclineReason}, result.Reasons())
	s.Equal(types.StageDeclined, s.status().Stage)
}

func (s *CheckoutWorkflowSuite) Test_LatencyIsBounded() {
	s.registerSettlement(0.5)
	var timers []time.Duration
	s.env.SetOnTimerScheduledListener(func(timerID string, d time.Duration) {
		timers = append(timers, d)
	})

	s.env.ExecuteWorkflow(CheckoutWorkflow, input(time.Hour))

	s.NoError(s.env.GetWorkflowError())
	s.Equal([]time.Duration{MaxSettlementLatency}, timers)
}

func (s *CheckoutWorkflowSuite) Test_ReceiptFailureIsNonCritical() {
	s.registerSettlement(0.5)
	s.env.OnActivity(s.receipts.IssueReceipt, mock.Anything, mock.Anything).
		Return(errors.New("receipt printer offline"))

	s.env.ExecuteWorkflow(CheckoutWorkflow, input(0))

	s.NoError(s.env.GetWorkflowError())
	var result types.SettlementResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.True(result.IsApproved())

	st := s.status()
	s.Equal(types.StageApproved, st.Stage)
	s.Contains(st.LastError, "receipt failed")
}

func (s *CheckoutWorkflowSuite) Test_SettlementFaultFailsWorkflow() {
	s.registerSettlement(0.5)
	in := input(0)
	in.Request.LastFour = ""

	s.env.ExecuteWorkflow(CheckoutWorkflow, in)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func (s *CheckoutWorkflowSuite) Test_NegativeAmountRejected() {
	s.registerSettlement(0.5)
	in := input(0)
	in.Request.Amount = decimal.NewFromInt(-1)

	s.env.ExecuteWorkflow(CheckoutWorkflow, in)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func TestBoundedLatency(t *testing.T) {
	require.Equal(t, time.Duration(0), boundedLatency(-time.Second))
	require.Equal(t, 3*time.Second, boundedLatency(3*time.Second))
	require.Equal(t, MaxSettlementLatency, boundedLatency(time.Minute))
}
