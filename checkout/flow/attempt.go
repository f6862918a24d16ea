package flow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"go-temporal-storefront/checkout/types"
)

var transitions = map[types.Stage][]types.Stage{
	types.StageCollecting: {types.StageValidating},
	types.StageValidating: {types.StageSettling, types.StageDeclined},
	types.StageSettling:   {types.StageApproved, types.StageDeclined},
}

// attempt is one pass through the checkout state machine. Amount and Lines
// are fixed when the attempt is created.
type attempt struct {
	ID     string
	Amount decimal.Decimal
	Lines  []types.LineItem
	Stage  types.Stage
}

func newAttempt(id string, amount decimal.Decimal, lines []types.LineItem) *attempt {
	return &attempt{ID: id, Amount: amount, Lines: lines, Stage: types.StageCollecting}
}

func (a *attempt) canAdvance(to types.Stage) bool {
	for _, next := range transitions[a.Stage] {
		if next == to {
			return true
		}
	}
	return false
}

// advance panics on an illegal transition; callers only follow the fixed path.
func (a *attempt) advance(to types.Stage) {
	if !a.canAdvance(to) {
		panic(fmt.Sprintf("checkout attempt %s: illegal transition %s -> %s", a.ID, a.Stage, to))
	}
	a.Stage = to
}

// finish moves to the terminal stage matching result and returns it.
func (a *attempt) finish(result types.SettlementResult) types.SettlementResult {
	if result.IsApproved() {
		a.advance(types.StageApproved)
	} else {
		a.advance(types.StageDeclined)
	}
	return result
}
