package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"go-temporal-storefront/checkout/flow"
	"go-temporal-storefront/checkout/logging"
	"go-temporal-storefront/checkout/types"
)

var (
	payForm   types.PaymentForm
	payWallet bool
)

var errNotCompleted = errors.New("payment not completed")

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Pay for the cart by card or from the wallet",
	Long: `Checks out the current cart.

Card payments are validated locally and settled by the checkout worker,
which must be running against the same Temporal server:
  storefront checkout --card "4532 0151 1283 0366" --holder "Ada Lovelace" --expiry 12/27 --cvv 123

Wallet payments debit the wallet balance directly:
  storefront checkout --wallet`,
	Annotations: map[string]string{authRequired: "true"},
	RunE:        runCheckout,
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&payForm.CardNumber, "card", "", "card number")
	f.StringVar(&payForm.CardHolder, "holder", "", "cardholder name")
	f.StringVar(&payForm.Expiry, "expiry", "", "expiry as MM/YY")
	f.StringVar(&payForm.CVV, "cvv", "", "card security code")
	f.StringVar(&payForm.BillingAddress.Street, "street", "", "billing street")
	f.StringVar(&payForm.BillingAddress.City, "city", "", "billing city")
	f.StringVar(&payForm.BillingAddress.State, "state", "", "billing state")
	f.StringVar(&payForm.BillingAddress.ZipCode, "zip", "", "billing zip code")
	f.StringVar(&payForm.BillingAddress.Country, "country", "", "billing country")
	f.BoolVar(&payWallet, "wallet", false, "pay from the wallet balance")
	checkoutCmd.MarkFlagsMutuallyExclusive("wallet", "card")

	rootCmd.AddCommand(checkoutCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := []flow.Option{
		flow.WithTaxRate(app.cfg.Tax()),
		flow.WithLatency(app.cfg.SettlementLatency),
		flow.WithWallet(app.wallet),
	}

	var (
		result types.SettlementResult
		err    error
	)
	if payWallet {
		result, err = flow.New(app.ledger, nil, app.logger, opts...).PayWithWallet(ctx)
	} else {
		c, dialErr := client.Dial(client.Options{
			HostPort: app.cfg.TemporalHost,
			Logger:   logging.NewTemporalLogger(app.logger),
		})
		if dialErr != nil {
			return fmt.Errorf("connect to temporal at %s: %w", app.cfg.TemporalHost, dialErr)
		}
		defer c.Close()

		settler := &flow.TemporalSettler{Client: c, TaskQueue: app.cfg.TaskQueue}
		fmt.Fprintf(cmd.OutOrStdout(), "Processing payment of %s...\n",
			app.money.format(app.ledger.GrandTotal(app.cfg.Tax()).Round(2)))
		result, err = flow.New(app.ledger, settler, app.logger, opts...).Submit(ctx, payForm)
	}
	if err != nil {
		app.logger.Error("Checkout failed", zap.Error(err))
		return err
	}

	app.money.result(cmd.OutOrStdout(), result)
	if !result.IsApproved() {
		return errNotCompleted
	}
	return nil
}
