package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:         "wallet",
	Short:       "Manage the wallet balance",
	Annotations: map[string]string{authRequired: "true"},
}

var walletShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show balance and transaction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.money.wallet(cmd.OutOrStdout(), app.wallet.Balance(), app.wallet.Transactions())
		return nil
	},
}

var walletAddCmd = &cobra.Command{
	Use:   "add [amount]",
	Short: "Add funds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		if _, err := app.wallet.AddFunds(cmd.Context(), amount); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s. Balance: %s\n",
			app.money.format(amount), app.money.format(app.wallet.Balance()))
		return nil
	},
}

var walletWithdrawCmd = &cobra.Command{
	Use:   "withdraw [amount]",
	Short: "Withdraw funds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		if _, err := app.wallet.Withdraw(cmd.Context(), amount); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Withdrew %s. Balance: %s\n",
			app.money.format(amount), app.money.format(app.wallet.Balance()))
		return nil
	},
}

func init() {
	walletCmd.AddCommand(walletShowCmd, walletAddCmd, walletWithdrawCmd)
	rootCmd.AddCommand(walletCmd)
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q is not a number", s)
	}
	return amount, nil
}
