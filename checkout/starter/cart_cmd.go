package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"go-temporal-storefront/checkout/cart"
)

var cartCmd = &cobra.Command{
	Use:         "cart",
	Short:       "Manage the shopping cart",
	Annotations: map[string]string{authRequired: "true"},
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id] [quantity]",
	Short: "Add a product to the cart (quantity defaults to 1)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  addToCart,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id]",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := app.ledger.RemoveItem(cmd.Context(), args[0])
		return err
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set [product-id] [quantity]",
	Short: "Set a line's quantity; 0 removes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		_, err = app.ledger.SetQuantity(cmd.Context(), args[0], qty)
		return err
	},
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cart lines and totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.money.cart(cmd.OutOrStdout(), app.ledger.Snapshot())
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ledger.Clear(cmd.Context())
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartSetCmd, cartShowCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func addToCart(cmd *cobra.Command, args []string) error {
	product, ok := app.catalog.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown product %q", args[0])
	}
	qty := 1
	if len(args) == 2 {
		var err error
		if qty, err = parseQuantity(args[1]); err != nil {
			return err
		}
	}
	_, err := app.ledger.AddItem(cmd.Context(), product.Ref(), qty)
	return err
}

func parseQuantity(s string) (int, error) {
	qty, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a whole number", s)
	}
	if qty > cart.MaxQuantity {
		return 0, fmt.Errorf("quantity %d exceeds the limit of %d per item", qty, cart.MaxQuantity)
	}
	return qty, nil
}
