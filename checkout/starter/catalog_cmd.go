package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go-temporal-storefront/checkout/catalog"
)

var (
	filterCategory string
	filterSearch   string
	filterSort     string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse products",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, optionally filtered and sorted",
	Long: `Lists catalog products.

Examples:
  storefront catalog list --category Laptops
  storefront catalog list --search wireless --sort price-low`,
	RunE: listProducts,
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(app.catalog.Categories(), "\n"))
		return nil
	},
}

func init() {
	catalogListCmd.Flags().StringVar(&filterCategory, "category", catalog.AllCategories, "category to show")
	catalogListCmd.Flags().StringVar(&filterSearch, "search", "", "match name, category or description")
	catalogListCmd.Flags().StringVar(&filterSort, "sort", catalog.SortDefault,
		"order: default, price-low, price-high, rating")

	catalogCmd.AddCommand(catalogListCmd, catalogCategoriesCmd)
	rootCmd.AddCommand(catalogCmd)
}

func listProducts(cmd *cobra.Command, args []string) error {
	products := app.catalog.List(catalog.Filter{
		Category: filterCategory,
		Search:   filterSearch,
		Sort:     filterSort,
	})
	app.money.products(cmd.OutOrStdout(), products)
	return nil
}
