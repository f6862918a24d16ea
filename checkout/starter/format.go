package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"go-temporal-storefront/checkout/cart"
	"go-temporal-storefront/checkout/catalog"
	"go-temporal-storefront/checkout/types"
	"go-temporal-storefront/checkout/wallet"
)

// moneyPrinter renders amounts in US dollars with English digit grouping.
type moneyPrinter struct {
	p *message.Printer
}

func newMoneyPrinter() *moneyPrinter {
	return &moneyPrinter{p: message.NewPrinter(language.English)}
}

// format prints d rounded to cents. Digit grouping applies to whole parts
// that fit in an int64; larger ones print ungrouped but exact.
func (m *moneyPrinter) format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = m.p.Sprintf("%d", n)
	}
	return sign + "$" + whole + "." + cents
}

func (m *moneyPrinter) badge(s cart.Snapshot) string {
	return m.p.Sprintf("Cart: %d item(s), total %s", s.ItemCount, m.format(s.Total))
}

func (m *moneyPrinter) products(w io.Writer, products []catalog.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products match.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(w, "%-3s %s %-28s %-12s %10s  %.1f (%d reviews)\n",
			p.ID, p.Icon, p.Name, p.Category, m.format(p.Price), p.Rating, p.Reviews)
	}
}

func (m *moneyPrinter) cart(w io.Writer, s cart.Snapshot) {
	if len(s.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	for _, item := range s.Items {
		fmt.Fprintf(w, "%-3s %-28s %3d x %10s = %10s\n",
			item.ID, item.Name, item.Quantity, m.format(item.UnitPrice), m.format(item.Total()))
	}
	fmt.Fprintf(w, "%-48s %10s\n", "Subtotal", m.format(s.Subtotal))
	fmt.Fprintf(w, "%-48s %10s\n", "Tax", m.format(s.Tax))
	fmt.Fprintf(w, "%-48s %10s\n", "Total", m.format(s.Total))
}

func (m *moneyPrinter) wallet(w io.Writer, balance decimal.Decimal, txs []wallet.Transaction) {
	fmt.Fprintf(w, "Balance: %s\n", m.format(balance))
	for _, tx := range txs {
		amount := m.format(tx.Amount)
		if tx.Type == wallet.Debit {
			amount = "-" + amount
		}
		fmt.Fprintf(w, "%s  %-24s %11s\n", tx.Date.Local().Format("2006-01-02 15:04"), tx.Description, amount)
	}
}

func (m *moneyPrinter) result(w io.Writer, r types.SettlementResult) {
	if r.IsApproved() {
		a := r.Approved
		card := a.CardBrand
		if a.LastFour != "" {
			card += " ending in " + a.LastFour
		}
		fmt.Fprintln(w, "Payment approved")
		fmt.Fprintf(w, "  Transaction: %s\n", a.TransactionID)
		fmt.Fprintf(w, "  Amount:      %s\n", m.format(a.Amount))
		fmt.Fprintf(w, "  Paid with:   %s\n", card)
		fmt.Fprintf(w, "  Date:        %s\n", a.Timestamp.Local().Format("2006-01-02 15:04:05"))
		return
	}
	fmt.Fprintln(w, "Payment not completed:")
	fmt.Fprintln(w, "  "+strings.Join(r.Reasons(), "\n  "))
}
