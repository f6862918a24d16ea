// Command storefront is the shopper-facing CLI: browse the catalog, manage
// the cart and wallet, and check out through the Temporal checkout worker.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-temporal-storefront/checkout/account"
	"go-temporal-storefront/checkout/cart"
	"go-temporal-storefront/checkout/catalog"
	"go-temporal-storefront/checkout/config"
	"go-temporal-storefront/checkout/logging"
	"go-temporal-storefront/checkout/storage"
	"go-temporal-storefront/checkout/wallet"
)

// authRequired marks commands that need a signed-in user.
const authRequired = "auth"

// session is everything a command may touch, opened once per invocation.
type session struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *storage.SQLite
	catalog  *catalog.Catalog
	ledger   *cart.Ledger
	wallet   *wallet.Wallet
	sessions *account.Sessions
	money    *moneyPrinter
}

func (s *session) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

var app *session

var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Demo storefront: catalog, cart, wallet and checkout",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		app = s
		if requiresAuth(cmd) {
			if _, err := app.sessions.Current(cmd.Context()); err != nil {
				return fmt.Errorf("%w: run 'storefront login' first", err)
			}
		}
		return nil
	},
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	products, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	money := newMoneyPrinter()
	out := cmd.OutOrStdout()
	badge := cart.ObserverFunc(func(s cart.Snapshot) {
		fmt.Fprintln(out, money.badge(s))
	})

	return &session{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		catalog:  products,
		ledger:   cart.Open(ctx, store, logger, cart.WithObserver(badge), cart.WithTaxRate(cfg.Tax())),
		wallet:   wallet.Open(ctx, store, logger),
		sessions: account.NewSessions(store, logger),
		money:    money,
	}, nil
}

func requiresAuth(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[authRequired]; ok {
			return true
		}
	}
	return false
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if app != nil {
		app.close()
	}
	if err != nil {
		os.Exit(1)
	}
}
