package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"go-temporal-storefront/checkout/activities"
	"go-temporal-storefront/checkout/config"
	"go-temporal-storefront/checkout/logging"
	"go-temporal-storefront/checkout/types"
	"go-temporal-storefront/checkout/workflows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("Unable to load config", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalln("Unable to create logger", err)
	}
	defer func() { _ = logger.Sync() }()

	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
		Logger:   logging.NewTemporalLogger(logger),
	})
	if err != nil {
		logger.Fatal("Unable to create Temporal client", zap.Error(err))
	}
	defer c.Close()

	identity := "checkout-worker-" + hostname()
	w := worker.New(c, cfg.TaskQueue, worker.Options{
		Identity:                               identity,
		MaxConcurrentActivityExecutionSize:     100,
		MaxConcurrentWorkflowTaskExecutionSize: 50,
	})

	w.RegisterWorkflow(workflows.CheckoutWorkflow)

	settlement := &activities.SettlementActivities{
		DeclineRate: cfg.DeclineRate,
		IDs:         &types.TransactionIDs{},
	}
	w.RegisterActivity(settlement.SettlePayment)

	receipts := &activities.ReceiptActivities{}
	w.RegisterActivity(receipts.IssueReceipt)

	logger.Info("Worker starting",
		zap.String("taskQueue", cfg.TaskQueue),
		zap.String("identity", identity),
		zap.Float64("declineRate", cfg.DeclineRate))

	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("Unable to start worker", zap.Error(err))
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
