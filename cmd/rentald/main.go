// Command rentald serves the rental engine over HTTP and runs the hold sweep.
//
// Configuration comes from RENTAL_* environment variables, see package config.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/onelib/rentalengine/rental/features/command/changerentalstatus"
	"github.com/onelib/rentalengine/rental/features/command/checkout"
	"github.com/onelib/rentalengine/rental/features/command/expireholds"
	"github.com/onelib/rentalengine/rental/features/command/importtitles"
	"github.com/onelib/rentalengine/rental/features/command/renewrental"
	"github.com/onelib/rentalengine/rental/features/query/overduerentals"
	"github.com/onelib/rentalengine/rental/features/query/rentaldetails"
	"github.com/onelib/rentalengine/rental/features/query/tenantqueue"
	"github.com/onelib/rentalengine/rental/features/query/userrentals"
	"github.com/onelib/rentalengine/rental/shared/shell"
	"github.com/onelib/rentalengine/rental/shared/shell/catalog"
	"github.com/onelib/rentalengine/rental/shared/shell/config"
	"github.com/onelib/rentalengine/rental/shared/shell/httpapi"
	"github.com/onelib/rentalengine/rental/shared/shell/inventory"
	"github.com/onelib/rentalengine/rental/shared/shell/metrics"
	"github.com/onelib/rentalengine/rental/shared/shell/notify"
	"github.com/onelib/rentalengine/rental/shared/shell/points"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("rentald stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	eventStore, closeStore, err := openEventStore(ctx, cfg, logger, collector)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger := inventory.NewLedger()
	books := catalog.New(ledger)
	inbox := notify.NewInbox()
	wallet := points.NewWallet()

	outbound := []shell.NotificationSink{notify.NewSlogSink(logger)}
	if cfg.RedisURL != "" {
		client, err := notify.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		outbound = append(outbound, notify.NewRedisSink(client, cfg.NotifyQueue, logger))
	}

	fanout := notify.NewFanout(outbound, notify.WithLogger(logger))
	defer fanout.Close()

	notifications := notify.Sinks{inbox, fanout}

	changeStatus := changerentalstatus.NewCommandHandler(
		eventStore, ledger, notifications,
		changerentalstatus.WithLogger(logger), changerentalstatus.WithMetrics(collector),
	)
	importer := importtitles.NewImporter(books, ledger, importtitles.WithLogger(logger), importtitles.WithMetrics(collector))
	sweeper := expireholds.NewSweeper(
		eventStore, changeStatus,
		expireholds.WithLogger(logger), expireholds.WithMetrics(collector),
	)
	queryOptions := []shell.QueryOption{shell.WithQueryLogger(logger), shell.WithQueryMetrics(collector)}

	if cfg.SeedCSV != "" {
		if err := seedCatalog(ctx, importer, cfg.SeedCSV, cfg.SeedTenant, logger); err != nil {
			return err
		}
	}

	server := httpapi.NewServer(
		httpapi.Dependencies{
			Checkout: checkout.NewCommandHandler(
				eventStore, books, ledger, notifications,
				checkout.WithLogger(logger), checkout.WithMetrics(collector),
			),
			ChangeStatus:  changeStatus,
			Renew:         renewrental.NewCommandHandler(eventStore, renewrental.WithLogger(logger), renewrental.WithMetrics(collector)),
			RentalDetails: rentaldetails.NewQueryHandler(eventStore, queryOptions...),
			UserRentals:   userrentals.NewQueryHandler(eventStore, queryOptions...),
			TenantQueue:   tenantqueue.NewQueryHandler(eventStore, queryOptions...),
			Overdue:       overduerentals.NewQueryHandler(eventStore, queryOptions...),
			Importer:      importer,
			Sweeper:       sweeper,
			Catalog:       books,
			Inbox:         inbox,
			Wallet:        wallet,
		},
		httpapi.WithLogger(logger),
		httpapi.WithCheckoutRate(cfg.CheckoutPerMin),
		httpapi.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	)

	runner := expireholds.NewRunner(sweeper, cfg.SweepInterval, time.Now, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("rentald listening", "addr", cfg.HTTPAddr, "eventstore", cfg.EventStore)
		return server.Start(cfg.HTTPAddr)
	})

	g.Go(func() error {
		return runner.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("rentald stopped")

	return nil
}

func seedCatalog(
	ctx context.Context,
	importer importtitles.Importer,
	path string,
	tenant string,
	logger *slog.Logger,
) error {

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed CSV: %w", err)
	}
	defer func() { _ = file.Close() }()

	report, err := importer.Import(ctx, tenant, file)
	if err != nil {
		return fmt.Errorf("failed to seed catalog from %s: %w", path, err)
	}

	logger.Info("catalog seeded", "path", path, "tenant", tenant, "imported", report.Imported(), "rejected", len(report.Rejected))

	return nil
}
