package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/config"
	"github.com/noah-isme/stc-api/internal/database"
	"github.com/noah-isme/stc-api/internal/repository"
	"github.com/noah-isme/stc-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("command", "audit").Logger()

	if err := run(os.Args[1:], logger); err != nil {
		logger.Error().Err(err).Msg("audit failed")
		os.Exit(1)
	}
}

func run(args []string, logger zerolog.Logger) error {
	flags := flag.NewFlagSet("audit", flag.ContinueOnError)
	driver := flags.String("store", "", "Store to audit: postgres or mongo. Defaults to STC_STORE_DRIVER.")
	publish := flags.Bool("publish", true, "Publish the summary to NATS when STC_NATS_URL is set.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *driver != "" {
		cfg.StoreDriver = *driver
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var publisher service.AuditPublisher
	if *publish && cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName+" audit")
		if err != nil {
			logger.Warn().Err(err).Msg("audit summary will not be published")
		} else {
			defer drain(conn)
			publisher = service.NewNATSAuditPublisher(conn, service.AuditSubject(cfg.EventPrefix))
		}
	}

	report, err := audit(ctx, cfg, openStore, publisher, os.Stdout, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Int("mentors", len(report.Mentors)).
		Int("submissions", report.SubmissionCount).
		Int("orphans", report.OrphanCount).
		Int("unresolvable", len(report.Unresolvable)).
		Msg("audit complete")
	return nil
}

// storeOpener connects the audit store and returns its release func.
type storeOpener func(ctx context.Context, cfg config.Config) (repository.AuditRepository, func(), error)

// audit runs one sweep. The store is released whether the sweep succeeds or not.
func audit(ctx context.Context, cfg config.Config, open storeOpener, publisher service.AuditPublisher, out io.Writer, logger zerolog.Logger) (service.AuditReport, error) {
	store, closeStore, err := open(ctx, cfg)
	if err != nil {
		return service.AuditReport{}, err
	}
	defer closeStore()

	return service.NewConsistencyAuditor(store, out, publisher, logger).Run(ctx)
}

func openStore(ctx context.Context, cfg config.Config) (repository.AuditRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, db, err := database.ConnectMongo(ctx, database.MongoConfig{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.MongoTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMongoAuditRepository(db), func() { _ = database.DisconnectMongo(client) }, nil
	case config.StoreDriverPostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewAuditRepository(db), func() { _ = database.ClosePostgres(db) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func drain(conn *nats.Conn) {
	if err := conn.Drain(); err != nil {
		conn.Close()
	}
}
