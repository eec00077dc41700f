package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/config"
	"github.com/noah-isme/stc-api/internal/results"
	"github.com/noah-isme/stc-api/pkg/stcclient"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("command", "results").Logger()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("results failed")
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := flag.NewFlagSet("results", flag.ContinueOnError)
	search := flags.String("search", "", "Only show results whose student or test name contains this text.")
	id := flags.String("id", "", "Show the detail of a single submission.")
	baseURL := flags.String("base-url", cfg.APIBaseURL, "Base URL of the STC API.")
	token := flags.String("token", "", "Bearer token of the signed-in mentor. Defaults to STC_API_TOKEN.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		*token = cfg.APIToken
	}

	session := stcclient.SessionFromToken(*token)
	if identity := session.Identity(); identity.Name != "" {
		fmt.Fprintf(out, "Signed in as %s (%s)\n\n", identity.Name, identity.Email)
	}

	client, err := stcclient.New(stcclient.Config{
		BaseURL: *baseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	}, session)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome := results.NewFetcher(client, logger).Fetch(ctx)
	if outcome.Failure != nil {
		fmt.Fprintf(out, "Error: %s\n\n", outcome.Failure.Message)
		if stcclient.IsUnauthorized(outcome.Failure) {
			session.Clear()
			logger.Warn().Msg("token rejected by the API, session cleared")
		}
	}

	all := results.Normalize(outcome.Records, time.Now())

	if *id != "" {
		result, ok := results.Find(all, *id)
		if !ok {
			return fmt.Errorf("result %s not found", *id)
		}
		renderDetail(out, result)
		return nil
	}

	renderGroups(out, results.GroupByTest(results.Filter(all, *search)), *search)
	return nil
}
