package results

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/observability"
)

// FailureKind classifies why the primary fetch failed.
type FailureKind string

const (
	FailureAuthentication FailureKind = "authentication"
	FailureServer         FailureKind = "server"
	FailureNetwork        FailureKind = "network"
	FailureGeneric        FailureKind = "generic"
)

// User-facing failure messages.
const (
	MessageAuthentication = "Authentication failed. Please log in again."
	MessageServer         = "Server error. Please try again later or contact support."
	MessageNetwork        = "Network error. Please check your connection and try again."
	MessageGeneric        = "Failed to fetch results"
)

// StatusError is returned by a source when the server answered with an error status.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// NetworkError is returned by a source when the request produced no response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response received: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FetchFailure is the classified primary failure shown to the user.
type FetchFailure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *FetchFailure) Error() string {
	return f.Message
}

func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// Classify turns a source error into a user-facing failure.
func Classify(err error) *FetchFailure {
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	var networkErr *NetworkError
	switch {
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return &FetchFailure{Kind: FailureAuthentication, Message: MessageAuthentication, Err: err}
		case http.StatusInternalServerError:
			return &FetchFailure{Kind: FailureServer, Message: MessageServer, Err: err}
		default:
			detail := strings.TrimSpace(statusErr.Message)
			if detail == "" {
				detail = strings.TrimSpace(statusErr.Status)
			}
			if detail == "" {
				detail = http.StatusText(statusErr.StatusCode)
			}
			return &FetchFailure{Kind: FailureServer, Message: "Server error: " + detail, Err: err}
		}
	case errors.As(err, &networkErr):
		return &FetchFailure{Kind: FailureNetwork, Message: MessageNetwork, Err: err}
	default:
		return &FetchFailure{Kind: FailureGeneric, Message: MessageGeneric, Err: err}
	}
}

// Source yields submission records from the two mentor endpoints. A nil slice
// with a nil error means the response held no array.
type Source interface {
	Primary(ctx context.Context) ([]Record, error)
	Fallback(ctx context.Context) ([]Record, error)
}

// FetchOutcome is the result of one fetch pass.
type FetchOutcome struct {
	Records      []Record
	Failure      *FetchFailure
	UsedFallback bool
}

// Fetcher runs the primary request and, when it yields nothing usable, the fallback.
type Fetcher struct {
	source Source
	logger zerolog.Logger
}

// NewFetcher builds a fetcher over the given source.
func NewFetcher(source Source, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		logger: logger.With().Str("component", "results_fetcher").Logger(),
	}
}

// Fetch is strictly sequential: the fallback only runs after the primary has
// finished, and its errors never replace a primary failure.
func (f *Fetcher) Fetch(ctx context.Context) FetchOutcome {
	records, err := f.source.Primary(ctx)
	if err == nil && len(records) > 0 {
		observability.ResultsFetches().WithLabelValues("primary", "ok").Inc()
		return FetchOutcome{Records: records}
	}

	var failure *FetchFailure
	if err != nil {
		failure = Classify(err)
		f.logger.Warn().Err(err).Str("kind", string(failure.Kind)).Msg("primary submissions request failed")
		observability.ResultsFetches().WithLabelValues("primary", string(failure.Kind)).Inc()
	} else {
		f.logger.Debug().Msg("primary submissions request returned no records")
		observability.ResultsFetches().WithLabelValues("primary", "empty").Inc()
	}

	outcome := FetchOutcome{Records: []Record{}, Failure: failure, UsedFallback: true}

	fallback, fallbackErr := f.source.Fallback(ctx)
	if fallbackErr != nil {
		f.logger.Warn().Err(fallbackErr).Msg("fallback submissions request failed")
		observability.ResultsFetches().WithLabelValues("fallback", "error").Inc()
		return outcome
	}
	if fallback == nil {
		observability.ResultsFetches().WithLabelValues("fallback", "invalid").Inc()
		return outcome
	}

	observability.ResultsFetches().WithLabelValues("fallback", "ok").Inc()
	outcome.Records = fallback
	return outcome
}
