// Package stcclient talks to a deployed STC API on behalf of a mentor.
package stcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/results"
)

// Endpoint paths of the mentor submission sources.
const (
	MentorSubmissionsPath = "/api/v1/submissions/mentor"
	AllForMentorPath      = "/api/v1/submissions/all-for-mentor"
	defaultRequestTimeout = 15 * time.Second
	maxErrorBodyBytes     = 64 << 10
)

// Config configures the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client fetches submission records over HTTP. It implements results.Source.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  zerolog.Logger
}

var _ results.Source = (*Client)(nil)

// New builds a client. tokens supplies the bearer token for every request.
func New(cfg Config, tokens TokenSource) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		tokens:  tokens,
		logger:  cfg.Logger.With().Str("component", "stc_client").Logger(),
	}, nil
}

// Primary requests the mentor-scoped submissions.
func (c *Client) Primary(ctx context.Context) ([]results.Record, error) {
	return c.records(ctx, MentorSubmissionsPath)
}

// Fallback requests the broader submission listing.
func (c *Client) Fallback(ctx context.Context) ([]results.Record, error) {
	return c.records(ctx, AllForMentorPath)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// records returns nil without error when the payload holds no array.
func (c *Client) records(ctx context.Context, path string) ([]results.Record, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &results.NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &results.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &results.NetworkError{Err: err}
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	c.logger.Debug().Str("path", path).Int("records", len(records)).Bool("array", records != nil).Msg("fetched submissions")
	return records, nil
}

// decodeRecords accepts either the response envelope or a bare array.
func decodeRecords(body []byte) ([]results.Record, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, nil
	}

	payload := json.RawMessage(trimmed)
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, err
		}
		payload = env.Data
	}

	if !isArray(payload) {
		return nil, nil
	}

	records := make([]results.Record, 0)
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && strings.TrimSpace(env.Message) != "" {
		return strings.TrimSpace(env.Message)
	}
	return ""
}

// IsUnauthorized reports whether err is an HTTP 401 from the API.
func IsUnauthorized(err error) bool {
	var statusErr *results.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}
