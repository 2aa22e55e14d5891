// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

// Package catalog implements the client for the AniList GraphQL catalog.
//
// The client is explicitly constructed and injected wherever it is needed;
// there is no package-level singleton, so tests substitute a fake upstream
// by pointing the client at an httptest server.
//
// Resilience:
//   - Request-level timeout (config, default 10s); expiry is an upstream
//     failure, never retried.
//   - Outbound rate limiting honoring AniList's public 90 req/min budget.
//   - Circuit breaker (sony/gobreaker) that fails fast once the upstream
//     has been failing; rejected calls surface as ErrUpstream.
//
// Thread safety: all methods are safe for concurrent use.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/otakulog/otakulog/internal/config"
	"github.com/otakulog/otakulog/internal/metrics"
	"github.com/otakulog/otakulog/internal/models/anilist"
)

// maxErrorBodySize limits how much of an upstream error body is read for
// logging, preventing unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// breakerName labels the circuit breaker in logs and metrics.
const breakerName = "anilist-catalog"

// Searcher finds catalog entries matching a free-text query,
// popularity-ranked, at most one page.
type Searcher interface {
	Search(ctx context.Context, query string) ([]anilist.Media, error)
}

// Browser fetches a filtered candidate pool for recommendation scoring.
type Browser interface {
	Browse(ctx context.Context, filter *MediaFilter) ([]anilist.Media, error)
}

// Client talks to the AniList GraphQL API. Construct with NewClient.
type Client struct {
	httpClient *http.Client
	url        string
	timeout    time.Duration
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]anilist.Media]
	logger     zerolog.Logger
}

// NewClient creates a catalog client from configuration.
//
// Circuit breaker settings mirror our other upstream clients: opens at a
// 60% failure rate over a minimum of 10 requests within a one-minute
// window, allows 3 probes in half-open state, and waits 2 minutes before
// probing again.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg *config.CatalogConfig, logger zerolog.Logger) *Client {
	componentLogger := logger.With().Str("component", "catalog").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	breaker := gobreaker.NewCircuitBreaker[[]anilist.Media](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			componentLogger.Info().
				Str("from", fromStr).
				Str("to", toStr).
				Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	perSecond := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(perSecond, cfg.RequestsPerMinute),
		breaker:    breaker,
		logger:     componentLogger,
	}
}

// Search runs a free-text catalog query and returns up to 12 candidates in
// upstream popularity order. An empty result is a valid success.
func (c *Client) Search(ctx context.Context, query string) ([]anilist.Media, error) {
	return c.post(ctx, "search", searchQuery, map[string]interface{}{
		"search": query,
	})
}

// Browse fetches up to 24 candidates matching the filter, ranked by mean
// score then popularity, adult content excluded.
func (c *Client) Browse(ctx context.Context, filter *MediaFilter) ([]anilist.Media, error) {
	return c.post(ctx, "browse", browseQuery, filter.Variables())
}

// graphqlRequest is the JSON body posted to the GraphQL endpoint.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// graphqlError is a single entry of the GraphQL errors array.
type graphqlError struct {
	Message string `json:"message"`
}

// pageResponse models the envelope AniList wraps media lists in.
type pageResponse struct {
	Data *struct {
		Page struct {
			Media []anilist.Media `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// post executes one GraphQL request through the rate limiter and circuit
// breaker. All failures wrap ErrUpstream.
func (c *Client) post(ctx context.Context, operation, document string, variables map[string]interface{}) ([]anilist.Media, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordCatalogRequest(operation, "rejected", 0)
		return nil, fmt.Errorf("%w: rate limit wait: %v", ErrUpstream, err)
	}

	start := time.Now()
	media, err := c.breaker.Execute(func() ([]anilist.Media, error) {
		return c.do(ctx, document, variables)
	})
	duration := time.Since(start)

	if err != nil {
		status := "failure"
		if isBreakerRejection(err) {
			status = "rejected"
			c.logger.Warn().Str("operation", operation).Msg("request rejected by open circuit breaker")
		} else {
			c.logger.Error().Str("operation", operation).Err(err).Msg("upstream catalog request failed")
		}
		metrics.RecordCatalogRequest(operation, status, duration)

		if errors.Is(err, ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	metrics.RecordCatalogRequest(operation, "success", duration)
	return media, nil
}

// do performs the HTTP round-trip and decodes the typed response.
func (c *Client) do(ctx context.Context, document string, variables map[string]interface{}) ([]anilist.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(graphqlRequest{Query: document, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		errBody := readBodyForError(resp.Body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Bytes("body", errBody).
			Msg("upstream returned non-success status")
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var page pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if len(page.Errors) > 0 {
		c.logger.Error().
			Str("message", page.Errors[0].Message).
			Int("count", len(page.Errors)).
			Msg("upstream returned GraphQL errors")
		return nil, fmt.Errorf("%w: graphql errors in response", ErrUpstream)
	}

	if page.Data == nil {
		return nil, fmt.Errorf("%w: response missing data", ErrUpstream)
	}

	media := page.Data.Page.Media
	if media == nil {
		media = []anilist.Media{}
	}
	return media, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}

// UpstreamHealthy reports whether the circuit breaker currently admits
// catalog calls. The readiness probe uses it to mark the instance degraded
// while the breaker is open.
func (c *Client) UpstreamHealthy() bool {
	return c.breaker.State() != gobreaker.StateOpen
}

// isBreakerRejection reports whether the breaker refused to run the call.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateToString converts a gobreaker state to its metric label.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a gobreaker state to its gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
