// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

// Package middleware provides the chi-compatible HTTP middleware for the
// discovery service's API surface.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/otakulog/otakulog/internal/logging"
)

// requestIDHeader is the header carrying the request ID, both inbound from
// a fronting proxy and outbound on every response.
const requestIDHeader = "X-Request-ID"

type contextKey string

// RequestIDKey is the context key under which the request ID is stored.
const RequestIDKey contextKey = "request_id"

// RequestID tags every request with an ID and a fresh correlation ID. An
// ID supplied by a fronting proxy is kept; otherwise one is generated. The
// ID is echoed on the response and threaded through the request context
// and the logging context, so every log line for the request carries it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		ctx = logging.ContextWithRequestID(ctx, id)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
