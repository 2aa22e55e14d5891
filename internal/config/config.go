// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

// Package config loads and validates the discovery service configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//
//  1. Built-in defaults (structs provider)
//  2. Config file: config.yaml (file provider + yaml parser)
//  3. Environment variables (env provider)
//
// Environment variables use upper-snake naming with the section as prefix,
// e.g. SERVER_PORT, CATALOG_URL, LOG_LEVEL, CORS_ORIGINS.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration for the discovery service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Empty binds all interfaces.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful drain on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings (see internal/logging).
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig holds settings for the upstream AniList catalog client.
type CatalogConfig struct {
	// URL is the AniList GraphQL endpoint.
	URL string `koanf:"url"`

	// Timeout bounds a single upstream round-trip. Expiry is treated as an
	// upstream failure; no retry is attempted.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerMinute caps outbound calls to respect AniList's public
	// API budget (90 req/min unauthenticated).
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// SecurityConfig holds CORS and rate-limiting settings for the API surface.
type SecurityConfig struct {
	// CORSOrigins lists allowed origins for the review-app frontend.
	// Empty means no cross-origin access; configure explicitly.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests is the per-IP request budget per window for API
	// endpoints. Health endpoints use a 10x permissive budget.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8480,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			URL:               "https://graphql.anilist.co",
			Timeout:           10 * time.Second,
			RequestsPerMinute: 90,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// Validate checks the configuration for values that would prevent the
// service from operating correctly.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range [1,65535]", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}
	u, err := url.Parse(c.Catalog.URL)
	if err != nil {
		return fmt.Errorf("catalog.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("catalog.url must be http or https, got %q", u.Scheme)
	}

	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive")
	}
	if c.Catalog.RequestsPerMinute < 1 {
		return fmt.Errorf("catalog.requests_per_minute must be at least 1")
	}

	if !c.Security.RateLimitDisabled && c.Security.RateLimitRequests < 1 {
		return fmt.Errorf("security.rate_limit_requests must be at least 1")
	}

	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("security.cors_origins entry %q must be an http(s) origin", origin)
		}
	}

	return nil
}
