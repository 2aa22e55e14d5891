// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

package catalog

import "errors"

// ErrUpstream indicates the AniList catalog was unreachable, returned a
// non-success status, or produced a malformed payload. Every failure the
// client returns wraps this sentinel so the API boundary can map it to a
// generic 500 without leaking upstream detail.
var ErrUpstream = errors.New("catalog upstream failure")
