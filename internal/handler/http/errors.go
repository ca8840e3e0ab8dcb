// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package http

import "errors"

// Sentinel errors used by the authentication middleware when resolving the
// session cookie. Callers can match against them with [errors.Is].
var (
	// ErrNoSessionCookie is returned by the auth middleware when the
	// incoming request carries no session cookie at all.
	ErrNoSessionCookie = errors.New("no session cookie")

	// ErrSessionInvalid is returned when the session cookie names a
	// session that no longer exists, has expired, or whose owning account
	// is gone.
	ErrSessionInvalid = errors.New("session is invalid or expired")
)
