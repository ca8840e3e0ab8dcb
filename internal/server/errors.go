// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package server

import "errors"

var (
	errNoHTTPAddress = errors.New("no http listen address configured")
)
