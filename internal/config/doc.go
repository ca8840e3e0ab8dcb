// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetStructuredConfig]. All feature decisions made
// at request time (confirmation requirements, unconfirmed-access window,
// CAPTCHA, invites, edition behaviour) read from the returned struct; no
// component reads process-wide state on its own.
package config
