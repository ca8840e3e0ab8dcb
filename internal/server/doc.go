// Package server wires and runs the application's long-running components.
//
// It provides orchestration for the HTTP server and the background worker
// group, including startup, signal handling, and graceful shutdown.
package server
