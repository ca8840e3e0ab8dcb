// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to block until the context is cancelled and
// to drain any in-flight work before returning.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}

// Fn adapts a plain function to the Worker interface, in the manner of
// http.HandlerFunc.
type Fn func(ctx context.Context)

// Run calls f.
func (f Fn) Run(ctx context.Context) {
	f(ctx)
}
