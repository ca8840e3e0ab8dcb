package server

// Server defines the lifecycle contract of the running application process.
//
// Implementations are expected to block in [RunServer] until a stop signal
// arrives and to release resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
