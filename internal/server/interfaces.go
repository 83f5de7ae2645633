package server

// Server defines the lifecycle contract of the application server.
//
// RunServer blocks until a stop signal arrives or serving fails, and
// releases resources before it returns.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer() error

	// Shutdown gracefully stops the server.
	Shutdown()
}
