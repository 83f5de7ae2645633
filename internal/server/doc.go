// Package server runs the HTTP server of the pixel studio.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown of in-flight requests.
package server
