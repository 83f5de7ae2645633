// Package http implements the HTTP transport layer of the image studio.
//
// It exposes route wiring, request handlers and middleware used by the REST
// API. Cross-cutting concerns such as session resolution, admin and points
// guards, request tracing, access logging, metrics and compression are
// handled in this package before requests are delegated to the service
// layer.
package http
