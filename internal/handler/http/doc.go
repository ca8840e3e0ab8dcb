// Package http implements the HTTP transport layer of the service.
//
// It exposes route wiring, request handlers, and middleware for the JSON
// API. Cross-cutting concerns such as session authentication, request
// tracing, access logging, response compression, and signup throttling are
// handled in this package before requests are delegated to the service
// layer.
package http
