// Package server runs the application's HTTP handler with graceful
// shutdown on context cancellation.
package server
