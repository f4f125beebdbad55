// Package main is the appfactory command.
//
// It builds the application through the bootstrap factory and hands the
// command line to the application's CLI. A bootstrap failure, including a
// CLI command name collision, exits with status 1 before anything is
// served.
//
// Usage:
//
//	# Serve HTTP (development profile)
//	APP_DEBUG=true ./server run --port 8000
//
//	# Interactive shell over models, serializers and extensions
//	./server shell
//
//	# Inspect the wiring
//	./server routes
//	./server bundles
//	./server db locations
//
//	# Bundle command groups
//	DATABASE_URL=postgres://localhost/app ./server users create alice -p secret123
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
