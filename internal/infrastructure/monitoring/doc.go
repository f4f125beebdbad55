/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for an
application instance, tracking HTTP requests, the bootstrap sequence and
the request cycle (sessions, CSRF rejections).

# Features

- HTTP request metrics (latency, throughput, size), labelled by route pattern
- Bootstrap stage durations
- Registry sizes (bundles, models, serializers, CLI commands, extensions)
- Session and CSRF counters
- Process and Go runtime collectors

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time a bootstrap stage
	timer := monitoring.NewStageTimer(metrics, "blueprints")
	// ... run the stage ...
	timer.Stop()

# Metrics Endpoint

Each Metrics owns its registry; expose it with Handler:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
