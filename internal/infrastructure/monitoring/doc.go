/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the backend
service, tracking HTTP requests, query classification, selector matching,
vision calls, and WebSocket traffic.

# Features

- HTTP request metrics (latency, throughput)
- Query pipeline metrics (intent distribution, match confidence, tiers)
- Vision analysis metrics (outcome, duration)
- Session and feedback metrics
- WebSocket connection metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.RecordQuery("NAVIGATE")
	metrics.RecordMatch("app", 0.9)

# Metrics Endpoint

Each collector owns a private registry; expose it via its handler:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
