// Package main is the entry point for the Guidle backend server.
//
// The server turns free-text "where is / how do I" questions into ordered
// guidance steps a browser-side renderer can execute: highlights, prompts,
// and tooltips anchored to CSS selectors, with an optional screenshot-based
// vision fallback.
//
// Architecture:
//
//	Extension (browser) → WebSocket/REST → Go Backend → Vision model (optional)
//
// The server provides:
//   - WebSocket session protocol for guidance queries
//   - REST API for intent parsing and schema management
//   - Selector catalog seeded from YAML/JSON schema files
//   - Prometheus metrics and structured logging
//   - Rate limiting and CORS
//
// Configuration is environment-driven (12-factor); see the config package
// for the full list of variables. Key variables:
//
//	PORT            server port (default 8765)
//	OPENAI_API_KEY  enables the vision fallback
//	SCHEMA_DIR      directory of app schema files (default "schemas")
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
