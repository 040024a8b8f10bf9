// Package http provides the REST surface of the guidance service.
//
// The WebSocket session protocol is the primary transport; these endpoints
// exist for tooling and debugging: intent classification and resolution
// without a session, schema management, and health/stats introspection.
//
// Endpoints:
//   - GET  /            : liveness
//   - GET  /health      : component health
//   - GET  /stats       : JSON counter snapshot
//   - POST /intent/parse   : classify query text
//   - POST /intent/resolve : classify, match, and plan
//   - POST /schemas        : upsert an app schema
//   - GET  /schemas        : list registered app IDs
//   - GET  /schemas/:appId : fetch one schema
//   - GET  /feedback       : dump the feedback sink
package http
