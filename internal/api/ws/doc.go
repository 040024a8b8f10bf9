// Package ws provides WebSocket handling for guidance sessions.
//
// Each connection is one session with its own sequential message loop, so
// replies for a request are always delivered in order before the next
// request is read. Sessions are independent and concurrent.
//
// Message Types (Client → Server):
//   - QUERY: Free-text guidance query against the selector catalog
//   - VISION_QUERY: Query with a screenshot for model-based detection
//   - REGISTER_SCHEMA: Upsert an app's element schema
//   - FEEDBACK: Report whether a delivered step helped
//
// Message Types (Server → Client):
//   - CONNECTED: Session opened, carries the session ID
//   - STEP: One guidance step with its position in the sequence
//   - DONE: Exchange finished
//   - ERROR: Message rejected; the session stays open
//
// Example Usage:
//
//	handler := ws.NewHandler(svc, registry, sessions, metrics, logger, 30*time.Second)
//	router.GET("/stream", handler.HandleConnection)
package ws
