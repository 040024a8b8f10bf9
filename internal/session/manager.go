// Package session tracks live guidance sessions and collects step feedback.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guidle/guidle/backend/internal/infrastructure/monitoring"
	"github.com/guidle/guidle/backend/internal/shared/id"
)

// maxFeedbackRecords caps the in-memory feedback sink. Older records are
// dropped first; feedback is advisory and never replayed.
const maxFeedbackRecords = 1000

// Session is one client connection's guidance context.
type Session struct {
	ID        id.SessionID `json:"id"`
	AppID     string       `json:"appId,omitempty"`
	StartedAt time.Time    `json:"startedAt"`
	Queries   int          `json:"queries"`
}

// FeedbackRecord is one reported step outcome.
type FeedbackRecord struct {
	ID         string       `json:"id"`
	SessionID  id.SessionID `json:"sessionId"`
	StepID     string       `json:"stepId"`
	Success    bool         `json:"success"`
	ReceivedAt time.Time    `json:"receivedAt"`
}

// Manager tracks active sessions and the feedback sink.
type Manager struct {
	metrics *monitoring.Metrics
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[id.SessionID]*Session
	feedback []FeedbackRecord
}

// NewManager creates a session manager.
func NewManager(metrics *monitoring.Metrics, logger *zap.Logger) *Manager {
	return &Manager{
		metrics:  metrics,
		logger:   logger,
		sessions: make(map[id.SessionID]*Session),
	}
}

// Open starts a new session.
func (m *Manager) Open() *Session {
	s := &Session{
		ID:        id.NewSessionID(),
		StartedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetSessionsActive(count)
	m.logger.Info("session opened", zap.String("session_id", s.ID.String()))
	return s
}

// Close ends a session. Closing an unknown session is a no-op.
func (m *Manager) Close(sessionID id.SessionID) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}

	m.metrics.SetSessionsActive(count)
	m.logger.Info("session closed",
		zap.String("session_id", sessionID.String()),
		zap.Int("queries", s.Queries),
		zap.Duration("duration", time.Since(s.StartedAt)))
}

// Get returns a session by ID.
func (m *Manager) Get(sessionID id.SessionID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RecordQuery bumps the session's query counter and remembers the last app
// the client identified itself with.
func (m *Manager) RecordQuery(sessionID id.SessionID, appID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.Queries++
		if appID != "" {
			s.AppID = appID
		}
	}
}

// RecordFeedback stores a step outcome report in the capped sink.
func (m *Manager) RecordFeedback(sessionID id.SessionID, stepID string, success bool) FeedbackRecord {
	rec := FeedbackRecord{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		StepID:     stepID,
		Success:    success,
		ReceivedAt: time.Now(),
	}

	m.mu.Lock()
	m.feedback = append(m.feedback, rec)
	if len(m.feedback) > maxFeedbackRecords {
		m.feedback = m.feedback[len(m.feedback)-maxFeedbackRecords:]
	}
	m.mu.Unlock()

	result := "failure"
	if success {
		result = "success"
	}
	m.metrics.RecordFeedback(result)

	m.logger.Info("feedback recorded",
		zap.String("session_id", sessionID.String()),
		zap.String("step_id", stepID),
		zap.Bool("success", success))
	return rec
}

// Feedback returns a copy of the current feedback sink, oldest first.
func (m *Manager) Feedback() []FeedbackRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FeedbackRecord, len(m.feedback))
	copy(out, m.feedback)
	return out
}
