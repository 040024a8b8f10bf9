package session

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guidle/guidle/backend/internal/infrastructure/monitoring"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(monitoring.NewMetrics(), zap.NewNop())
}

func TestOpenAndClose(t *testing.T) {
	m := newManager(t)

	s := m.Open()
	assert.True(t, strings.HasPrefix(s.ID.String(), "sess_"))
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)

	m.Close(s.ID)
	assert.Equal(t, 0, m.Count())

	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}

func TestCloseUnknownIsNoop(t *testing.T) {
	m := newManager(t)
	m.Close("sess_missing")
	assert.Equal(t, 0, m.Count())
}

func TestRecordQuery(t *testing.T) {
	m := newManager(t)
	s := m.Open()

	m.RecordQuery(s.ID, "my-app")
	m.RecordQuery(s.ID, "")

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Queries)
	assert.Equal(t, "my-app", got.AppID)
}

func TestRecordFeedback(t *testing.T) {
	m := newManager(t)
	s := m.Open()

	rec := m.RecordFeedback(s.ID, "step_01", true)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, s.ID, rec.SessionID)
	assert.True(t, rec.Success)

	feedback := m.Feedback()
	require.Len(t, feedback, 1)
	assert.Equal(t, rec.ID, feedback[0].ID)
}

func TestFeedbackSinkIsCapped(t *testing.T) {
	m := newManager(t)
	s := m.Open()

	for i := 0; i < maxFeedbackRecords+10; i++ {
		m.RecordFeedback(s.ID, fmt.Sprintf("step_%d", i), i%2 == 0)
	}

	feedback := m.Feedback()
	assert.Len(t, feedback, maxFeedbackRecords)
	// Oldest records were dropped.
	assert.Equal(t, "step_10", feedback[0].StepID)
}

func TestConcurrentSessions(t *testing.T) {
	m := newManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := m.Open()
			m.RecordQuery(s.ID, "app")
			m.RecordFeedback(s.ID, "step_x", true)
			m.Close(s.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, m.Count())
	assert.Len(t, m.Feedback(), 50)
}
