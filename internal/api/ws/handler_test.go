package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guidle/guidle/backend/internal/catalog"
	"github.com/guidle/guidle/backend/internal/guidance"
	"github.com/guidle/guidle/backend/internal/infrastructure/monitoring"
	"github.com/guidle/guidle/backend/internal/matcher"
	"github.com/guidle/guidle/backend/internal/planner"
	"github.com/guidle/guidle/backend/internal/session"
	"github.com/guidle/guidle/backend/internal/vision"
)

type serverFrame struct {
	Type       string          `json:"type"`
	Step       json.RawMessage `json:"step"`
	StepIndex  int             `json:"stepIndex"`
	TotalSteps int             `json:"totalSteps"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Code       string          `json:"code"`
	SessionID  string          `json:"sessionId"`
}

func dialTestServer(t *testing.T) (*websocket.Conn, *catalog.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	metrics := monitoring.NewMetrics()
	registry := catalog.NewRegistry()
	svc := guidance.New(
		planner.New(matcher.New(registry)),
		vision.New(vision.Config{}, logger),
		metrics,
		logger,
	)
	handler := NewHandler(svc, registry, session.NewManager(metrics, logger), metrics, logger, 5*time.Second)

	router := gin.New()
	router.GET("/stream", handler.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, registry
}

func readFrame(t *testing.T, conn *websocket.Conn) serverFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame serverFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestConnectSendsWelcome(t *testing.T) {
	conn, _ := dialTestServer(t)

	frame := readFrame(t, conn)
	assert.Equal(t, "CONNECTED", frame.Type)
	assert.True(t, strings.HasPrefix(frame.SessionID, "sess_"))
}

func TestQueryDeliversStepsThenDone(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // CONNECTED

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"QUERY","text":"go to settings"}`)))

	first := readFrame(t, conn)
	require.Equal(t, "STEP", first.Type)
	assert.Equal(t, 0, first.StepIndex)
	assert.Equal(t, 2, first.TotalSteps)

	var step struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(first.Step, &step))
	assert.Equal(t, "HIGHLIGHT", step.Type)

	second := readFrame(t, conn)
	require.Equal(t, "STEP", second.Type)
	assert.Equal(t, 1, second.StepIndex)

	done := readFrame(t, conn)
	assert.Equal(t, "DONE", done.Type)
	assert.True(t, done.Success)
}

func TestMalformedMessageKeepsSessionOpen(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // CONNECTED

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))

	frame := readFrame(t, conn)
	assert.Equal(t, "ERROR", frame.Type)
	assert.Equal(t, "PARSE_ERROR", frame.Code)

	// Session still answers subsequent queries.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"QUERY","text":"settings"}`)))
	next := readFrame(t, conn)
	assert.Equal(t, "STEP", next.Type)
}

func TestUnknownTypeRejected(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // CONNECTED

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"TELEPORT"}`)))

	frame := readFrame(t, conn)
	assert.Equal(t, "ERROR", frame.Type)
	assert.Equal(t, "UNKNOWN_TYPE", frame.Code)
}

func TestVisionQueryWithoutScreenshot(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // CONNECTED

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"VISION_QUERY","text":"find save"}`)))

	frame := readFrame(t, conn)
	assert.Equal(t, "ERROR", frame.Type)
	assert.Equal(t, "NO_SCREENSHOT", frame.Code)
}

func TestVisionQueryUnconfiguredFallsBackToSelectors(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // CONNECTED

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"VISION_QUERY","text":"find the settings","screenshot":"aGVsbG8=","viewport":{"width":1920,"height":1080}}`)))

	frame := readFrame(t, conn)
	require.Equal(t, "STEP", frame.Type)

	var step struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(frame.Step, &step))
	assert.Equal(t, "HIGHLIGHT", step.Type)
}

func TestRegisterSchemaThenQuery(t *testing.T) {
	conn, registry := dialTestServer(t)
	readFrame(t, conn) // CONNECTED

	register := `{"type":"REGISTER_SCHEMA","schema":{"appId":"shop","elements":[{"patterns":["checkout"],"selectors":["#checkout-btn"],"description":"Checkout button"}]}}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(register)))

	ack := readFrame(t, conn)
	require.Equal(t, "DONE", ack.Type)
	assert.True(t, ack.Success)
	assert.Equal(t, 1, registry.Count())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"QUERY","text":"checkout","appId":"shop"}`)))

	frame := readFrame(t, conn)
	require.Equal(t, "STEP", frame.Type)

	var step struct {
		Selectors []string `json:"selectors"`
	}
	require.NoError(t, json.Unmarshal(frame.Step, &step))
	assert.Equal(t, []string{"#checkout-btn"}, step.Selectors)
}

func TestFeedbackHasNoReply(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // CONNECTED

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"FEEDBACK","stepId":"step_01","success":true}`)))

	// The next reply belongs to the following query, not the feedback.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"QUERY","text":"settings"}`)))
	frame := readFrame(t, conn)
	assert.Equal(t, "STEP", frame.Type)
}
