package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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

func newTestRouter(t *testing.T) (*gin.Engine, *catalog.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	metrics := monitoring.NewMetrics()
	registry := catalog.NewRegistry()
	analyzer := vision.New(vision.Config{}, logger)
	svc := guidance.New(planner.New(matcher.New(registry)), analyzer, metrics, logger)
	handlers := NewHandlers(svc, registry, session.NewManager(metrics, logger), analyzer, metrics, logger)

	router := gin.New()
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)
	router.POST("/intent/parse", handlers.ParseIntent)
	router.POST("/intent/resolve", handlers.ResolveIntent)
	router.POST("/schemas", handlers.RegisterSchema)
	router.GET("/schemas", handlers.ListSchemas)
	router.GET("/schemas/:appId", handlers.GetSchema)
	router.GET("/feedback", handlers.ListFeedback)

	return router, registry
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRootAndHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])

	visionInfo, ok := body["vision"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, visionInfo["configured"])
}

func TestParseIntent(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/intent/parse", map[string]string{"text": "go to settings"})
	require.Equal(t, http.StatusOK, w.Code)

	var parsed struct {
		Type       string  `json:"type"`
		Target     string  `json:"target"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, "NAVIGATE", parsed.Type)
	assert.Equal(t, "settings", parsed.Target)
	assert.InDelta(t, 0.9, parsed.Confidence, 1e-9)
}

func TestParseIntentRejectsEmptyText(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/intent/parse", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveIntent(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/intent/resolve", map[string]string{"text": "go to settings"})
	require.Equal(t, http.StatusOK, w.Code)

	var plan struct {
		Steps []struct {
			Type string `json:"type"`
		} `json:"steps"`
		MatchedSelectors []string `json:"matchedSelectors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "HIGHLIGHT", plan.Steps[0].Type)
	assert.Equal(t, "PROMPT", plan.Steps[1].Type)
	assert.NotEmpty(t, plan.MatchedSelectors)
}

func TestSchemaLifecycle(t *testing.T) {
	router, registry := newTestRouter(t)

	schema := map[string]any{
		"appId": "shop",
		"elements": []map[string]any{
			{"patterns": []string{"checkout"}, "selectors": []string{"#checkout"}, "description": "Checkout"},
		},
	}

	w := doRequest(t, router, http.MethodPost, "/schemas", schema)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, registry.Count())

	w = doRequest(t, router, http.MethodGet, "/schemas/shop", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got catalog.AppSchema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "shop", got.AppID)
	require.Len(t, got.Elements, 1)

	w = doRequest(t, router, http.MethodGet, "/schemas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		AppIDs []string `json:"app_ids"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []string{"shop"}, list.AppIDs)
	assert.Equal(t, 1, list.Count)
}

func TestRegisterSchemaRejectsInvalid(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/schemas", map[string]any{"elements": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSchemaNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/schemas/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFeedbackEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/feedback", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
}
