package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guidle/guidle/backend/internal/catalog"
	"github.com/guidle/guidle/backend/internal/guidance"
	"github.com/guidle/guidle/backend/internal/infrastructure/monitoring"
	"github.com/guidle/guidle/backend/internal/intent"
	"github.com/guidle/guidle/backend/internal/session"
	"github.com/guidle/guidle/backend/internal/shared/utils"
	"github.com/guidle/guidle/backend/internal/vision"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	guidance *guidance.Service
	registry *catalog.Registry
	sessions *session.Manager
	analyzer *vision.Analyzer
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	svc *guidance.Service,
	registry *catalog.Registry,
	sessions *session.Manager,
	analyzer *vision.Analyzer,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		guidance: svc,
		registry: registry,
		sessions: sessions,
		analyzer: analyzer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Guidle Backend",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": gin.H{"active": h.sessions.Count()},
		"catalog":  gin.H{"schemas": h.registry.Count()},
		"vision":   gin.H{"configured": h.analyzer.Configured()},
	})
}

// Stats returns a JSON snapshot of the request counters
func (h *Handlers) Stats(c *gin.Context) {
	snap := h.metrics.Snapshot()

	avgDuration := 0.0
	if snap.RequestCount > 0 {
		avgDuration = snap.TotalDuration / float64(snap.RequestCount)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_requests":       snap.TotalRequests,
		"total_errors":         snap.TotalErrors,
		"total_queries":        snap.TotalQueries,
		"active_sessions":      snap.ActiveSessions,
		"active_connections":   snap.ActiveConnections,
		"avg_request_duration": avgDuration,
	})
}

type parseRequest struct {
	Text string `json:"text"`
}

// ParseIntent classifies query text without planning steps
func (h *Handlers) ParseIntent(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := utils.ValidateQuery(req.Text); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, intent.Classify(req.Text))
}

type resolveRequest struct {
	Text  string `json:"text"`
	AppID string `json:"appId"`
}

// ResolveIntent runs the full classify→match→plan pipeline
func (h *Handlers) ResolveIntent(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := utils.ValidateQuery(req.Text); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateAppID(req.AppID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.guidance.Resolve(req.Text, req.AppID)
	c.JSON(http.StatusOK, res.Plan)
}

// RegisterSchema upserts an app's element schema
func (h *Handlers) RegisterSchema(c *gin.Context) {
	var schema catalog.AppSchema
	if err := c.ShouldBindJSON(&schema); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := utils.ValidateSchema(&schema); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registry.Register(schema); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.SetSchemasRegistered(h.registry.Count())

	h.logger.Info("schema registered",
		zap.String("app_id", schema.AppID),
		zap.Int("elements", len(schema.Elements)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"app_id":  schema.AppID,
	})
}

// GetSchema returns one registered schema
func (h *Handlers) GetSchema(c *gin.Context) {
	appID := c.Param("appId")
	if err := utils.ValidateAppID(appID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schema, ok := h.registry.Lookup(appID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "schema not found"})
		return
	}

	c.JSON(http.StatusOK, schema)
}

// ListSchemas lists registered app IDs
func (h *Handlers) ListSchemas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app_ids": h.registry.AppIDs(),
		"count":   h.registry.Count(),
	})
}

// ListFeedback returns the in-memory feedback sink
func (h *Handlers) ListFeedback(c *gin.Context) {
	feedback := h.sessions.Feedback()
	c.JSON(http.StatusOK, gin.H{
		"feedback": feedback,
		"count":    len(feedback),
	})
}
