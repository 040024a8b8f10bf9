package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/guidle/guidle/backend/internal/catalog"
	"github.com/guidle/guidle/backend/internal/guidance"
	"github.com/guidle/guidle/backend/internal/infrastructure/monitoring"
	"github.com/guidle/guidle/backend/internal/protocol"
	"github.com/guidle/guidle/backend/internal/session"
	"github.com/guidle/guidle/backend/internal/shared/utils"
	"github.com/guidle/guidle/backend/internal/vision"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser extension connects from arbitrary origins
	},
}

// Handler manages WebSocket guidance sessions
type Handler struct {
	guidance      *guidance.Service
	registry      *catalog.Registry
	sessions      *session.Manager
	metrics       *monitoring.Metrics
	logger        *zap.Logger
	visionTimeout time.Duration
}

// NewHandler creates a new WebSocket handler
func NewHandler(svc *guidance.Service, registry *catalog.Registry, sessions *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger, visionTimeout time.Duration) *Handler {
	if visionTimeout <= 0 {
		visionTimeout = 30 * time.Second
	}
	return &Handler{
		guidance:      svc,
		registry:      registry,
		sessions:      sessions,
		metrics:       metrics,
		logger:        logger,
		visionTimeout: visionTimeout,
	}
}

// HandleConnection handles WebSocket upgrade and the session message loop.
// One connection is one session; messages are processed sequentially in
// arrival order. Protocol errors keep the connection open, read errors
// end the session.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sess := h.sessions.Open()
	defer h.sessions.Close(sess.ID)

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	reqCtx := c.Request.Context()

	h.send(conn, protocol.ConnectedMessage{
		SessionID: sess.ID.String(),
		Message:   "Connected to Guidle",
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error",
					zap.String("session_id", sess.ID.String()),
					zap.Error(err))
			}
			return
		}

		msg, err := protocol.DecodeClientMessage(data)
		if err != nil {
			h.sendError(conn, protocol.CodeParseError, "malformed message")
			continue
		}
		h.metrics.RecordWSMessage("in", string(msg.Type))

		switch msg.Type {
		case protocol.MsgQuery:
			h.handleQuery(conn, sess, msg)
		case protocol.MsgVisionQuery:
			h.handleVisionQuery(conn, sess, msg, reqCtx)
		case protocol.MsgRegisterSchema:
			h.handleRegisterSchema(conn, msg)
		case protocol.MsgFeedback:
			h.handleFeedback(conn, sess, msg)
		default:
			h.sendError(conn, protocol.CodeUnknownType, "unknown message type: "+string(msg.Type))
		}
	}
}

func (h *Handler) handleQuery(conn *websocket.Conn, sess *session.Session, msg protocol.ClientMessage) {
	if err := utils.ValidateQuery(msg.Text); err != nil {
		h.sendError(conn, protocol.CodeParseError, err.Error())
		return
	}
	if err := utils.ValidateAppID(msg.AppID); err != nil {
		h.sendError(conn, protocol.CodeParseError, err.Error())
		return
	}

	h.sessions.RecordQuery(sess.ID, msg.AppID)
	res := h.guidance.Resolve(msg.Text, msg.AppID)
	h.sendSteps(conn, res.Steps())
}

func (h *Handler) handleVisionQuery(conn *websocket.Conn, sess *session.Session, msg protocol.ClientMessage, reqCtx context.Context) {
	if err := utils.ValidateQuery(msg.Text); err != nil {
		h.sendError(conn, protocol.CodeParseError, err.Error())
		return
	}
	if !h.guidance.VisionEligible(msg.Screenshot) {
		h.sendError(conn, protocol.CodeNoScreenshot, "vision query requires a screenshot")
		return
	}
	if err := utils.ValidateScreenshot(msg.Screenshot); err != nil {
		h.sendError(conn, protocol.CodeParseError, err.Error())
		return
	}

	var vp vision.Viewport
	if msg.Viewport != nil {
		vp = *msg.Viewport
	}

	h.sessions.RecordQuery(sess.ID, msg.AppID)

	// Bound the model call so a slow backend cannot stall the session.
	ctx, cancel := context.WithTimeout(reqCtx, h.visionTimeout)
	defer cancel()

	res := h.guidance.ResolveVision(ctx, msg.Text, msg.Screenshot, vp, msg.AppID)
	h.sendSteps(conn, res.Steps())
}

func (h *Handler) handleRegisterSchema(conn *websocket.Conn, msg protocol.ClientMessage) {
	if err := utils.ValidateSchema(msg.Schema); err != nil {
		h.sendError(conn, protocol.CodeParseError, err.Error())
		return
	}

	if err := h.registry.Register(*msg.Schema); err != nil {
		h.sendError(conn, protocol.CodeInternal, err.Error())
		return
	}
	h.metrics.SetSchemasRegistered(h.registry.Count())

	h.logger.Info("schema registered via websocket",
		zap.String("app_id", msg.Schema.AppID),
		zap.Int("elements", len(msg.Schema.Elements)))
	h.send(conn, protocol.DoneMessage{Success: true, Message: "schema registered"})
}

func (h *Handler) handleFeedback(conn *websocket.Conn, sess *session.Session, msg protocol.ClientMessage) {
	if msg.StepID == "" {
		h.sendError(conn, protocol.CodeParseError, "feedback requires stepId")
		return
	}

	success := msg.Success != nil && *msg.Success
	h.sessions.RecordFeedback(sess.ID, msg.StepID, success)
	// Feedback is advisory; no reply.
}

// sendSteps delivers each step in order, then closes the exchange.
func (h *Handler) sendSteps(conn *websocket.Conn, steps []protocol.Step) {
	total := len(steps)
	for i, step := range steps {
		if !h.send(conn, protocol.StepMessage{Step: step, StepIndex: i, TotalSteps: total}) {
			return
		}
	}
	h.send(conn, protocol.DoneMessage{Success: true})
}

func (h *Handler) send(conn *websocket.Conn, msg protocol.ServerMessage) bool {
	data, err := protocol.Encode(msg)
	if err != nil {
		h.logger.Error("failed to encode message", zap.Error(err))
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Warn("websocket write failed", zap.Error(err))
		return false
	}

	switch msg.(type) {
	case protocol.StepMessage:
		h.metrics.RecordWSMessage("out", string(protocol.MsgStep))
	case protocol.DoneMessage:
		h.metrics.RecordWSMessage("out", string(protocol.MsgDone))
	case protocol.ErrorMessage:
		h.metrics.RecordWSMessage("out", string(protocol.MsgError))
	case protocol.ConnectedMessage:
		h.metrics.RecordWSMessage("out", string(protocol.MsgConnected))
	}
	return true
}

func (h *Handler) sendError(conn *websocket.Conn, code protocol.ErrorCode, message string) {
	h.send(conn, protocol.ErrorMessage{Message: message, Code: code})
}
