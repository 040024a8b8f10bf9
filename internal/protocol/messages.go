package protocol

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/guidle/guidle/backend/internal/catalog"
	"github.com/guidle/guidle/backend/internal/vision"
)

// MessageType discriminates session messages on the wire.
type MessageType string

// Client-originated message types.
const (
	MsgQuery          MessageType = "QUERY"
	MsgVisionQuery    MessageType = "VISION_QUERY"
	MsgRegisterSchema MessageType = "REGISTER_SCHEMA"
	MsgFeedback       MessageType = "FEEDBACK"
)

// Server-originated message types.
const (
	MsgStep      MessageType = "STEP"
	MsgDone      MessageType = "DONE"
	MsgError     MessageType = "ERROR"
	MsgConnected MessageType = "CONNECTED"
)

// ErrorCode identifies why a message was rejected.
type ErrorCode string

const (
	CodeUnknownType  ErrorCode = "UNKNOWN_TYPE"
	CodeParseError   ErrorCode = "PARSE_ERROR"
	CodeNoScreenshot ErrorCode = "NO_SCREENSHOT"
	CodeInternal     ErrorCode = "INTERNAL"
)

// ClientMessage is the decoded envelope of an inbound session message.
// Fields beyond Type are populated per message kind.
type ClientMessage struct {
	Type MessageType `json:"type"`

	// QUERY and VISION_QUERY
	Text  string `json:"text,omitempty"`
	AppID string `json:"appId,omitempty"`

	// VISION_QUERY
	Screenshot string           `json:"screenshot,omitempty"` // base64 PNG
	Viewport   *vision.Viewport `json:"viewport,omitempty"`

	// REGISTER_SCHEMA
	Schema *catalog.AppSchema `json:"schema,omitempty"`

	// FEEDBACK
	StepID  string `json:"stepId,omitempty"`
	Success *bool  `json:"success,omitempty"`
}

// DecodeClientMessage parses an inbound frame. A frame that is not a JSON
// object with a string type field is a parse error; an unrecognized type
// value is not (the dispatcher answers those with UNKNOWN_TYPE).
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("malformed message: %w", err)
	}
	if msg.Type == "" {
		return ClientMessage{}, fmt.Errorf("malformed message: missing type")
	}
	return msg, nil
}

// ServerMessage is the closed union of outbound session messages.
type ServerMessage interface {
	isServerMessage()
}

// StepMessage delivers one planned step with its position in the sequence.
type StepMessage struct {
	Step       Step `json:"step"`
	StepIndex  int  `json:"stepIndex"`
	TotalSteps int  `json:"totalSteps"`
}

// DoneMessage closes a request/response exchange.
type DoneMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorMessage reports a rejected message. The session stays open.
type ErrorMessage struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

// ConnectedMessage is sent once when a session opens.
type ConnectedMessage struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message,omitempty"`
}

func (StepMessage) isServerMessage()      {}
func (DoneMessage) isServerMessage()      {}
func (ErrorMessage) isServerMessage()     {}
func (ConnectedMessage) isServerMessage() {}

func (m StepMessage) MarshalJSON() ([]byte, error) {
	type alias StepMessage
	return sonic.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MsgStep, alias(m)})
}

func (m DoneMessage) MarshalJSON() ([]byte, error) {
	type alias DoneMessage
	return sonic.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MsgDone, alias(m)})
}

func (m ErrorMessage) MarshalJSON() ([]byte, error) {
	type alias ErrorMessage
	return sonic.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MsgError, alias(m)})
}

func (m ConnectedMessage) MarshalJSON() ([]byte, error) {
	type alias ConnectedMessage
	return sonic.Marshal(struct {
		Type MessageType `json:"type"`
		alias
	}{MsgConnected, alias(m)})
}

// Encode serializes a server message for the wire.
func Encode(msg ServerMessage) ([]byte, error) {
	return sonic.Marshal(msg)
}
