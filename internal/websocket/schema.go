package websocket

import "github.com/codeadapt/learn-gateway/internal/session"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionOpen     Action = "open"
	ActionSelect   Action = "select"
	ActionAnswer   Action = "answer"
	ActionSubmit   Action = "submit"
	ActionRetry    Action = "retry"
	ActionNavigate Action = "navigate"
	ActionPing     Action = "ping"
)

// RequestPayload carries every action's fields; each action reads the ones it needs.
type RequestPayload struct {
	Action     Action `json:"action"`
	TopicID    int    `json:"topic_id,omitempty"`
	QuestionID int    `json:"question_id,omitempty"`
	Answer     string `json:"answer,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Direction  string `json:"direction,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventView    Event = "view"
	EventSession Event = "session_event"
	EventError   Event = "error"
	EventPong    Event = "pong"
)

// ViewResponse answers an action with the resulting session state.
type ViewResponse struct {
	Event  Event        `json:"event"`
	Action Action       `json:"action,omitempty"`
	View   session.View `json:"view"`
}

// SessionEventResponse relays an event published by any instance for this session.
type SessionEventResponse struct {
	Event Event         `json:"event"`
	Data  session.Event `json:"data"`
}

type ErrorResponse struct {
	Event Event         `json:"event"`
	Code  string        `json:"code,omitempty"`
	Error string        `json:"error"`
	View  *session.View `json:"view,omitempty"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
