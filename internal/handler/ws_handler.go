package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/codeadapt/learn-gateway/internal/service"
	"github.com/codeadapt/learn-gateway/internal/session"
	"github.com/codeadapt/learn-gateway/internal/validator"
	ws "github.com/codeadapt/learn-gateway/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// EventSubscriber streams the published events of one learner's course session.
type EventSubscriber interface {
	Subscribe(ctx context.Context, learnerID, courseID int) (<-chan session.Event, error)
}

// WSHandler handles the learner's WebSocket session stream.
type WSHandler struct {
	learnerService *service.LearnerService
	subscriber     EventSubscriber
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. subscriber may be nil, in which case
// only replies to the connection's own actions are streamed.
func NewWSHandler(learnerService *service.LearnerService, subscriber EventSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		learnerService: learnerService,
		subscriber:     subscriber,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// LearnStream godoc
// WS /ws/v1/learn/courses/:course_id/stream
// Accepts session actions and answers each with the resulting view. Events
// published for the session by any instance are relayed as they arrive.
func (h *WSHandler) LearnStream(c *gin.Context) {
	claims, ok := learnerClaims(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c, "course_id")
	if !ok {
		return
	}

	ctrl, release, err := h.learnerService.AttachSession(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		status, code := mapError(err)
		response.Fail(c, status, code)
		return
	}
	defer release()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("learner_id", claims.UserID).
		Int("course_id", courseID).
		Str("session_id", ctrl.ID()).
		Str("request_id", response.RequestID(c)).
		Logger()
	wsLog.Info().Msg("Learner connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	w := ws.NewWriter(conn)
	if err := w.WriteTyped(ws.ViewResponse{Event: ws.EventView, View: ctrl.View()}); err != nil {
		return
	}

	if h.subscriber != nil {
		events, err := h.subscriber.Subscribe(ctx, claims.UserID, courseID)
		if err != nil {
			wsLog.Warn().Err(err).Msg("Event relay unavailable")
		} else {
			go h.relay(w, events)
		}
	}

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		if msg.Action == ws.ActionPing {
			_ = w.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			continue
		}

		view, err := h.dispatch(ctx, ctrl, &msg)
		if err != nil {
			h.writeFailure(w, ctrl, err)
			continue
		}
		if err := w.WriteTyped(ws.ViewResponse{Event: ws.EventView, Action: msg.Action, View: view}); err != nil {
			wsLog.Debug().Err(err).Msg("Write failed")
			return
		}
	}
}

// errInvalidMessage reports a message whose fields failed validation.
type errInvalidMessage struct {
	fields map[string]string
}

func (e *errInvalidMessage) Error() string {
	parts := make([]string, 0, len(e.fields))
	for field, msg := range e.fields {
		if msg == "" {
			msg = field
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// errUnknownAction reports an action the stream does not understand.
type errUnknownAction struct {
	action ws.Action
}

func (e *errUnknownAction) Error() string {
	return "unknown action: " + string(e.action)
}

func (h *WSHandler) dispatch(ctx context.Context, ctrl *session.Controller, msg *ws.RequestPayload) (session.View, error) {
	switch msg.Action {
	case ws.ActionOpen, ws.ActionSelect:
		req := model.SelectTopicRequest{TopicID: msg.TopicID}
		if fields := validator.Validate(&req); fields != nil {
			return session.View{}, &errInvalidMessage{fields}
		}
		if msg.Action == ws.ActionOpen {
			return ctrl.SelectTopic(ctx, req.TopicID)
		}
		return ctrl.SelectFromSidebar(ctx, req.TopicID)

	case ws.ActionAnswer:
		req := model.SelectAnswerRequest{QuestionID: msg.QuestionID, Answer: msg.Answer}
		if fields := validator.Validate(&req); fields != nil {
			return session.View{}, &errInvalidMessage{fields}
		}
		return ctrl.SelectAnswer(ctx, req.QuestionID, req.Answer)

	case ws.ActionSubmit:
		return ctrl.Submit(ctx)

	case ws.ActionRetry:
		req := model.RetryRequest{Mode: msg.Mode}
		if fields := validator.Validate(&req); fields != nil {
			return session.View{}, &errInvalidMessage{fields}
		}
		return retry(ctx, ctrl, req.Mode)

	case ws.ActionNavigate:
		req := model.NavigateRequest{Direction: msg.Direction}
		if fields := validator.Validate(&req); fields != nil {
			return session.View{}, &errInvalidMessage{fields}
		}
		return ctrl.Navigate(ctx, session.Direction(req.Direction))
	}
	return session.View{}, &errUnknownAction{msg.Action}
}

func (h *WSHandler) writeFailure(w *ws.Writer, ctrl *session.Controller, err error) {
	var (
		invalid *errInvalidMessage
		unknown *errUnknownAction
	)
	switch {
	case errors.As(err, &invalid):
		_ = w.WriteError(string(response.ErrValidation), invalid.Error())
		return
	case errors.As(err, &unknown):
		h.log.Warn().Str("action", string(unknown.action)).Msg("Unknown action")
		_ = w.WriteError(string(response.ErrInvalidPayload), unknown.Error())
		return
	}

	_, code := mapError(err)
	view := ctrl.View()
	_ = w.WriteTyped(ws.ErrorResponse{
		Event: ws.EventError,
		Code:  string(code),
		Error: response.GetMessage(code),
		View:  &view,
	})
}

// relay forwards published session events until the subscription ends.
func (h *WSHandler) relay(w *ws.Writer, events <-chan session.Event) {
	for ev := range events {
		if err := w.WriteTyped(ws.SessionEventResponse{Event: ws.EventSession, Data: ev}); err != nil {
			return
		}
	}
}
