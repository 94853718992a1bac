package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const keepAliveInterval = 30 * time.Second

// EventsHandler streams session events over SSE for clients that only need to
// observe, such as a second tab or a tutor dashboard.
type EventsHandler struct {
	subscriber EventSubscriber
	log        zerolog.Logger
}

func NewEventsHandler(subscriber EventSubscriber, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		subscriber: subscriber,
		log:        log.With().Str("component", "events_handler").Logger(),
	}
}

// StreamEvents godoc
// GET /api/v1/learn/courses/:course_id/events
func (h *EventsHandler) StreamEvents(c *gin.Context) {
	claims, ok := learnerClaims(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c, "course_id")
	if !ok {
		return
	}

	reqCtx := c.Request.Context()
	events, err := h.subscriber.Subscribe(reqCtx, claims.UserID, courseID)
	if err != nil {
		h.log.Warn().Err(err).Msg("Subscribe failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	h.log.Info().Int("learner_id", claims.UserID).Int("course_id", courseID).Msg("Learner attached to event stream")

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Int("learner_id", claims.UserID).Int("course_id", courseID).Msg("Learner detached from event stream")
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			writeSSE(c, data)

		case <-keepAliveTicker.C:
			writeSSE(c, pingPayload)
		}
	}
}

func writeSSE(c *gin.Context, data []byte) {
	_, _ = c.Writer.Write([]byte("data: "))
	_, _ = c.Writer.Write(data)
	_, _ = c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}
