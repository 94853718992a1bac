package session

import (
	"context"
	"time"

	"github.com/codeadapt/learn-gateway/internal/model"
)

// EventType names a controller state change.
type EventType string

const (
	EventTopicSelected  EventType = "topic_selected"
	EventAnswerSelected EventType = "answer_selected"
	EventQuizSubmitted  EventType = "quiz_submitted"
	EventQuizRetried    EventType = "quiz_retried"
	EventSessionClosed  EventType = "session_closed"
)

// Event is published after every state change of a session.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	LearnerID int       `json:"learner_id"`
	CourseID  int       `json:"course_id"`
	TopicID   int       `json:"topic_id,omitempty"`
	View      *View     `json:"view,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher fans session events out to interested clients.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Reporter forwards passing scores to the upstream API. Calls are fire-and-forget:
// the controller never waits on them for its own state.
type Reporter interface {
	Report(ctx context.Context, report model.ScoreReport) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// NopReporter drops every report.
type NopReporter struct{}

func (NopReporter) Report(context.Context, model.ScoreReport) error { return nil }
