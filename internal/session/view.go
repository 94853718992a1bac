package session

import (
	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/quiz"
)

// TopicState is the display state of the topic section.
type TopicState string

const (
	TopicNone    TopicState = "none"
	TopicLoading TopicState = "loading"
	TopicReady   TopicState = "ready"
	TopicFailed  TopicState = "failed"
)

// QuizState is the display state of the quiz section. QuizNone covers topics
// without a quiz, including quizzes the catalog could not find or parse.
type QuizState string

const (
	QuizNone        QuizState = "none"
	QuizLoading     QuizState = "loading"
	QuizReady       QuizState = "ready"
	QuizUnavailable QuizState = "unavailable"
)

// FailureKind classifies why a section could not be shown.
type FailureKind string

const (
	FailureNotFound    FailureKind = "not_found"
	FailureMalformed   FailureKind = "malformed"
	FailureUnavailable FailureKind = "unavailable"
)

// Failure is rendered in place of the section it affects.
type Failure struct {
	Kind      FailureKind `json:"kind"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable"`
}

// SidebarEntry is one topic in the navigation list.
type SidebarEntry struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled"`
}

// View is a render-ready snapshot of a session.
type View struct {
	SessionID     string              `json:"session_id"`
	CourseID      int                 `json:"course_id"`
	Topics        []SidebarEntry      `json:"topics"`
	ActiveTopicID int                 `json:"active_topic_id,omitempty"`
	TopicState    TopicState          `json:"topic_state"`
	Topic         *model.Topic        `json:"topic,omitempty"`
	TopicError    *Failure            `json:"topic_error,omitempty"`
	QuizState     QuizState           `json:"quiz_state"`
	Quiz          *quiz.View          `json:"quiz,omitempty"`
	QuizError     *Failure            `json:"quiz_error,omitempty"`
	Progress      *model.UnlockRecord `json:"progress,omitempty"`
	Unlocked      bool                `json:"unlocked"`
	HasPrev       bool                `json:"has_prev"`
	HasNext       bool                `json:"has_next"`
	CanAdvance    bool                `json:"can_advance"`
	Durable       bool                `json:"durable"`
}
