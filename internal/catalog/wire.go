package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/codeadapt/learn-gateway/internal/model"
)

// envelope is the upstream response shape. The course listing carries its
// payload under "courses" instead of "data".
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Courses json.RawMessage `json:"courses"`
	Error   string          `json:"error"`
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// flexInt accepts 3, "3" and null.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*f = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("id %q: %w", s, err)
	}
	*f = flexInt(n)
	return nil
}

// flexOptions accepts a JSON array of strings or a string holding one.
type flexOptions []string

func (f *flexOptions) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = list
		return nil
	}
	var encoded string
	if err := json.Unmarshal(b, &encoded); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		return fmt.Errorf("options string: %w", err)
	}
	*f = list
	return nil
}

type wireTopic struct {
	ID          flexInt `json:"id"`
	Title       string  `json:"title"`
	Content     *string `json:"content"`
	CodeSnippet *string `json:"code_snippet"`
}

func (w wireTopic) toModel() model.Topic {
	t := model.Topic{ID: int(w.ID), Title: w.Title}
	if w.Content != nil {
		t.Content = *w.Content
	}
	if w.CodeSnippet != nil {
		t.CodeSnippet = *w.CodeSnippet
	}
	return t
}

type wireSummary struct {
	ID    flexInt `json:"id"`
	Title string  `json:"title"`
}

type wireQuestion struct {
	ID            flexInt     `json:"id"`
	Question      string      `json:"question"`
	Options       flexOptions `json:"options"`
	CorrectAnswer string      `json:"correct_answer"`
	Explanation   *string     `json:"explanation"`
	Points        flexInt     `json:"points"`
}

func (w wireQuestion) toModel() model.Question {
	q := model.Question{
		ID:            int(w.ID),
		Question:      w.Question,
		Options:       []string(w.Options),
		CorrectAnswer: w.CorrectAnswer,
		Points:        int(w.Points),
	}
	if w.Explanation != nil {
		q.Explanation = *w.Explanation
	}
	return q
}

type wireQuiz struct {
	ID        flexInt        `json:"id"`
	TopicID   flexInt        `json:"topic_id"`
	Title     *string        `json:"title"`
	Questions []wireQuestion `json:"questions"`
}

type wireCourse struct {
	ID          flexInt `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Level       *string `json:"level"`
	Difficulty  *string `json:"difficulty"`
	Duration    *string `json:"duration"`
}

func (w wireCourse) toModel() model.Course {
	c := model.Course{ID: int(w.ID), Title: w.Title}
	if w.Description != nil {
		c.Description = *w.Description
	}
	switch {
	case w.Level != nil:
		c.Level = *w.Level
	case w.Difficulty != nil:
		c.Level = *w.Difficulty
	}
	if w.Duration != nil {
		c.Duration = *w.Duration
	}
	return c
}

// decodeQuiz turns a quiz payload (object or bare question array) into a Quiz
// for topicID.
func decodeQuiz(raw json.RawMessage, topicID int) (model.Quiz, error) {
	var wq wireQuiz
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wq.Questions); err != nil {
			return model.Quiz{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	} else if err := json.Unmarshal(raw, &wq); err != nil {
		return model.Quiz{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	q := model.Quiz{
		ID:        int(wq.ID),
		TopicID:   int(wq.TopicID),
		Questions: make([]model.Question, 0, len(wq.Questions)),
	}
	if q.TopicID == 0 {
		q.TopicID = topicID
	}
	if wq.Title != nil {
		q.Title = *wq.Title
	}
	for _, wqq := range wq.Questions {
		q.Questions = append(q.Questions, wqq.toModel())
	}
	if err := ValidateQuiz(q); err != nil {
		return model.Quiz{}, err
	}
	return q, nil
}
