// Package catalog reads courses, topics and quizzes from the upstream course
// API, from YAML course packs, or through a Redis cache in front of either.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeadapt/learn-gateway/internal/model"
)

// Failure taxonomy shared by every Catalog implementation.
var (
	ErrNotFound    = errors.New("catalog: not found")
	ErrMalformed   = errors.New("catalog: malformed payload")
	ErrUnavailable = errors.New("catalog: upstream unavailable")
)

// Catalog is the read side of the course content collaborator.
//
// GetQuiz never reports a missing quiz as an error: it returns the empty quiz
// shape instead. ListTopics returns topics in navigation order; an empty list is
// valid.
type Catalog interface {
	GetTopic(ctx context.Context, topicID int) (model.Topic, error)
	ListTopics(ctx context.Context, courseID int) ([]model.TopicSummary, error)
	GetQuiz(ctx context.Context, topicID int) (model.Quiz, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
}

// ValidateQuiz checks that every question of q can be answered: ids are set and
// unique, and the correct answer is one of the options.
func ValidateQuiz(q model.Quiz) error {
	seen := make(map[int]bool, len(q.Questions))
	for i, question := range q.Questions {
		if question.ID == 0 {
			return fmt.Errorf("%w: question #%d has no id", ErrMalformed, i+1)
		}
		if seen[question.ID] {
			return fmt.Errorf("%w: duplicate question id %d", ErrMalformed, question.ID)
		}
		seen[question.ID] = true

		if len(question.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrMalformed, question.ID)
		}
		if !question.HasOption(question.CorrectAnswer) {
			return fmt.Errorf("%w: question %d correct answer is not an option", ErrMalformed, question.ID)
		}
	}
	return nil
}
