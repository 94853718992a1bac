// Package quiz holds the per-topic quiz attempt state: answer selection, scoring,
// and the two retry flavours.
package quiz

import (
	"errors"
	"fmt"

	"github.com/codeadapt/learn-gateway/internal/model"
)

// Engine errors. None of them changes engine state.
var (
	ErrNoQuiz          = errors.New("topic has no quiz")
	ErrAnswersLocked   = errors.New("answers are locked until the quiz is retried")
	ErrUnknownQuestion = errors.New("question is not part of the current attempt")
	ErrUnknownOption   = errors.New("answer is not one of the question's options")
	ErrIncomplete      = errors.New("every question must be answered before submitting")
	ErrAlreadyScored   = errors.New("attempt has already been scored")
	ErrNothingToRetry  = errors.New("no wrong answers to retry")
)

// ScoringMode selects how correct answers turn into a score.
type ScoringMode string

const (
	// ScoreCount scores one point per correct answer.
	ScoreCount ScoringMode = "count"
	// ScorePoints sums the per-question points of correct answers.
	ScorePoints ScoringMode = "points"
)

// ParseScoringMode maps a config value to a ScoringMode.
func ParseScoringMode(s string) (ScoringMode, error) {
	switch ScoringMode(s) {
	case "", ScoreCount:
		return ScoreCount, nil
	case ScorePoints:
		return ScorePoints, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", s)
	}
}

// Result is the outcome of one Submit.
type Result struct {
	Score      int
	MaxScore   int
	Cumulative int
	Wrong      []model.Question
	Attempts   int
}

// Engine owns the attempt state of one topic view. It is not safe for concurrent
// use; the session controller serializes access.
type Engine struct {
	quiz     model.Quiz
	original []model.Question
	mode     ScoringMode

	active   []model.Question
	answers  map[int]string
	score    *int
	wrong    []model.Question
	attempts int

	// mastered holds original question ids answered correctly since load or RetryFull.
	mastered map[int]bool
}

// New creates an engine for quiz. The question set is copied; later changes to
// quiz do not leak into the engine.
func New(quiz model.Quiz, mode ScoringMode) *Engine {
	if mode == "" {
		mode = ScoreCount
	}
	e := &Engine{
		quiz:     quiz,
		original: cloneQuestions(quiz.Questions),
		mode:     mode,
	}
	e.quiz.Questions = nil
	e.reset()
	e.attempts = 0
	return e
}

// Empty reports whether the quiz has no questions. Empty quizzes are terminal.
func (e *Engine) Empty() bool {
	return len(e.original) == 0
}

// Scored reports whether the current sub-attempt has been scored.
func (e *Engine) Scored() bool {
	return e.score != nil
}

// Score returns the score of the current sub-attempt and whether it is set.
func (e *Engine) Score() (int, bool) {
	if e.score == nil {
		return 0, false
	}
	return *e.score, true
}

// Attempts returns the number of submits since load or the last RetryFull.
func (e *Engine) Attempts() int {
	return e.attempts
}

// Answers returns a copy of the recorded answers.
func (e *Engine) Answers() map[int]string {
	out := make(map[int]string, len(e.answers))
	for k, v := range e.answers {
		out[k] = v
	}
	return out
}

// Active returns a copy of the question set of the current sub-attempt.
func (e *Engine) Active() []model.Question {
	return cloneQuestions(e.active)
}

// Wrong returns a copy of the questions missed in the last scored sub-attempt.
func (e *Engine) Wrong() []model.Question {
	return cloneQuestions(e.wrong)
}

// SelectAnswer records or overwrites the answer to questionID.
func (e *Engine) SelectAnswer(questionID int, answer string) error {
	if e.Empty() {
		return ErrNoQuiz
	}
	if e.score != nil {
		return ErrAnswersLocked
	}
	q, ok := e.find(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if !q.HasOption(answer) {
		return ErrUnknownOption
	}
	e.answers[questionID] = answer
	return nil
}

// CanSubmit reports whether every active question has an answer and the
// sub-attempt is not yet scored.
func (e *Engine) CanSubmit() bool {
	if e.Empty() || e.score != nil {
		return false
	}
	for _, q := range e.active {
		if _, ok := e.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// Submit scores the current sub-attempt.
func (e *Engine) Submit() (Result, error) {
	if e.Empty() {
		return Result{}, ErrNoQuiz
	}
	if e.score != nil {
		return Result{}, ErrAlreadyScored
	}
	if !e.CanSubmit() {
		return Result{}, ErrIncomplete
	}

	score, maxScore := 0, 0
	wrong := make([]model.Question, 0)
	for _, q := range e.active {
		maxScore += e.weight(q)
		if e.answers[q.ID] == q.CorrectAnswer {
			score += e.weight(q)
			e.mastered[q.ID] = true
			continue
		}
		wrong = append(wrong, q)
	}

	e.score = &score
	e.wrong = wrong
	e.attempts++

	return Result{
		Score:      score,
		MaxScore:   maxScore,
		Cumulative: e.Cumulative(),
		Wrong:      cloneQuestions(wrong),
		Attempts:   e.attempts,
	}, nil
}

// Cumulative returns the score of every original question answered correctly in
// any sub-attempt since load or the last RetryFull.
func (e *Engine) Cumulative() int {
	total := 0
	for _, q := range e.original {
		if e.mastered[q.ID] {
			total += e.weight(q)
		}
	}
	return total
}

// MaxScore is the score of a perfect full attempt.
func (e *Engine) MaxScore() int {
	total := 0
	for _, q := range e.original {
		total += e.weight(q)
	}
	return total
}

// RetryWrong starts a sub-attempt over exactly the questions missed last time.
// Attempts are kept.
func (e *Engine) RetryWrong() error {
	if e.Empty() {
		return ErrNoQuiz
	}
	if len(e.wrong) == 0 {
		return ErrNothingToRetry
	}
	e.active = e.wrong
	e.answers = make(map[int]string)
	e.wrong = nil
	e.score = nil
	return nil
}

// RetryFull restores the original question set and resets attempts to 0.
func (e *Engine) RetryFull() error {
	if e.Empty() {
		return ErrNoQuiz
	}
	e.reset()
	e.attempts = 0
	return nil
}

func (e *Engine) reset() {
	e.active = cloneQuestions(e.original)
	e.answers = make(map[int]string)
	e.wrong = nil
	e.score = nil
	e.mastered = make(map[int]bool)
}

func (e *Engine) find(questionID int) (model.Question, bool) {
	for _, q := range e.active {
		if q.ID == questionID {
			return q, true
		}
	}
	return model.Question{}, false
}

func (e *Engine) weight(q model.Question) int {
	if e.mode == ScorePoints {
		return q.Weight()
	}
	return 1
}

func cloneQuestions(in []model.Question) []model.Question {
	out := make([]model.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
