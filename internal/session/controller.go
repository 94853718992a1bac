// Package session drives one learner's walk through a course: topic selection,
// the quiz attempt of the active topic, and the unlock gate on "next".
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/progress"
	"github.com/codeadapt/learn-gateway/internal/quiz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNoTopicSelected  = errors.New("no topic selected")
	ErrTopicNotInCourse = errors.New("topic is not part of this course")
	ErrTopicLocked      = errors.New("pass the current topic's quiz to unlock the next topic")
	ErrSuperseded       = errors.New("selection superseded by a newer one")
	ErrQuizNotReady     = errors.New("quiz is not loaded")
	ErrSessionClosed    = errors.New("session is closed")
)

// Direction of a prev/next navigation.
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// reportTimeout bounds a detached progress report.
const reportTimeout = 10 * time.Second

// Deps are the collaborators shared by every controller of a process.
type Deps struct {
	Catalog   catalog.Catalog
	Store     *progress.Store
	Reporter  Reporter
	Publisher Publisher
	Mode      quiz.ScoringMode
	Log       zerolog.Logger
}

// Controller is the progression state of one (learner, course) session. All
// methods are safe for concurrent use.
type Controller struct {
	id        string
	learnerID int
	courseID  int
	deps      Deps
	log       zerolog.Logger

	mu     sync.Mutex
	topics []model.TopicSummary
	index  int
	closed bool

	// gen is bumped on every selection; fetch results carrying an older value are dropped.
	gen    uint64
	cancel context.CancelFunc

	topic        *model.Topic
	topicState   TopicState
	topicFailure *Failure
	quizState    QuizState
	quizFailure  *Failure
	engine       *quiz.Engine

	record   *model.UnlockRecord
	unlocked bool
	durable  bool

	// recordFailed is set while the active topic's record could not be read.
	recordFailed bool

	// submitMu orders Submit's store writes; mu is released while one is in flight.
	submitMu sync.Mutex

	attached   int
	lastActive time.Time
}

// NewController creates a session over topics, in navigation order. No topic is
// selected yet.
func NewController(learnerID, courseID int, topics []model.TopicSummary, deps Deps) *Controller {
	if deps.Reporter == nil {
		deps.Reporter = NopReporter{}
	}
	if deps.Publisher == nil {
		deps.Publisher = NopPublisher{}
	}
	id := uuid.NewString()
	return &Controller{
		id:         id,
		learnerID:  learnerID,
		courseID:   courseID,
		deps:       deps,
		log:        deps.Log.With().Str("component", "session").Str("session_id", id).Int("learner_id", learnerID).Int("course_id", courseID).Logger(),
		topics:     append([]model.TopicSummary(nil), topics...),
		index:      -1,
		topicState: TopicNone,
		quizState:  QuizNone,
		durable:    true,
		lastActive: time.Now(),
	}
}

// ID returns the session id.
func (c *Controller) ID() string {
	return c.id
}

// Attach marks the session as held by a live view, which keeps the manager
// from sweeping it. ok is false if the session is already closed.
func (c *Controller) Attach() (release func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false
	}
	c.attached++
	c.lastActive = time.Now()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.attached--
			c.lastActive = time.Now()
			c.mu.Unlock()
		})
	}, true
}

// idle reports whether no view is attached and nothing happened since cutoff.
func (c *Controller) idle(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached == 0 && c.lastActive.Before(cutoff)
}

// View returns a snapshot of the session.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// SelectTopic makes topicID the active topic, ungated. This is the router
// trigger: every topic of the course can be opened directly.
func (c *Controller) SelectTopic(ctx context.Context, topicID int) (View, error) {
	return c.selectTopic(ctx, topicID, false)
}

// SelectFromSidebar is SelectTopic with the sidebar rule applied: topics after
// the active one are disabled until the active topic is unlocked.
func (c *Controller) SelectFromSidebar(ctx context.Context, topicID int) (View, error) {
	return c.selectTopic(ctx, topicID, true)
}

func (c *Controller) selectTopic(ctx context.Context, topicID int, gated bool) (View, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return View{}, ErrSessionClosed
	}
	c.lastActive = time.Now()

	idx := c.indexOf(topicID)
	if idx < 0 {
		c.mu.Unlock()
		return View{}, ErrTopicNotInCourse
	}
	if gated && c.sidebarDisabled(idx) {
		c.mu.Unlock()
		return View{}, ErrTopicLocked
	}
	if idx == c.index && !c.needsReload() {
		if c.recordFailed {
			c.mu.Unlock()
			return c.rereadRecord(ctx, topicID)
		}
		v := c.viewLocked()
		c.mu.Unlock()
		return v, nil
	}

	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.index = idx
	c.topic = nil
	c.topicState, c.topicFailure = TopicLoading, nil
	c.quizState, c.quizFailure = QuizLoading, nil
	c.engine = nil
	c.record = nil
	c.unlocked = false
	c.recordFailed = false
	c.mu.Unlock()

	ref := c.ref(topicID)
	var (
		wg       sync.WaitGroup
		topic    model.Topic
		topicErr error
		q        model.Quiz
		quizErr  error
		rec      model.UnlockRecord
		found    bool
		recErr   error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		topic, topicErr = c.deps.Catalog.GetTopic(fetchCtx, topicID)
	}()
	go func() {
		defer wg.Done()
		q, quizErr = c.deps.Catalog.GetQuiz(fetchCtx, topicID)
	}()
	go func() {
		defer wg.Done()
		rec, found, recErr = c.deps.Store.Get(fetchCtx, ref)
	}()
	wg.Wait()

	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		cancel()
		c.log.Debug().Int("topic_id", topicID).Msg("discarding stale topic fetch")
		return View{}, ErrSuperseded
	}
	cancel()
	c.cancel = nil

	c.applyTopic(topicID, topic, topicErr)
	c.applyQuiz(topicID, q, quizErr)
	c.applyRecord(rec, found, recErr)
	v := c.viewLocked()
	c.mu.Unlock()

	c.publish(ctx, EventTopicSelected, topicID, v)
	return v, nil
}

// rereadRecord retries a failed unlock record read for the active topic
// without touching its content or the attempt in progress.
func (c *Controller) rereadRecord(ctx context.Context, topicID int) (View, error) {
	rec, found, err := c.deps.Store.Get(ctx, c.ref(topicID))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return View{}, ErrSessionClosed
	}
	// A selection or submit since the read carries a newer answer.
	if c.index < 0 || c.topics[c.index].ID != topicID || !c.recordFailed {
		return c.viewLocked(), nil
	}
	c.applyRecord(rec, found, err)
	return c.viewLocked(), nil
}

func (c *Controller) applyRecord(rec model.UnlockRecord, found bool, err error) {
	c.recordFailed = err != nil
	if found {
		c.record = &rec
		c.unlocked = rec.Unlocked
	}
}

// needsReload reports whether the active topic's last load failed in a way the
// learner can retry by selecting it again.
func (c *Controller) needsReload() bool {
	return c.topicState == TopicFailed || c.quizState == QuizUnavailable
}

func (c *Controller) applyTopic(topicID int, topic model.Topic, err error) {
	if err == nil {
		c.topic = &topic
		c.topicState = TopicReady
		return
	}
	c.topicState = TopicFailed
	c.topicFailure = classify(err)
	c.log.Warn().Err(err).Int("topic_id", topicID).Msg("topic failed to load")
}

func (c *Controller) applyQuiz(topicID int, q model.Quiz, err error) {
	switch {
	case err == nil && !q.Empty():
		c.quizState = QuizReady
		c.engine = quiz.New(q, c.deps.Mode)
	case err == nil:
		c.quizState = QuizNone
		c.engine = quiz.New(model.EmptyQuiz(topicID), c.deps.Mode)
	case errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrMalformed):
		c.quizState = QuizNone
		c.quizFailure = classify(err)
		c.engine = quiz.New(model.EmptyQuiz(topicID), c.deps.Mode)
		c.log.Warn().Err(err).Int("topic_id", topicID).Msg("quiz unusable, treating topic as quiz-less")
	default:
		c.quizState = QuizUnavailable
		c.quizFailure = classify(err)
		c.log.Warn().Err(err).Int("topic_id", topicID).Msg("quiz failed to load")
	}
}

// SelectAnswer records an answer for the active topic's quiz.
func (c *Controller) SelectAnswer(ctx context.Context, questionID int, answer string) (View, error) {
	return c.mutateQuiz(ctx, EventAnswerSelected, func(e *quiz.Engine) error {
		return e.SelectAnswer(questionID, answer)
	})
}

// RetryWrong replays the questions missed in the last scored attempt.
func (c *Controller) RetryWrong(ctx context.Context) (View, error) {
	return c.mutateQuiz(ctx, EventQuizRetried, (*quiz.Engine).RetryWrong)
}

// RetryFull restarts the quiz from the original question set.
func (c *Controller) RetryFull(ctx context.Context) (View, error) {
	return c.mutateQuiz(ctx, EventQuizRetried, (*quiz.Engine).RetryFull)
}

func (c *Controller) mutateQuiz(ctx context.Context, ev EventType, fn func(*quiz.Engine) error) (View, error) {
	c.mu.Lock()
	e, err := c.activeEngine()
	if err != nil {
		c.mu.Unlock()
		return View{}, err
	}
	if err := fn(e); err != nil {
		c.mu.Unlock()
		return View{}, err
	}
	topicID := c.topics[c.index].ID
	v := c.viewLocked()
	c.mu.Unlock()

	c.publish(ctx, ev, topicID, v)
	return v, nil
}

// Submit scores the current attempt, persists the cumulative score and updates
// the unlock gate. Passing scores are reported upstream in the background.
func (c *Controller) Submit(ctx context.Context) (View, error) {
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	c.mu.Lock()
	e, err := c.activeEngine()
	if err != nil {
		c.mu.Unlock()
		return View{}, err
	}
	res, err := e.Submit()
	if err != nil {
		c.mu.Unlock()
		return View{}, err
	}
	topicID := c.topics[c.index].ID
	gen := c.gen
	c.mu.Unlock()

	rec, durable := c.deps.Store.Put(ctx, c.ref(topicID), res.Cumulative)

	c.mu.Lock()
	c.durable = c.durable && durable
	// The record is stored either way; only the topic it was scored on shows it.
	if gen == c.gen {
		c.record = &rec
		c.unlocked = rec.Unlocked
		c.recordFailed = false
	}
	v := c.viewLocked()
	c.mu.Unlock()

	c.log.Info().
		Int("topic_id", topicID).
		Int("score", res.Score).
		Int("cumulative", res.Cumulative).
		Int("attempts", res.Attempts).
		Bool("unlocked", rec.Unlocked).
		Msg("quiz submitted")

	if rec.Unlocked {
		c.report(model.ScoreReport{
			UserID:   c.learnerID,
			CourseID: c.courseID,
			TopicID:  topicID,
			Score:    rec.Score,
			Attempts: res.Attempts,
		})
	}
	c.publish(ctx, EventQuizSubmitted, topicID, v)
	return v, nil
}

// CanAdvance reports whether "next" is enabled: a next topic exists and the
// active topic is unlocked or has no quiz.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAdvanceLocked()
}

// Navigate moves to the previous or next topic. Moving back is never gated and
// is a no-op on the first topic; moving forward requires CanAdvance and is a
// no-op on the last topic.
func (c *Controller) Navigate(ctx context.Context, dir Direction) (View, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return View{}, ErrSessionClosed
	}
	if c.index < 0 {
		c.mu.Unlock()
		return View{}, ErrNoTopicSelected
	}

	target := c.index
	switch dir {
	case DirectionPrev:
		if c.index > 0 {
			target = c.index - 1
		}
	case DirectionNext:
		if c.index < len(c.topics)-1 {
			if !c.gateOpen() {
				c.mu.Unlock()
				return View{}, ErrTopicLocked
			}
			target = c.index + 1
		}
	}
	if target == c.index {
		v := c.viewLocked()
		c.mu.Unlock()
		return v, nil
	}
	topicID := c.topics[target].ID
	c.mu.Unlock()

	return c.SelectTopic(ctx, topicID)
}

// Progress reads the persisted unlock record of one topic of the course.
func (c *Controller) Progress(ctx context.Context, topicID int) (model.UnlockRecord, bool, error) {
	c.mu.Lock()
	idx := c.indexOf(topicID)
	c.mu.Unlock()
	if idx < 0 {
		return model.UnlockRecord{}, false, ErrTopicNotInCourse
	}
	// A read failure reads as locked, like everywhere else.
	rec, found, _ := c.deps.Store.Get(ctx, c.ref(topicID))
	return rec, found, nil
}

// Close cancels any in-flight fetch. Later operations fail with ErrSessionClosed.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.mu.Unlock()

	c.publish(ctx, EventSessionClosed, 0, View{})
}

func (c *Controller) activeEngine() (*quiz.Engine, error) {
	if c.closed {
		return nil, ErrSessionClosed
	}
	c.lastActive = time.Now()
	if c.index < 0 {
		return nil, ErrNoTopicSelected
	}
	if c.engine == nil {
		return nil, ErrQuizNotReady
	}
	return c.engine, nil
}

// gateOpen reports whether the active topic lets the learner move on.
func (c *Controller) gateOpen() bool {
	if c.index < 0 {
		return false
	}
	return c.quizState == QuizNone || c.unlocked
}

func (c *Controller) canAdvanceLocked() bool {
	return c.index >= 0 && c.index < len(c.topics)-1 && c.gateOpen()
}

// sidebarDisabled applies the sidebar rule to entry idx. With no active topic
// only the first entry is enabled.
func (c *Controller) sidebarDisabled(idx int) bool {
	if c.index < 0 {
		return idx > 0
	}
	return idx > c.index && !c.gateOpen()
}

func (c *Controller) indexOf(topicID int) int {
	for i, t := range c.topics {
		if t.ID == topicID {
			return i
		}
	}
	return -1
}

func (c *Controller) ref(topicID int) model.TopicRef {
	return model.TopicRef{LearnerID: c.learnerID, CourseID: c.courseID, TopicID: topicID}
}

func (c *Controller) viewLocked() View {
	v := View{
		SessionID:  c.id,
		CourseID:   c.courseID,
		Topics:     make([]SidebarEntry, len(c.topics)),
		TopicState: c.topicState,
		TopicError: c.topicFailure,
		QuizState:  c.quizState,
		QuizError:  c.quizFailure,
		Unlocked:   c.gateOpen(),
		HasPrev:    c.index > 0,
		HasNext:    c.index >= 0 && c.index < len(c.topics)-1,
		CanAdvance: c.canAdvanceLocked(),
		Durable:    c.durable,
	}
	for i, t := range c.topics {
		v.Topics[i] = SidebarEntry{
			ID:       t.ID,
			Title:    t.Title,
			Active:   i == c.index,
			Disabled: c.sidebarDisabled(i),
		}
	}
	if c.index >= 0 {
		v.ActiveTopicID = c.topics[c.index].ID
	}
	if c.topic != nil {
		t := *c.topic
		v.Topic = &t
	}
	if c.engine != nil && !c.engine.Empty() {
		qv := c.engine.Snapshot()
		v.Quiz = &qv
	}
	if c.record != nil {
		r := *c.record
		v.Progress = &r
	}
	return v
}

func (c *Controller) report(r model.ScoreReport) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		if err := c.deps.Reporter.Report(ctx, r); err != nil {
			c.log.Warn().Err(err).Int("topic_id", r.TopicID).Msg("progress report failed")
		}
	}()
}

func (c *Controller) publish(ctx context.Context, typ EventType, topicID int, v View) {
	ev := Event{
		Type:      typ,
		SessionID: c.id,
		LearnerID: c.learnerID,
		CourseID:  c.courseID,
		TopicID:   topicID,
		At:        time.Now().UTC(),
	}
	if typ != EventSessionClosed {
		ev.View = &v
	}
	if err := c.deps.Publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		c.log.Warn().Err(err).Str("event", string(typ)).Msg("publish failed")
	}
}

func classify(err error) *Failure {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return &Failure{Kind: FailureNotFound, Message: "This content could not be found."}
	case errors.Is(err, catalog.ErrMalformed):
		return &Failure{Kind: FailureMalformed, Message: "This content is incomplete and cannot be shown."}
	default:
		return &Failure{Kind: FailureUnavailable, Message: "The course service is unreachable. Select the topic again to retry.", Retryable: true}
	}
}
