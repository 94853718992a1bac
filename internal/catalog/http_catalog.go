package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/rs/zerolog"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 4 << 20

// HTTPCatalog talks to the upstream course API.
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// HTTPOption configures an HTTPCatalog.
type HTTPOption func(*HTTPCatalog)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPCatalog) {
		c.client = client
	}
}

// WithLogger sets the logger used for fallbacks.
func WithLogger(log zerolog.Logger) HTTPOption {
	return func(c *HTTPCatalog) {
		c.log = log
	}
}

// NewHTTPCatalog creates a catalog for the API rooted at baseURL.
func NewHTTPCatalog(baseURL string, opts ...HTTPOption) *HTTPCatalog {
	c := &HTTPCatalog{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "http_catalog").Logger()
	return c
}

func (c *HTTPCatalog) GetTopic(ctx context.Context, topicID int) (model.Topic, error) {
	env, err := c.get(ctx, "get_topic.php", url.Values{"topic_id": {strconv.Itoa(topicID)}})
	if err != nil {
		return model.Topic{}, fmt.Errorf("get topic %d: %w", topicID, err)
	}
	if isNull(env.Data) {
		return model.Topic{}, fmt.Errorf("get topic %d: %w", topicID, ErrNotFound)
	}
	if err := validate(topicSchema, env.Data); err != nil {
		return model.Topic{}, fmt.Errorf("get topic %d: %w", topicID, err)
	}

	var wt wireTopic
	if err := json.Unmarshal(env.Data, &wt); err != nil {
		return model.Topic{}, fmt.Errorf("get topic %d: %w: %v", topicID, ErrMalformed, err)
	}
	return wt.toModel(), nil
}

func (c *HTTPCatalog) ListTopics(ctx context.Context, courseID int) ([]model.TopicSummary, error) {
	env, err := c.get(ctx, "list_topics.php", url.Values{"course_id": {strconv.Itoa(courseID)}})
	if err != nil {
		return nil, fmt.Errorf("list topics of course %d: %w", courseID, err)
	}
	if isNull(env.Data) {
		return []model.TopicSummary{}, nil
	}
	if err := validate(topicListSchema, env.Data); err != nil {
		return nil, fmt.Errorf("list topics of course %d: %w", courseID, err)
	}

	var ws []wireSummary
	if err := json.Unmarshal(env.Data, &ws); err != nil {
		return nil, fmt.Errorf("list topics of course %d: %w: %v", courseID, ErrMalformed, err)
	}
	out := make([]model.TopicSummary, len(ws))
	for i, w := range ws {
		out[i] = model.TopicSummary{ID: int(w.ID), Title: w.Title}
	}
	return out, nil
}

// GetQuiz degrades a missing quiz row (404, success=false or null data) to the
// empty quiz.
func (c *HTTPCatalog) GetQuiz(ctx context.Context, topicID int) (model.Quiz, error) {
	env, err := c.get(ctx, "get_quiz.php", url.Values{"topic_id": {strconv.Itoa(topicID)}})
	if errors.Is(err, ErrNotFound) {
		return model.EmptyQuiz(topicID), nil
	}
	if err != nil {
		return model.Quiz{}, fmt.Errorf("get quiz of topic %d: %w", topicID, err)
	}
	if isNull(env.Data) {
		return model.EmptyQuiz(topicID), nil
	}
	if err := validate(quizSchema, env.Data); err != nil {
		return model.Quiz{}, fmt.Errorf("get quiz of topic %d: %w", topicID, err)
	}

	q, err := decodeQuiz(env.Data, topicID)
	if err != nil {
		return model.Quiz{}, fmt.Errorf("get quiz of topic %d: %w", topicID, err)
	}
	return q, nil
}

// ListCourses serves DefaultCourses when the upstream is unavailable.
func (c *HTTPCatalog) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := c.listCourses(ctx)
	if errors.Is(err, ErrUnavailable) {
		c.log.Warn().Err(err).Msg("course listing unavailable, serving built-in list")
		return DefaultCourses(), nil
	}
	return courses, err
}

func (c *HTTPCatalog) listCourses(ctx context.Context) ([]model.Course, error) {
	env, err := c.get(ctx, "get-courses.php", nil)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	raw := env.Courses
	if isNull(raw) {
		raw = env.Data
	}
	if isNull(raw) {
		return []model.Course{}, nil
	}
	if err := validate(courseListSchema, raw); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	var wc []wireCourse
	if err := json.Unmarshal(raw, &wc); err != nil {
		return nil, fmt.Errorf("list courses: %w: %v", ErrMalformed, err)
	}
	out := make([]model.Course, len(wc))
	for i, w := range wc {
		out[i] = w.toModel()
	}
	return out, nil
}

// SubmitScore reports a passing score upstream.
func (c *HTTPCatalog) SubmitScore(ctx context.Context, report model.ScoreReport) error {
	body, err := json.Marshal(struct {
		UserID  int `json:"user_id"`
		TopicID int `json:"topic_id"`
		Score   int `json:"score"`
	}{report.UserID, report.TopicID, report.Score})
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit_answer.php", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("submit score for topic %d: %w", report.TopicID, err)
	}
	return nil
}

func (c *HTTPCatalog) get(ctx context.Context, endpoint string, query url.Values) (envelope, error) {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return envelope{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// do sends req and classifies the outcome into the catalog error taxonomy.
func (c *HTTPCatalog) do(req *http.Request) (envelope, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return envelope{}, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	switch code := resp.StatusCode; {
	case code >= 200 && code <= 299:
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests:
		return envelope{}, fmt.Errorf("%w (status %d)", ErrUnavailable, code)
	case code >= 400 && code <= 499:
		// Other rejections are final, like success=false.
		return envelope{}, fmt.Errorf("%w (status %d)", ErrNotFound, code)
	default:
		return envelope{}, fmt.Errorf("%w (status %d)", ErrUnavailable, code)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request rejected"
		}
		return envelope{}, fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return env, nil
}
