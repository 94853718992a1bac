package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// coursePack is the on-disk layout of one course: the course header followed by
// its topics in navigation order, each with an optional quiz.
type coursePack struct {
	model.Course `yaml:",inline"`
	Topics       []packTopic `yaml:"topics"`
}

type packTopic struct {
	model.Topic `yaml:",inline"`
	Quiz        *model.Quiz `yaml:"quiz"`
}

// FileCatalog serves course packs loaded from a directory of YAML files.
type FileCatalog struct {
	rootDir string
	log     zerolog.Logger

	mu      sync.RWMutex
	courses map[int]model.Course
	order   map[int][]model.TopicSummary
	topics  map[int]model.Topic
	quizzes map[int]model.Quiz
	badQuiz map[int]error
}

// NewFileCatalog loads every *.yaml / *.yml file under rootDir.
func NewFileCatalog(rootDir string, log zerolog.Logger) (*FileCatalog, error) {
	c := &FileCatalog{
		rootDir: rootDir,
		log:     log.With().Str("component", "file_catalog").Logger(),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rereads the directory and swaps the loaded content in one step.
func (c *FileCatalog) Reload() error {
	next := &FileCatalog{
		courses: make(map[int]model.Course),
		order:   make(map[int][]model.TopicSummary),
		topics:  make(map[int]model.Topic),
		quizzes: make(map[int]model.Quiz),
		badQuiz: make(map[int]error),
		log:     c.log,
	}

	err := filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		return next.loadPack(path)
	})
	if err != nil {
		return fmt.Errorf("loading course packs: %w", err)
	}

	c.mu.Lock()
	c.courses, c.order, c.topics = next.courses, next.order, next.topics
	c.quizzes, c.badQuiz = next.quizzes, next.badQuiz
	c.mu.Unlock()

	c.log.Info().Int("courses", len(next.courses)).Int("topics", len(next.topics)).Msg("course packs loaded")
	return nil
}

func (c *FileCatalog) loadPack(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var pack coursePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("skipping invalid course pack")
		return nil
	}
	if pack.ID == 0 {
		return nil
	}
	if _, dup := c.courses[pack.ID]; dup {
		return fmt.Errorf("%s: duplicate course id %d", path, pack.ID)
	}

	summaries := make([]model.TopicSummary, 0, len(pack.Topics))
	for _, t := range pack.Topics {
		if t.ID == 0 {
			return fmt.Errorf("%s: topic %q has no id", path, t.Title)
		}
		if _, dup := c.topics[t.ID]; dup {
			return fmt.Errorf("%s: duplicate topic id %d", path, t.ID)
		}
		c.topics[t.ID] = t.Topic
		summaries = append(summaries, model.TopicSummary{ID: t.ID, Title: t.Title})

		if t.Quiz == nil {
			continue
		}
		q := *t.Quiz
		q.TopicID = t.ID
		if q.Questions == nil {
			q.Questions = []model.Question{}
		}
		if err := ValidateQuiz(q); err != nil {
			c.log.Warn().Err(err).Str("path", path).Int("topic_id", t.ID).Msg("quiz is malformed")
			c.badQuiz[t.ID] = err
			continue
		}
		c.quizzes[t.ID] = q
	}

	c.courses[pack.ID] = pack.Course
	c.order[pack.ID] = summaries
	return nil
}

func (c *FileCatalog) GetTopic(_ context.Context, topicID int) (model.Topic, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.topics[topicID]
	if !ok {
		return model.Topic{}, fmt.Errorf("topic %d: %w", topicID, ErrNotFound)
	}
	return t, nil
}

func (c *FileCatalog) ListTopics(_ context.Context, courseID int) ([]model.TopicSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, ok := c.order[courseID]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
	}
	return append([]model.TopicSummary(nil), order...), nil
}

func (c *FileCatalog) GetQuiz(_ context.Context, topicID int) (model.Quiz, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err, bad := c.badQuiz[topicID]; bad {
		return model.Quiz{}, err
	}
	q, ok := c.quizzes[topicID]
	if !ok {
		return model.EmptyQuiz(topicID), nil
	}
	q.Questions = append([]model.Question(nil), q.Questions...)
	return q, nil
}

func (c *FileCatalog) ListCourses(_ context.Context) ([]model.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Course, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
