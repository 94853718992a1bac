package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/rs/zerolog"
)

const jsPack = `
id: 1
title: JavaScript
description: Learn JS from basics to advanced.
topics:
  - id: 10
    title: Variables
    content: let and const
    quiz:
      id: 100
      questions:
        - id: 1
          question: Which keyword declares a constant?
          options: [var, let, const]
          correct_answer: const
          explanation: const bindings cannot be reassigned.
  - id: 11
    title: Functions
    content: function declarations
  - id: 12
    title: Broken
    quiz:
      questions:
        - id: 1
          question: Which letter?
          options: [a]
          correct_answer: b
`

const htmlPack = `
id: 2
title: HTML
topics: []
`

func writePacks(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFileCatalog(t *testing.T) {
	dir := writePacks(t, map[string]string{
		"js.yaml":         jsPack,
		"markup/html.yml": htmlPack,
		"README.md":       "# not a pack",
		"broken.yaml":     "id: [not valid",
	})
	c, err := catalog.NewFileCatalog(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileCatalog() error = %v", err)
	}
	ctx := context.Background()

	courses, _ := c.ListCourses(ctx)
	if len(courses) != 2 || courses[0].ID != 1 || courses[1].ID != 2 {
		t.Fatalf("ListCourses() = %+v", courses)
	}

	topics, err := c.ListTopics(ctx, 1)
	if err != nil || len(topics) != 3 || topics[0].ID != 10 || topics[2].ID != 12 {
		t.Fatalf("ListTopics(1) = %+v, %v", topics, err)
	}
	if empty, err := c.ListTopics(ctx, 2); err != nil || len(empty) != 0 {
		t.Errorf("ListTopics(2) = %+v, %v; want empty", empty, err)
	}
	if _, err := c.ListTopics(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("ListTopics(99) error = %v, want ErrNotFound", err)
	}

	topic, err := c.GetTopic(ctx, 10)
	if err != nil || topic.Title != "Variables" {
		t.Errorf("GetTopic(10) = %+v, %v", topic, err)
	}
	if _, err := c.GetTopic(ctx, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetTopic(99) error = %v, want ErrNotFound", err)
	}

	quiz, err := c.GetQuiz(ctx, 10)
	if err != nil || len(quiz.Questions) != 1 || quiz.TopicID != 10 {
		t.Errorf("GetQuiz(10) = %+v, %v", quiz, err)
	}
	if q, err := c.GetQuiz(ctx, 11); err != nil || !q.Empty() {
		t.Errorf("GetQuiz(11) = %+v, %v; want empty quiz", q, err)
	}
	if _, err := c.GetQuiz(ctx, 12); !errors.Is(err, catalog.ErrMalformed) {
		t.Errorf("GetQuiz(12) error = %v, want ErrMalformed", err)
	}
}

func TestFileCatalog_DuplicateTopicIDs(t *testing.T) {
	dir := writePacks(t, map[string]string{
		"a.yaml": "id: 1\ntitle: A\ntopics:\n  - id: 5\n    title: x\n",
		"b.yaml": "id: 2\ntitle: B\ntopics:\n  - id: 5\n    title: y\n",
	})
	if _, err := catalog.NewFileCatalog(dir, zerolog.Nop()); err == nil {
		t.Error("NewFileCatalog() should reject duplicate topic ids")
	}
}

func TestFileCatalog_Reload(t *testing.T) {
	dir := writePacks(t, map[string]string{"html.yaml": htmlPack})
	c, err := catalog.NewFileCatalog(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "js.yaml"), []byte(jsPack), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if courses, _ := c.ListCourses(context.Background()); len(courses) != 2 {
		t.Errorf("ListCourses() after reload = %d courses, want 2", len(courses))
	}
}
