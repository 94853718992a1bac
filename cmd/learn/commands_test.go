package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/quiz"
	"github.com/codeadapt/learn-gateway/internal/session"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    command
		wantErr bool
	}{
		{"", command{}, false},
		{"   ", command{}, false},
		{"next", command{name: cmdNext}, false},
		{"N", command{name: cmdNext}, false},
		{"select 3", command{name: cmdSelect, id: 3}, false},
		{"select", command{}, true},
		{"open x", command{}, true},
		{"open 0", command{}, true},
		{"answer 2 3", command{name: cmdAnswer, id: 2, arg: "3"}, false},
		{"a 2 Hyper Text Markup", command{name: cmdAnswer, id: 2, arg: "Hyper Text Markup"}, false},
		{"answer 2", command{}, true},
		{"retry", command{name: cmdRetry, arg: "full"}, false},
		{"retry WRONG", command{name: cmdRetry, arg: "wrong"}, false},
		{"retry half", command{}, true},
		{"dance", command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestResolveOption(t *testing.T) {
	v := session.View{Quiz: &quiz.View{Questions: []quiz.QuestionView{{
		ID:      1,
		Options: []quiz.OptionView{{Text: "a"}, {Text: "b"}},
	}}}}

	tests := []struct {
		name    string
		qid     int
		arg     string
		want    string
		wantErr bool
	}{
		{"by number", 1, "2", "b", false},
		{"by text", 1, "a", "a", false},
		{"number out of range", 1, "3", "", true},
		{"unknown question passes through", 9, "2", "2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOption(v, tt.qid, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveOption() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveOption() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := resolveOption(session.View{}, 1, "1"); err == nil {
		t.Error("resolveOption() without a quiz should fail")
	}
}

func TestRender(t *testing.T) {
	score := 1
	v := session.View{
		Topics: []session.SidebarEntry{
			{ID: 1, Title: "Intro", Active: true},
			{ID: 2, Title: "Tags", Disabled: true},
		},
		TopicState: session.TopicReady,
		Topic:      &model.Topic{ID: 1, Title: "Intro", Content: "Hello"},
		QuizState:  session.QuizReady,
		Quiz: &quiz.View{
			Questions: []quiz.QuestionView{{
				ID:       1,
				Question: "Pick",
				Options: []quiz.OptionView{
					{Text: "a", State: quiz.StateCorrect},
					{Text: "b", State: quiz.StateNeutral},
				},
			}},
			Score:    &score,
			MaxScore: 1,
		},
		Progress: &model.UnlockRecord{Score: 1},
		HasNext:  true,
		Durable:  true,
	}

	var buf bytes.Buffer
	render(&buf, v)
	out := buf.String()

	for _, want := range []string{"> ", "x ", "# Intro", "[v] 1. a", "Score: 1/1", "pass the quiz to continue", "stored score 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("render() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "not saved") {
		t.Errorf("render() flagged a durable session as unsaved:\n%s", out)
	}
}
