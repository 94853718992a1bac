package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/codeadapt/learn-gateway/internal/quiz"
	"github.com/codeadapt/learn-gateway/internal/session"
)

var optionMarks = map[quiz.VisualState]string{
	quiz.StateNeutral:   "( )",
	quiz.StateSelected:  "(*)",
	quiz.StateCorrect:   "[v]",
	quiz.StateIncorrect: "[x]",
}

func render(w io.Writer, v session.View) {
	renderSidebar(w, v)
	fmt.Fprintln(w)

	switch v.TopicState {
	case session.TopicNone:
		fmt.Fprintln(w, "Pick a topic with 'select <id>'.")
		return
	case session.TopicFailed:
		renderFailure(w, "Topic", v.TopicError)
	case session.TopicReady:
		fmt.Fprintf(w, "# %s\n\n%s\n", v.Topic.Title, v.Topic.Content)
		if v.Topic.CodeSnippet != "" {
			fmt.Fprintf(w, "\n    %s\n", strings.ReplaceAll(v.Topic.CodeSnippet, "\n", "\n    "))
		}
	}
	fmt.Fprintln(w)

	switch v.QuizState {
	case session.QuizUnavailable:
		renderFailure(w, "Quiz", v.QuizError)
	case session.QuizNone:
		fmt.Fprintln(w, "This topic has no quiz.")
	case session.QuizReady:
		renderQuiz(w, v.Quiz)
	}

	fmt.Fprintln(w)
	renderFooter(w, v)
}

func renderSidebar(w io.Writer, v session.View) {
	for _, t := range v.Topics {
		marker := "  "
		switch {
		case t.Active:
			marker = "> "
		case t.Disabled:
			marker = "x "
		}
		fmt.Fprintf(w, "%s%3d  %s\n", marker, t.ID, t.Title)
	}
}

func renderFailure(w io.Writer, what string, f *session.Failure) {
	if f == nil {
		fmt.Fprintf(w, "%s could not be loaded.\n", what)
		return
	}
	fmt.Fprintf(w, "%s could not be loaded (%s): %s\n", what, f.Kind, f.Message)
	if f.Retryable {
		fmt.Fprintln(w, "Select the topic again to retry.")
	}
}

func renderQuiz(w io.Writer, q *quiz.View) {
	if q == nil {
		return
	}
	if q.Title != "" {
		fmt.Fprintf(w, "## %s\n", q.Title)
	}
	for _, question := range q.Questions {
		fmt.Fprintf(w, "Q%d. %s\n", question.ID, question.Question)
		for i, opt := range question.Options {
			fmt.Fprintf(w, "   %s %d. %s\n", optionMarks[opt.State], i+1, opt.Text)
		}
		if question.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", question.Explanation)
		}
	}
	if q.Score != nil {
		fmt.Fprintf(w, "Score: %d/%d (cumulative %d, attempt %d)\n", *q.Score, q.MaxScore, q.Cumulative, q.Attempts)
		if q.CanRetryWrong {
			fmt.Fprintf(w, "%d wrong. 'retry wrong' replays them.\n", q.WrongCount)
		}
		return
	}
	fmt.Fprintf(w, "Answered %d/%d\n", q.Answered, q.Total)
}

func renderFooter(w io.Writer, v session.View) {
	var parts []string
	if v.Progress != nil {
		parts = append(parts, fmt.Sprintf("stored score %d", v.Progress.Score))
	}
	switch {
	case v.Unlocked:
		parts = append(parts, "unlocked")
	case v.QuizState == session.QuizReady:
		parts = append(parts, "locked")
	}
	if v.HasNext {
		if v.CanAdvance {
			parts = append(parts, "'next' available")
		} else {
			parts = append(parts, "pass the quiz to continue")
		}
	}
	if !v.Durable {
		parts = append(parts, "progress not saved to disk")
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "[%s]\n", strings.Join(parts, ", "))
	}
}

func renderProgress(w io.Writer, topicID int, rec model.UnlockRecord, found bool) {
	if !found {
		fmt.Fprintf(w, "Topic %d: no score yet (locked)\n", topicID)
		return
	}
	state := "locked"
	if rec.Unlocked {
		state = "unlocked"
	}
	fmt.Fprintf(w, "Topic %d: score %d, %s\n", topicID, rec.Score, state)
}
