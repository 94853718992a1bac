package quiz_test

import (
	"testing"

	"github.com/codeadapt/learn-gateway/internal/quiz"
)

func TestOptionState(t *testing.T) {
	tests := []struct {
		name                         string
		selected, correct, submitted bool
		want                         quiz.VisualState
	}{
		{"untouched", false, false, false, quiz.StateNeutral},
		{"correct option hidden before submit", false, true, false, quiz.StateNeutral},
		{"picked before submit", true, false, false, quiz.StateSelected},
		{"picked correct before submit", true, true, false, quiz.StateSelected},
		{"picked correct", true, true, true, quiz.StateCorrect},
		{"picked wrong", true, false, true, quiz.StateIncorrect},
		{"missed correct", false, true, true, quiz.StateCorrect},
		{"other option", false, false, true, quiz.StateNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quiz.OptionState(tt.selected, tt.correct, tt.submitted); got != tt.want {
				t.Errorf("OptionState() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshot_HidesAnswersUntilScored(t *testing.T) {
	e := quiz.New(fiveQuestionQuiz(), quiz.ScoreCount)
	_ = e.SelectAnswer(1, "b")

	v := e.Snapshot()
	if v.Total != 5 || v.Answered != 1 {
		t.Fatalf("Total/Answered = %d/%d, want 5/1", v.Total, v.Answered)
	}
	if v.Score != nil {
		t.Error("Score should be nil before submit")
	}
	for _, q := range v.Questions {
		if q.CorrectAnswer != "" || q.Explanation != "" || q.Correct != nil {
			t.Fatalf("question %d leaks answer before scoring: %+v", q.ID, q)
		}
	}
	if v.Questions[0].Options[1].State != quiz.StateSelected {
		t.Errorf("picked option state = %q, want selected", v.Questions[0].Options[1].State)
	}
}

func TestSnapshot_AfterScoring(t *testing.T) {
	e := quiz.New(fiveQuestionQuiz(), quiz.ScoreCount)
	answerAll(t, e, map[int]bool{1: true})
	if _, err := e.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	v := e.Snapshot()
	if v.Score == nil || *v.Score != 1 {
		t.Fatalf("Score = %v, want 1", v.Score)
	}
	if !v.CanRetryWrong || v.WrongCount != 4 {
		t.Errorf("CanRetryWrong/WrongCount = %v/%d, want true/4", v.CanRetryWrong, v.WrongCount)
	}
	if v.CanSubmit {
		t.Error("CanSubmit should be false after scoring")
	}

	first := v.Questions[0]
	if first.Correct == nil || !*first.Correct || first.CorrectAnswer != "a" {
		t.Errorf("question 1 feedback = %+v", first)
	}
	second := v.Questions[1]
	if second.Options[0].State != quiz.StateCorrect || second.Options[1].State != quiz.StateIncorrect {
		t.Errorf("question 2 option states = %+v", second.Options)
	}
}
