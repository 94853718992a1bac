package quiz

// VisualState is the feedback state of one answer option.
type VisualState string

const (
	StateNeutral   VisualState = "neutral"
	StateSelected  VisualState = "selected"
	StateCorrect   VisualState = "correct"
	StateIncorrect VisualState = "incorrect"
)

// OptionState maps an option to its feedback state. Before scoring only the
// learner's pick is highlighted; after scoring the correct option is marked
// correct and a wrong pick is marked incorrect.
func OptionState(selected, correct, submitted bool) VisualState {
	if !submitted {
		if selected {
			return StateSelected
		}
		return StateNeutral
	}
	switch {
	case correct:
		return StateCorrect
	case selected:
		return StateIncorrect
	default:
		return StateNeutral
	}
}

// OptionView is one rendered option.
type OptionView struct {
	Text  string      `json:"text"`
	State VisualState `json:"state"`
}

// QuestionView is one rendered question. The correct answer and explanation are
// only filled in once the sub-attempt has been scored.
type QuestionView struct {
	ID            int          `json:"id"`
	Question      string       `json:"question"`
	Options       []OptionView `json:"options"`
	Selected      string       `json:"selected,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
	Correct       *bool        `json:"correct,omitempty"`
}

// View is a render-ready snapshot of the engine.
type View struct {
	QuizID        int            `json:"quiz_id"`
	Title         string         `json:"title,omitempty"`
	Questions     []QuestionView `json:"questions"`
	Answered      int            `json:"answered"`
	Total         int            `json:"total"`
	Score         *int           `json:"score"`
	MaxScore      int            `json:"max_score"`
	Cumulative    int            `json:"cumulative"`
	Attempts      int            `json:"attempts"`
	WrongCount    int            `json:"wrong_count"`
	CanSubmit     bool           `json:"can_submit"`
	CanRetryWrong bool           `json:"can_retry_wrong"`
}

// Snapshot renders the current sub-attempt.
func (e *Engine) Snapshot() View {
	submitted := e.score != nil
	v := View{
		QuizID:        e.quiz.ID,
		Title:         e.quiz.Title,
		Questions:     make([]QuestionView, 0, len(e.active)),
		Total:         len(e.active),
		Cumulative:    e.Cumulative(),
		Attempts:      e.attempts,
		WrongCount:    len(e.wrong),
		CanSubmit:     e.CanSubmit(),
		CanRetryWrong: submitted && len(e.wrong) > 0,
	}
	if submitted {
		s := *e.score
		v.Score = &s
	}

	for _, q := range e.active {
		v.MaxScore += e.weight(q)
		picked, answered := e.answers[q.ID]
		if answered {
			v.Answered++
		}

		qv := QuestionView{
			ID:       q.ID,
			Question: q.Question,
			Options:  make([]OptionView, len(q.Options)),
			Selected: picked,
		}
		for i, opt := range q.Options {
			qv.Options[i] = OptionView{
				Text:  opt,
				State: OptionState(answered && opt == picked, opt == q.CorrectAnswer, submitted),
			}
		}
		if submitted {
			ok := picked == q.CorrectAnswer
			qv.Correct = &ok
			qv.CorrectAnswer = q.CorrectAnswer
			qv.Explanation = q.Explanation
		}
		v.Questions = append(v.Questions, qv)
	}
	return v
}
