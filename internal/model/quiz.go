package model

// Question represents a single multiple-choice quiz question.
// CorrectAnswer must equal exactly one element of Options.
type Question struct {
	ID            int      `json:"id" yaml:"id"`
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty" yaml:"explanation"`
	Points        int      `json:"points,omitempty" yaml:"points"`
}

// HasOption reports whether opt is one of the question's options.
func (q Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Weight is the question's value in points scoring. Missing or non-positive points count as 1.
func (q Question) Weight() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// Quiz is the set of questions attached to a topic. A quiz without questions means
// "no quiz available" for that topic.
type Quiz struct {
	ID        int        `json:"id" yaml:"id"`
	TopicID   int        `json:"topic_id" yaml:"topic_id"`
	Title     string     `json:"title,omitempty" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Empty reports whether the quiz has no questions.
func (q Quiz) Empty() bool {
	return len(q.Questions) == 0
}

// EmptyQuiz returns the "no quiz" shape for a topic.
func EmptyQuiz(topicID int) Quiz {
	return Quiz{TopicID: topicID, Questions: []Question{}}
}
