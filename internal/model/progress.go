package model

// TopicRef identifies one learner's view of one topic within one course.
// It is the only index of unlock records.
type TopicRef struct {
	LearnerID int `json:"learner_id"`
	CourseID  int `json:"course_id"`
	TopicID   int `json:"topic_id"`
}

// UnlockRecord is the persisted outcome of the latest scored attempt on a topic.
// Unlocked always equals Score >= the configured minimum score at write time.
type UnlockRecord struct {
	Score    int  `json:"score"`
	Unlocked bool `json:"unlocked"`
}

// ScoreReport is the progress payload reported to the upstream API after an unlocking submit.
type ScoreReport struct {
	UserID   int `json:"user_id"`
	CourseID int `json:"course_id"`
	TopicID  int `json:"topic_id"`
	Score    int `json:"score"`
	Attempts int `json:"attempts"`
	// Tries counts delivery attempts by the progress worker; not sent upstream.
	Tries int `json:"tries,omitempty"`
}
