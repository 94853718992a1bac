package model

// SelectTopicRequest is the payload for picking a topic from the sidebar.
type SelectTopicRequest struct {
	TopicID int `json:"topic_id" binding:"required,min=1"`
}

// SelectAnswerRequest records the learner's choice for one question.
type SelectAnswerRequest struct {
	QuestionID int    `json:"question_id" binding:"required,min=1"`
	Answer     string `json:"answer" binding:"required,max=2000"`
}

// RetryRequest restarts the quiz: "wrong" replays the missed questions, "full" restarts everything.
type RetryRequest struct {
	Mode string `json:"mode" binding:"required,retrymode"`
}

// NavigateRequest moves to the previous or next topic.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,direction"`
}
