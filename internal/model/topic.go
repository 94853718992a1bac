package model

// Topic is one lesson unit of a course.
type Topic struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Content     string `json:"content" yaml:"content"`
	CodeSnippet string `json:"code_snippet,omitempty" yaml:"code_snippet"`
}

// TopicSummary is a catalog entry. The order of a course's summaries is its navigation order.
type TopicSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
