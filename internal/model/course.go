package model

// Course is a course summary as listed on the courses page.
type Course struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Level       string `json:"level,omitempty" yaml:"level"`
	Duration    string `json:"duration,omitempty" yaml:"duration"`
}
