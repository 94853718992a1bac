package catalog

import "github.com/codeadapt/learn-gateway/internal/model"

// DefaultCourses is the course list served when the upstream cannot be reached.
func DefaultCourses() []model.Course {
	return []model.Course{
		{ID: 1, Title: "JavaScript", Description: "Learn JS from basics to advanced."},
		{ID: 2, Title: "HTML", Description: "Master HTML structure and semantics."},
		{ID: 3, Title: "CSS", Description: "Style web pages beautifully with CSS."},
		{ID: 4, Title: "React", Description: "Build interactive UIs using React."},
		{ID: 5, Title: "PHP", Description: "Server-side scripting for web apps."},
		{ID: 6, Title: "SQL", Description: "Work with databases effectively."},
	}
}
