package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Upstream ids arrive either as numbers or as numeric strings.
const idSchema = `{"type": ["integer", "string"], "pattern": "^[0-9]+$"}`

var (
	topicSchema = mustSchema(`{
		"type": "object",
		"required": ["id", "title"],
		"properties": {
			"id": ` + idSchema + `,
			"title": {"type": "string"},
			"content": {"type": ["string", "null"]},
			"code_snippet": {"type": ["string", "null"]}
		}
	}`)

	topicListSchema = mustSchema(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id": ` + idSchema + `,
				"title": {"type": "string"}
			}
		}
	}`)

	questionSchema = `{
		"type": "object",
		"required": ["id", "question", "options", "correct_answer"],
		"properties": {
			"id": ` + idSchema + `,
			"question": {"type": "string"},
			"options": {"type": ["array", "string"], "items": {"type": "string"}},
			"correct_answer": {"type": "string"},
			"explanation": {"type": ["string", "null"]},
			"points": {"type": ["integer", "string", "null"]}
		}
	}`

	// A quiz is either an object carrying questions or a bare question array.
	quizSchema = mustSchema(`{
		"oneOf": [
			{"type": "array", "items": ` + questionSchema + `},
			{
				"type": "object",
				"required": ["questions"],
				"properties": {
					"id": {"type": ["integer", "string", "null"]},
					"topic_id": {"type": ["integer", "string", "null"]},
					"title": {"type": ["string", "null"]},
					"questions": {"type": "array", "items": ` + questionSchema + `}
				}
			}
		]
	}`)

	courseListSchema = mustSchema(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id": ` + idSchema + `,
				"title": {"type": "string"},
				"description": {"type": ["string", "null"]}
			}
		}
	}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid schema: %v", err))
	}
	return s
}

// validate checks raw against s and reports violations as ErrMalformed.
func validate(s *gojsonschema.Schema, raw []byte) error {
	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
}
