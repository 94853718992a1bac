package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/model"
)

// upstream serves fixed bodies per endpoint path.
func upstream(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *catalog.HTTPCatalog {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
			return
		}
		h(w, r)
	}))
	t.Cleanup(server.Close)
	return catalog.NewHTTPCatalog(server.URL + "/")
}

func body(s string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, s)
	}
}

func status(code int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func TestHTTPCatalog_GetTopic(t *testing.T) {
	c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/get_topic.php": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("topic_id"); got != "3" {
				t.Errorf("topic_id = %q, want 3", got)
			}
			body(`{"success":true,"data":{"id":"3","title":"Closures","content":"...","code_snippet":null}}`)(w, r)
		},
	})

	topic, err := c.GetTopic(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetTopic() error = %v", err)
	}
	if topic.ID != 3 || topic.Title != "Closures" || topic.CodeSnippet != "" {
		t.Errorf("GetTopic() = %+v", topic)
	}
}

func TestHTTPCatalog_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		handler func(http.ResponseWriter, *http.Request)
		want    error
	}{
		{"404", status(http.StatusNotFound), catalog.ErrNotFound},
		{"400", status(http.StatusBadRequest), catalog.ErrNotFound},
		{"401", status(http.StatusUnauthorized), catalog.ErrNotFound},
		{"403", status(http.StatusForbidden), catalog.ErrNotFound},
		{"429", status(http.StatusTooManyRequests), catalog.ErrUnavailable},
		{"success false", body(`{"success":false,"error":"Topic not found"}`), catalog.ErrNotFound},
		{"null data", body(`{"success":true,"data":null}`), catalog.ErrNotFound},
		{"500", status(http.StatusInternalServerError), catalog.ErrUnavailable},
		{"503", status(http.StatusServiceUnavailable), catalog.ErrUnavailable},
		{"not json", body(`<html>oops</html>`), catalog.ErrMalformed},
		{"missing title", body(`{"success":true,"data":{"id":3}}`), catalog.ErrMalformed},
		{"bad id", body(`{"success":true,"data":{"id":"abc","title":"x"}}`), catalog.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){"/get_topic.php": tt.handler})
			_, err := c.GetTopic(context.Background(), 3)
			if !errors.Is(err, tt.want) {
				t.Errorf("GetTopic() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHTTPCatalog_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := catalog.NewHTTPCatalog(url).ListTopics(context.Background(), 1)
	if !errors.Is(err, catalog.ErrUnavailable) {
		t.Errorf("ListTopics() error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPCatalog_ListTopics(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []model.TopicSummary
	}{
		{"ordered", `[{"id":2,"title":"B"},{"id":"1","title":"A"}]`, []model.TopicSummary{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}},
		{"empty", `[]`, []model.TopicSummary{}},
		{"null", `null`, []model.TopicSummary{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){
				"/list_topics.php": body(`{"success":true,"data":` + tt.data + `}`),
			})
			got, err := c.ListTopics(context.Background(), 1)
			if err != nil {
				t.Fatalf("ListTopics() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ListTopics() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ListTopics()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHTTPCatalog_GetQuiz(t *testing.T) {
	const question = `{"id":1,"question":"2+2?","options":["3","4"],"correct_answer":"4"}`
	tests := []struct {
		name      string
		handler   func(http.ResponseWriter, *http.Request)
		wantCount int
		wantErr   error
	}{
		{"object", body(`{"success":true,"data":{"id":9,"questions":[` + question + `]}}`), 1, nil},
		{"bare array", body(`{"success":true,"data":[` + question + `]}`), 1, nil},
		{"string options", body(`{"success":true,"data":[{"id":"1","question":"q","options":"[\"a\",\"b\"]","correct_answer":"b"}]}`), 1, nil},
		{"no questions", body(`{"success":true,"data":{"id":9,"questions":[]}}`), 0, nil},
		{"404 degrades to empty", status(http.StatusNotFound), 0, nil},
		{"success false degrades to empty", body(`{"success":false,"error":"Quiz not found"}`), 0, nil},
		{"null degrades to empty", body(`{"success":true,"data":null}`), 0, nil},
		{"object without questions", body(`{"success":true,"data":{"id":9}}`), 0, catalog.ErrMalformed},
		{"answer not an option", body(`{"success":true,"data":[{"id":1,"question":"q","options":["a"],"correct_answer":"z"}]}`), 0, catalog.ErrMalformed},
		{"duplicate question ids", body(`{"success":true,"data":[` + question + `,` + question + `]}`), 0, catalog.ErrMalformed},
		{"unavailable", status(http.StatusBadGateway), 0, catalog.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){"/get_quiz.php": tt.handler})
			q, err := c.GetQuiz(context.Background(), 5)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetQuiz() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetQuiz() error = %v", err)
			}
			if len(q.Questions) != tt.wantCount {
				t.Errorf("len(Questions) = %d, want %d", len(q.Questions), tt.wantCount)
			}
			if q.TopicID != 5 {
				t.Errorf("TopicID = %d, want 5", q.TopicID)
			}
			if q.Questions == nil {
				t.Error("Questions should be an empty slice, not nil")
			}
		})
	}
}

func TestHTTPCatalog_ListCourses(t *testing.T) {
	t.Run("courses key", func(t *testing.T) {
		c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){
			"/get-courses.php": body(`{"success":true,"courses":[{"id":"7","title":"Go","description":"Gophers","difficulty":"Beginner","duration":"10 Hours"}]}`),
		})
		got, err := c.ListCourses(context.Background())
		if err != nil {
			t.Fatalf("ListCourses() error = %v", err)
		}
		want := model.Course{ID: 7, Title: "Go", Description: "Gophers", Level: "Beginner", Duration: "10 Hours"}
		if len(got) != 1 || got[0] != want {
			t.Errorf("ListCourses() = %+v, want [%+v]", got, want)
		}
	})

	t.Run("falls back when unavailable", func(t *testing.T) {
		c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){
			"/get-courses.php": status(http.StatusInternalServerError),
		})
		got, err := c.ListCourses(context.Background())
		if err != nil {
			t.Fatalf("ListCourses() error = %v", err)
		}
		if len(got) != len(catalog.DefaultCourses()) {
			t.Errorf("ListCourses() returned %d courses, want the built-in list", len(got))
		}
	})

	t.Run("malformed is not masked", func(t *testing.T) {
		c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){
			"/get-courses.php": body(`{"success":true,"courses":[{"title":"no id"}]}`),
		})
		if _, err := c.ListCourses(context.Background()); !errors.Is(err, catalog.ErrMalformed) {
			t.Errorf("ListCourses() error = %v, want ErrMalformed", err)
		}
	})
}

func TestHTTPCatalog_SubmitScore(t *testing.T) {
	var got map[string]int
	c := upstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/submit_answer.php": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			_ = json.NewDecoder(r.Body).Decode(&got)
			body(`{"success":true}`)(w, r)
		},
	})

	err := c.SubmitScore(context.Background(), model.ScoreReport{UserID: 4, CourseID: 1, TopicID: 12, Score: 5, Attempts: 2})
	if err != nil {
		t.Fatalf("SubmitScore() error = %v", err)
	}
	if got["user_id"] != 4 || got["topic_id"] != 12 || got["score"] != 5 {
		t.Errorf("posted body = %v", got)
	}
	if _, ok := got["attempts"]; ok {
		t.Error("attempts should not be sent upstream")
	}
}
