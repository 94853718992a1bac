package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type stubSink struct {
	mu   sync.Mutex
	errs []error
	got  []model.ScoreReport
}

func (s *stubSink) SubmitScore(_ context.Context, r model.ScoreReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, r)
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func setup(t *testing.T, sink ScoreSink) (*ProgressWorker, *QueueReporter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	w := NewProgressWorker(rdb, sink, zerolog.Nop())
	w.retryDelay = 0
	return w, NewQueueReporter(rdb), mr
}

func TestProgressWorker_Delivers(t *testing.T) {
	sink := &stubSink{}
	w, q, _ := setup(t, sink)
	ctx := context.Background()

	report := model.ScoreReport{UserID: 1, CourseID: 2, TopicID: 3, Score: 4, Attempts: 1}
	if err := q.Report(ctx, report); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !w.processNext(ctx) {
		t.Fatal("processNext() found nothing to do")
	}
	if len(sink.got) != 1 || sink.got[0] != report {
		t.Errorf("sink got %+v, want [%+v]", sink.got, report)
	}
}

func TestProgressWorker_RequeuesRetryableFailures(t *testing.T) {
	sink := &stubSink{errs: []error{catalog.ErrUnavailable}}
	w, q, mr := setup(t, sink)
	ctx := context.Background()

	_ = q.Report(ctx, model.ScoreReport{UserID: 1, TopicID: 3, Score: 5})
	w.processNext(ctx)

	items, err := mr.List("report_progress_queue")
	if err != nil || len(items) != 1 {
		t.Fatalf("queue = %v, %v; want one requeued report", items, err)
	}
	var requeued model.ScoreReport
	_ = json.Unmarshal([]byte(items[0]), &requeued)
	if requeued.Tries != 1 {
		t.Errorf("Tries = %d, want 1", requeued.Tries)
	}

	w.processNext(ctx)
	if len(sink.got) != 2 {
		t.Errorf("deliveries = %d, want 2", len(sink.got))
	}
	if mr.Exists("report_progress_queue") {
		t.Error("queue should be empty after a successful retry")
	}
}

func TestProgressWorker_Drops(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		report model.ScoreReport
	}{
		{"not retryable", catalog.ErrNotFound, model.ScoreReport{UserID: 1, TopicID: 3}},
		{"out of tries", errors.New("boom"), model.ScoreReport{UserID: 1, TopicID: 3, Tries: MaxReportTries - 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &stubSink{errs: []error{tt.err}}
			w, _, mr := setup(t, sink)

			raw, _ := json.Marshal(tt.report)
			if _, err := mr.Push("report_progress_queue", string(raw)); err != nil {
				t.Fatal(err)
			}
			w.processNext(context.Background())
			if mr.Exists("report_progress_queue") {
				t.Error("report was requeued")
			}
		})
	}
}

func TestQueueReporter_ResetsTries(t *testing.T) {
	_, q, mr := setup(t, &stubSink{})
	_ = q.Report(context.Background(), model.ScoreReport{UserID: 1, Tries: 3})

	items, _ := mr.List("report_progress_queue")
	if len(items) != 1 {
		t.Fatalf("queue = %v", items)
	}
	var got model.ScoreReport
	_ = json.Unmarshal([]byte(items[0]), &got)
	if got.Tries != 0 {
		t.Errorf("Tries = %d, want 0", got.Tries)
	}
}
