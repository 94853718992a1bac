package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// MaxReportTries is how many deliveries a report gets before it is dropped.
	MaxReportTries = 5
	// ReportRetryDelay is the pause after a failed delivery.
	ReportRetryDelay  = 5 * time.Second
	reportPollTimeout = time.Second
)

// ScoreSink receives progress reports, usually the upstream course API.
type ScoreSink interface {
	SubmitScore(ctx context.Context, report model.ScoreReport) error
}

// ProgressWorker consumes report_progress_queue and forwards each report to the sink.
type ProgressWorker struct {
	rdb        *redis.Client
	sink       ScoreSink
	log        zerolog.Logger
	queue      string
	retryDelay time.Duration
}

// NewProgressWorker creates a new ProgressWorker.
func NewProgressWorker(rdb *redis.Client, sink ScoreSink, log zerolog.Logger) *ProgressWorker {
	return &ProgressWorker{
		rdb:        rdb,
		sink:       sink,
		log:        log.With().Str("component", "progress_worker").Logger(),
		queue:      config.WorkerKey.ReportProgressQueue,
		retryDelay: ReportRetryDelay,
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *ProgressWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

// processNext handles at most one queued report. It returns false when the
// queue stayed empty for the poll timeout.
func (w *ProgressWorker) processNext(ctx context.Context) bool {
	result, err := w.rdb.BLPop(ctx, reportPollTimeout, w.queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
			sleep(ctx, time.Second)
		}
		return false
	}
	if len(result) < 2 {
		return false
	}

	var report model.ScoreReport
	if err := json.Unmarshal([]byte(result[1]), &report); err != nil {
		w.log.Error().Err(err).Msg("Dropping undecodable report")
		return true
	}

	err = w.sink.SubmitScore(ctx, report)
	if err == nil {
		w.log.Debug().Int("user_id", report.UserID).Int("topic_id", report.TopicID).Msg("Progress reported")
		return true
	}

	report.Tries++
	l := w.log.Warn().Err(err).
		Int("user_id", report.UserID).
		Int("topic_id", report.TopicID).
		Int("tries", report.Tries)
	if !retryable(err) || report.Tries >= MaxReportTries {
		l.Msg("Dropping progress report")
		return true
	}
	l.Msg("Report failed, requeueing")

	raw, _ := json.Marshal(report)
	if err := w.rdb.RPush(context.WithoutCancel(ctx), w.queue, raw).Err(); err != nil {
		w.log.Error().Err(err).Msg("Requeue failed, report lost")
	}
	sleep(ctx, w.retryDelay)
	return true
}

func retryable(err error) bool {
	return !errors.Is(err, catalog.ErrNotFound) && !errors.Is(err, catalog.ErrMalformed)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// QueueReporter enqueues reports for the ProgressWorker.
type QueueReporter struct {
	rdb   *redis.Client
	queue string
}

// NewQueueReporter creates a reporter writing to report_progress_queue.
func NewQueueReporter(rdb *redis.Client) *QueueReporter {
	return &QueueReporter{rdb: rdb, queue: config.WorkerKey.ReportProgressQueue}
}

func (r *QueueReporter) Report(ctx context.Context, report model.ScoreReport) error {
	report.Tries = 0
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := r.rdb.RPush(ctx, r.queue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue report: %w", err)
	}
	return nil
}

// DirectReporter sends reports straight to a sink, without a queue.
type DirectReporter struct {
	Sink ScoreSink
}

func (r DirectReporter) Report(ctx context.Context, report model.ScoreReport) error {
	return r.Sink.SubmitScore(ctx, report)
}
