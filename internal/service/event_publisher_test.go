package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/codeadapt/learn-gateway/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestEventPublisher_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	p := NewEventPublisher(rdb, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := p.Subscribe(ctx, 7, 1)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Other learners' events must not leak into this stream.
	_ = p.Publish(ctx, session.Event{Type: session.EventTopicSelected, LearnerID: 8, CourseID: 1})
	if err := p.Publish(ctx, session.Event{Type: session.EventQuizSubmitted, LearnerID: 7, CourseID: 1, TopicID: 3}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != session.EventQuizSubmitted || ev.TopicID != 3 {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Error("unexpected extra event")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after cancel")
	}
}
