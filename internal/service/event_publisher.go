package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventPublisher fans session events out over Redis PubSub, one channel per
// learner and course, so every gateway instance can stream them.
type EventPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(rdb *redis.Client, log zerolog.Logger) *EventPublisher {
	return &EventPublisher{
		rdb: rdb,
		log: log.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *EventPublisher) Publish(ctx context.Context, ev session.Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel := config.CacheKey.LearnerEventsChannel(ev.LearnerID, ev.CourseID)
	if err := p.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe streams the events of one learner's course session until ctx is
// done. The returned channel is closed when the subscription ends.
func (p *EventPublisher) Subscribe(ctx context.Context, learnerID, courseID int) (<-chan session.Event, error) {
	channel := config.CacheKey.LearnerEventsChannel(learnerID, courseID)
	sub := p.rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	out := make(chan session.Event, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev session.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					p.log.Warn().Err(err).Str("channel", channel).Msg("Dropping undecodable event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
