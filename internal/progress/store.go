// Package progress persists per-topic unlock records: the durable gate that
// decides whether a learner may move past a topic.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/rs/zerolog"
)

// ErrPersistenceUnavailable marks medium failures. Get returns it alongside the
// locked default; Put only logs it.
var ErrPersistenceUnavailable = errors.New("progress medium unavailable")

// DefaultMinScore is the unlock threshold used when none is configured.
const DefaultMinScore = 4

// Store is the single owner of unlock records. It is shared by every session and
// safe for concurrent use.
type Store struct {
	medium   Medium
	minScore int
	log      zerolog.Logger

	mu sync.Mutex
	// overlay keeps records whose durable write failed, for the life of the process.
	overlay  map[string]model.UnlockRecord
	degraded bool
}

// NewStore creates a store writing to medium. minScore <= 0 selects DefaultMinScore.
func NewStore(medium Medium, minScore int, log zerolog.Logger) *Store {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Store{
		medium:   medium,
		minScore: minScore,
		log:      log.With().Str("component", "unlock_store").Logger(),
		overlay:  make(map[string]model.UnlockRecord),
	}
}

// MinScore returns the unlock threshold.
func (s *Store) MinScore() int {
	return s.minScore
}

// Degraded reports whether any write fell back to memory.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Get returns the last record written for ref. found is false, and the record
// is the locked zero value, when nothing readable exists. err is non-nil only
// when the medium could not be read, so the caller can try again later.
func (s *Store) Get(ctx context.Context, ref model.TopicRef) (model.UnlockRecord, bool, error) {
	key := keyFor(ref)

	s.mu.Lock()
	rec, ok := s.overlay[key]
	s.mu.Unlock()
	if ok {
		return rec, true, nil
	}

	raw, found, err := s.medium.Read(ctx, key)
	if err != nil {
		err = errors.Join(ErrPersistenceUnavailable, err)
		s.log.Warn().Err(err).Str("key", key).Msg("read failed, treating topic as locked")
		return model.UnlockRecord{}, false, err
	}
	if !found {
		return model.UnlockRecord{}, false, nil
	}

	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("ignoring corrupt unlock record")
		return model.UnlockRecord{}, false, nil
	}
	return rec, true, nil
}

// Put records score for ref, overwriting any earlier record. durable is false
// when the medium rejected the write and the record only lives in memory.
func (s *Store) Put(ctx context.Context, ref model.TopicRef, score int) (rec model.UnlockRecord, durable bool) {
	rec = model.UnlockRecord{Score: score, Unlocked: score >= s.minScore}
	key := keyFor(ref)

	raw, _ := json.Marshal(rec)
	err := s.medium.Write(ctx, key, string(raw))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.overlay[key] = rec
		s.degraded = true
		s.log.Warn().Err(errors.Join(ErrPersistenceUnavailable, err)).Str("key", key).Msg("write failed, keeping record in memory")
		return rec, false
	}
	delete(s.overlay, key)
	return rec, true
}

func keyFor(ref model.TopicRef) string {
	return config.CacheKey.TopicProgressKey(ref.LearnerID, ref.CourseID, ref.TopicID)
}
