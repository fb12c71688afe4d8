package conversation

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	conversationRepo "github.com/velasquezhn3/vj-sub000/database/repository/conversation"
	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/utils"

	"go.uber.org/zap"
)

// StateStore is the per-subject conversation state machine storage.
type StateStore interface {
	// GetState returns the live state for a subject, or a fresh menu state
	// when none exists. An expired record is never returned live.
	GetState(ctx context.Context, subjectID string) (models.ConversationState, error)
	// SetState upserts the subject's state and draft, stamping expiry from
	// the TTL policy. An empty state deletes the record.
	SetState(ctx context.Context, subjectID, state string, draft models.BookingDraft) error
	// Clear removes the subject's record from cache and durable store.
	Clear(ctx context.Context, subjectID string) error
	// SweepExpired prunes expired durable records and fallback entries.
	SweepExpired(ctx context.Context) (int64, error)
}

// DefaultStateStore layers a TTL cache over the durable conversation
// repository. When the durable store is unreachable it degrades to a
// process-local map so the conversation keeps moving; that fallback is lost
// on restart, an accepted trade-off over blocking the subject.
type DefaultStateStore struct {
	Cache StateCache
	Repo  conversationRepo.ConversationRepository
	TTLs  TTLPolicy
	Now   func() time.Time

	mu    sync.RWMutex
	local map[string]models.ConversationState
}

// NewDefaultStateStore wires the store with its cache, repository and TTL
// policy.
func NewDefaultStateStore(cache StateCache, repo conversationRepo.ConversationRepository, ttls TTLPolicy) *DefaultStateStore {
	return &DefaultStateStore{
		Cache: cache,
		Repo:  repo,
		TTLs:  ttls,
		Now:   time.Now,
		local: make(map[string]models.ConversationState),
	}
}

func (s *DefaultStateStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func menuState(subjectID string, now time.Time) models.ConversationState {
	return models.ConversationState{
		SubjectID: subjectID,
		State:     models.StateMenu,
		Draft:     models.BookingDraft{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetState reads the cache first, falls back to the durable store
// (repopulating the cache), and degrades to the local map when the durable
// store is unreachable.
func (s *DefaultStateStore) GetState(ctx context.Context, subjectID string) (models.ConversationState, error) {
	logger := utils.GetLogger()
	now := s.now()

	if payload, ok, err := s.Cache.Get(ctx, subjectID); err != nil {
		logger.Warn("state cache read failed", zap.String("subjectID", subjectID), zap.Error(err))
	} else if ok {
		var cached models.ConversationState
		if err := json.Unmarshal([]byte(payload), &cached); err != nil {
			logger.Warn("state cache entry corrupt, discarding",
				zap.String("subjectID", subjectID), zap.Error(err))
		} else if !cached.Expired(now) {
			return cached, nil
		}
	}

	stored, err := s.Repo.Get(subjectID)
	if err != nil {
		logger.Warn("durable state store unreachable, serving degraded in-memory state",
			zap.String("subjectID", subjectID), zap.Error(err))
		s.mu.RLock()
		fallback, ok := s.local[subjectID]
		s.mu.RUnlock()
		if ok && !fallback.Expired(now) {
			return fallback, nil
		}
		return menuState(subjectID, now), nil
	}

	if stored != nil && !stored.Expired(now) {
		s.repopulateCache(ctx, *stored, now)
		return *stored, nil
	}
	return menuState(subjectID, now), nil
}

// SetState writes through to the cache and the durable store. A repo failure
// drops the record into the local fallback instead of failing the turn.
func (s *DefaultStateStore) SetState(ctx context.Context, subjectID, state string, draft models.BookingDraft) error {
	if state == "" {
		return s.Clear(ctx, subjectID)
	}

	logger := utils.GetLogger()
	now := s.now()
	ttl := s.TTLs.For(state)

	record := models.ConversationState{
		SubjectID: subjectID,
		State:     state,
		Draft:     draft,
		CreatedAt: s.createdAt(ctx, subjectID, now),
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if payload, err := json.Marshal(record); err != nil {
		logger.Warn("failed to marshal state for cache", zap.String("subjectID", subjectID), zap.Error(err))
	} else if err := s.Cache.Set(ctx, subjectID, string(payload), ttl); err != nil {
		logger.Warn("state cache write failed", zap.String("subjectID", subjectID), zap.Error(err))
	}

	if err := s.Repo.Upsert(&record); err != nil {
		logger.Warn("durable state store unreachable, writing degraded in-memory state",
			zap.String("subjectID", subjectID), zap.Error(err))
		s.mu.Lock()
		s.local[subjectID] = record
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	delete(s.local, subjectID)
	s.mu.Unlock()
	return nil
}

// Clear deletes the subject's record everywhere.
func (s *DefaultStateStore) Clear(ctx context.Context, subjectID string) error {
	logger := utils.GetLogger()

	if err := s.Cache.Del(ctx, subjectID); err != nil {
		logger.Warn("state cache delete failed", zap.String("subjectID", subjectID), zap.Error(err))
	}

	s.mu.Lock()
	delete(s.local, subjectID)
	s.mu.Unlock()

	if err := s.Repo.Delete(subjectID); err != nil {
		logger.Warn("durable state delete failed", zap.String("subjectID", subjectID), zap.Error(err))
	}
	return nil
}

// SweepExpired prunes durable records past expiry and stale fallback entries.
// Cache entries age out on their own Redis TTL.
func (s *DefaultStateStore) SweepExpired(ctx context.Context) (int64, error) {
	now := s.now()

	s.mu.Lock()
	for id, record := range s.local {
		if record.Expired(now) {
			delete(s.local, id)
		}
	}
	s.mu.Unlock()

	deleted, err := s.Repo.DeleteExpired(now)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		utils.GetLogger().Info("swept expired conversation states", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// createdAt preserves the original creation time when a live record already
// exists in the cache or fallback map.
func (s *DefaultStateStore) createdAt(ctx context.Context, subjectID string, now time.Time) time.Time {
	if payload, ok, err := s.Cache.Get(ctx, subjectID); err == nil && ok {
		var cached models.ConversationState
		if json.Unmarshal([]byte(payload), &cached) == nil && !cached.Expired(now) {
			return cached.CreatedAt
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if fallback, ok := s.local[subjectID]; ok && !fallback.Expired(now) {
		return fallback.CreatedAt
	}
	return now
}

// repopulateCache re-caches a durable record with its remaining lifetime.
func (s *DefaultStateStore) repopulateCache(ctx context.Context, record models.ConversationState, now time.Time) {
	remaining := record.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, record.SubjectID, string(payload), remaining); err != nil {
		utils.GetLogger().Warn("state cache repopulation failed",
			zap.String("subjectID", record.SubjectID), zap.Error(err))
	}
}
