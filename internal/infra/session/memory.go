package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	domain "github.com/bryanwahyu/justification-engine/internal/domain/review"
)

// MemoryStore keeps session state in process memory. Entries expire after
// ttl of inactivity; every Save refreshes the expiry.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := ttl / 6
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &MemoryStore{cache: cache.New(ttl, cleanup)}
}

func (s *MemoryStore) Get(_ context.Context, id domain.SessionID) (domain.State, error) {
	if x, found := s.cache.Get(string(id)); found {
		return x.(domain.State), nil
	}
	return domain.State{}, domain.ErrSessionNotFound
}

func (s *MemoryStore) Save(_ context.Context, id domain.SessionID, st domain.State) error {
	s.cache.Set(string(id), st, cache.DefaultExpiration)
	return nil
}

// Count is the number of live sessions, for metrics.
func (s *MemoryStore) Count() int {
	return s.cache.ItemCount()
}
