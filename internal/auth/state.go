package auth

import (
	"sync"
	"time"

	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/patrickmn/go-cache"
)

// StateStore keeps the OAuth state values we handed out until the provider
// redirects back. Each state can be consumed once.
type StateStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewStateStore(expiry time.Duration) *StateStore {
	if expiry <= 0 {
		expiry = constant.OAUTH_STATE_EXPIRY
	}
	return &StateStore{cache: cache.New(expiry, 2*expiry)}
}

func (s *StateStore) Issue() (string, error) {
	state, err := util.GenerateNChar(constant.OAUTH_STATE_LENGTH)
	if err != nil {
		return "", err
	}

	s.cache.SetDefault(state, struct{}{})
	return state, nil
}

func (s *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache.Get(state); !ok {
		return false
	}
	s.cache.Delete(state)
	return true
}
