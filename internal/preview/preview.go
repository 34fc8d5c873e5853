package preview

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultTTL bounds how long an unreleased preview is kept
const DefaultTTL = time.Hour

// Blob is an uploaded image held only so the page can show it back
type Blob struct {
	MediaType string
	Data      []byte
}

// Store keeps preview blobs in memory. Owners release blobs explicitly;
// the expiry is a backstop for blobs whose owner never does.
type Store struct {
	cache *cache.Cache
}

// New creates a store; a non-positive ttl means DefaultTTL
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache: cache.New(ttl, ttl/2),
	}
}

// Put stores a blob and returns its handle
func (s *Store) Put(mediaType string, data []byte) string {
	id := uuid.NewString()
	s.cache.Set(id, Blob{MediaType: mediaType, Data: data}, cache.DefaultExpiration)
	return id
}

func (s *Store) Get(id string) (Blob, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(Blob), true
	}
	return Blob{}, false
}

// Release drops a blob. Releasing an unknown or empty id is a no-op.
func (s *Store) Release(id string) {
	if id == "" {
		return
	}
	s.cache.Delete(id)
}

// Len returns the number of blobs currently held
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
