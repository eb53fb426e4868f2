package store

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/oasislabs/patriciatrie/metrics"
)

// CachedStore wraps a backing Store with an LRU of recently fetched
// blobs, grounded on vechain-thor's cache.LRU (same GetOrLoad-shaped read
// path, generalized from an arbitrary key to a content Hash). Trie reads
// fan out from the root and re-touch hot upper-level nodes constantly, so
// a read-through cache in front of a LevelStore avoids re-parsing those
// nodes from disk on every operation.
type CachedStore struct {
	backing Store
	cache   *lru.Cache
}

// NewCachedStore wraps backing with an LRU cache holding up to maxBlobs
// entries; a maxBlobs below 16 is raised to 16.
func NewCachedStore(backing Store, maxBlobs int) *CachedStore {
	if maxBlobs < 16 {
		maxBlobs = 16
	}
	cache, _ := lru.New(maxBlobs)
	return &CachedStore{backing: backing, cache: cache}
}

func (s *CachedStore) Insert(data []byte, expiry uint64) (Hash, error) {
	h, err := s.backing.Insert(data, expiry)
	if err != nil {
		return h, err
	}
	s.cache.Add(h, data)
	return h, nil
}

func (s *CachedStore) Get(hash Hash) ([]byte, error) {
	if v, ok := s.cache.Get(hash); ok {
		metrics.Counter("cachedstore_lru_hit_total").Add(1)
		return v.([]byte), nil
	}
	metrics.Counter("cachedstore_lru_miss_total").Add(1)
	data, err := s.backing.Get(hash)
	if err != nil {
		return nil, err
	}
	s.cache.Add(hash, data)
	return data, nil
}

func (s *CachedStore) Prune(now uint64) (int, error) {
	// Pruned blobs may briefly linger in the LRU; a subsequent Get on a
	// pruned-but-cached hash still succeeds until it's evicted, even
	// though the backing store itself already returns ErrNotFound for it.
	return s.backing.Prune(now)
}
