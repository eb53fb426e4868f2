package store

import (
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/oasislabs/patriciatrie/metrics"
)

// entry is a stored blob plus its retention deadline.
type entry struct {
	data   []byte
	expiry uint64 // Never (0) means retain indefinitely
}

// MemStore is an in-memory Store, grounded on the teacher's
// accdb/memorydb.MemDB: a mutex-guarded map, generalized here to key on
// content hash rather than an arbitrary caller-supplied key, and to carry
// per-blob expiry bookkeeping for Prune.
type MemStore struct {
	mu   sync.RWMutex
	data map[Hash]entry
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[Hash]entry)}
}

func (s *MemStore) Insert(data []byte, expiry uint64) (Hash, error) {
	h := Hash(crypto.Keccak256Hash(data))

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[h]; !ok || expiry == Never || (existing.expiry != Never && expiry > existing.expiry) {
		s.data[h] = entry{data: data, expiry: expiry}
	}
	metrics.Counter("memstore_insert_total").Add(1)
	metrics.Histogram("memstore_blob_bytes", nil).Observe(float64(len(data)))
	return h, nil
}

func (s *MemStore) Get(hash Hash) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[hash]
	if !ok {
		metrics.Counter("memstore_get_miss_total").Add(1)
		return nil, ErrNotFound
	}
	metrics.Counter("memstore_get_hit_total").Add(1)
	return e.data, nil
}

func (s *MemStore) Prune(now uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for h, e := range s.data {
		if e.expiry != Never && e.expiry <= now {
			delete(s.data, h)
			removed++
		}
	}
	metrics.Counter("memstore_pruned_total").Add(float64(removed))
	return removed, nil
}

// Len reports the number of blobs currently retained. Test helper.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
