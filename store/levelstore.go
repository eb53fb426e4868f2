package store

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/oasislabs/patriciatrie/metrics"
)

// LevelStore is a goleveldb-backed persistent Store, grounded on the
// vechain-thor lvldb package's New/NewMem split (source missing from the
// retrieval pack; only its test survives, so this is written directly
// against goleveldb's own public API rather than recovered from a copy).
//
// A blob is stored as an 8-byte big-endian expiry (Unix seconds, 0 for
// Never) followed by the raw bytes, so Prune can scan without a second
// index.
type LevelStore struct {
	db *leveldb.DB
}

// Options mirrors the cache/handle tuning knobs vechain-thor's lvldb.New
// exposed.
type Options struct {
	CacheCapacity int // MiB
	OpenFiles     int
}

// NewLevelStore opens (creating if absent) a LevelDB database at path.
func NewLevelStore(path string, o Options) (*LevelStore, error) {
	opts := &opt.Options{
		OpenFilesCacheCapacity: o.OpenFiles,
		BlockCacheCapacity:     o.CacheCapacity * opt.MiB,
		Filter:                 nil,
	}
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, err
	}
	return &LevelStore{db}, nil
}

// NewMemLevelStore opens an in-memory LevelDB instance, useful for tests
// that want LevelStore's exact on-disk encoding without touching disk.
func NewMemLevelStore() (*LevelStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelStore{db}, nil
}

func (s *LevelStore) Close() error { return s.db.Close() }

func (s *LevelStore) Insert(data []byte, expiry uint64) (Hash, error) {
	h := Hash(crypto.Keccak256Hash(data))

	metrics.Counter("levelstore_insert_total").Add(1)
	metrics.Histogram("levelstore_blob_bytes", nil).Observe(float64(len(data)))

	if existing, err := s.db.Get(h[:], nil); err == nil {
		if mergeExpiry(existing, expiry) {
			return h, s.db.Put(h[:], encodeEntry(expiry, data), nil)
		}
		return h, nil
	}
	return h, s.db.Put(h[:], encodeEntry(expiry, data), nil)
}

func (s *LevelStore) Get(hash Hash) ([]byte, error) {
	raw, err := s.db.Get(hash[:], nil)
	if err == leveldb.ErrNotFound {
		metrics.Counter("levelstore_get_miss_total").Add(1)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	metrics.Counter("levelstore_get_hit_total").Add(1)
	_, data := decodeEntry(raw)
	return data, nil
}

func (s *LevelStore) Prune(now uint64) (int, error) {
	removed := 0
	batch := new(leveldb.Batch)

	var it iterator.Iterator = s.db.NewIterator(util.BytesPrefix(nil), nil)
	defer it.Release()
	for it.Next() {
		expiry, _ := decodeEntry(it.Value())
		if expiry != Never && expiry <= now {
			batch.Delete(it.Key())
			removed++
		}
	}
	if err := it.Error(); err != nil {
		return 0, err
	}
	if removed > 0 {
		if err := s.db.Write(batch, nil); err != nil {
			return 0, err
		}
	}
	metrics.Counter("levelstore_pruned_total").Add(float64(removed))
	return removed, nil
}

// mergeExpiry reports whether candidate should replace the existing
// blob's stored expiry: Never always wins, otherwise the later deadline
// wins, matching MemStore's retention policy.
func mergeExpiry(existingRaw []byte, candidate uint64) bool {
	existing, _ := decodeEntry(existingRaw)
	if candidate == Never {
		return existing != Never
	}
	if existing == Never {
		return false
	}
	return candidate > existing
}

func encodeEntry(expiry uint64, data []byte) []byte {
	buf := make([]byte, 8+len(data))
	binary.BigEndian.PutUint64(buf[:8], expiry)
	copy(buf[8:], data)
	return buf
}

func decodeEntry(raw []byte) (uint64, []byte) {
	if len(raw) < 8 {
		return Never, nil
	}
	return binary.BigEndian.Uint64(raw[:8]), raw[8:]
}
