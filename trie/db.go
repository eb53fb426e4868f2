package trie

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/oasislabs/patriciatrie/store"
)

// Database adapts a store.Store to the node-level resolve/store
// operations the engine needs, folding hashing, the embedding decision,
// and the blob-store write into a single step — the teacher's separate
// deferred-commit hasher/committer pair doesn't apply here, since
// SPEC_FULL.md's state-machine-free design writes every changed node the
// moment it is produced (§4.6, §9).
type Database struct {
	store store.Store
	h     *hasher
}

func newDatabase(s store.Store) *Database {
	return &Database{store: s, h: newHasher()}
}

func (db *Database) release() {
	returnHasherToPool(db.h)
}

// resolve dereferences n one level: a hashNode is fetched from the store
// and decoded, anything else (an embedded node, or nil) is returned
// as-is. Every recursive descent through the engine passes child
// pointers through resolve before matching on their concrete type.
func (db *Database) resolve(n node) (node, error) {
	hn, ok := n.(hashNode)
	if !ok {
		return n, nil
	}
	h := store.BytesToHash(hn)
	blob, err := db.store.Get(h)
	if err != nil {
		if err == store.ErrNotFound {
			log.Error("trie node missing from store", "hash", h)
			return nil, &ErrNodeNotFound{Hash: hn}
		}
		log.Error("failed to fetch trie node from store", "hash", h, "err", err)
		return nil, err
	}
	decoded, err := decodeNode(blob)
	if err != nil {
		log.Error("trie node failed to decode", "hash", h, "err", err)
		return nil, &ErrCorruptNode{Hash: hn, Err: err}
	}
	return decoded, nil
}

// storeNode encodes n and either returns it unchanged (if small enough
// to embed inline in its parent) or inserts its encoding into the store
// and returns the resulting hashNode. force bypasses the embedding
// check, used for the trie root: a caller handed a bare pointer has
// nowhere to embed it, so the root is always addressed by hash even when
// small (spec.md §4.2).
func (db *Database) storeNode(n node, force bool) (node, error) {
	enc := db.h.encode(n)
	if !force && embeddable(enc) {
		return n, nil
	}
	// encode reuses db.h's scratch buffer, which a later storeNode call in
	// this same bottom-up walk will overwrite in place; the store must get
	// its own copy, not an alias into that buffer.
	blob := append([]byte(nil), enc...)
	h, err := db.store.Insert(blob, store.Never)
	if err != nil {
		log.Error("failed to insert trie node into store", "err", err)
		return nil, err
	}
	return hashNode(h.Bytes()), nil
}
