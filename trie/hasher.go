package trie

import (
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// hasher computes canonical node encodings and hashes. It implements the
// single load-bearing rule SPEC_FULL.md §9 calls out: every caller
// sharing a root must apply the exact same embedding predicate, or the
// same logical mapping would hash differently depending on who walked
// it.
//
// Unlike go-ethereum's hasher, this one carries no per-node hash cache:
// nodes here have none (see node.go), because every operation stores its
// whole changed path immediately and never revisits an in-memory tree
// across calls. db.go's Database.storeNode calls this once per node on
// the write path, mirroring the teacher's one-shot insert_node.
type hasher struct {
	sha    crypto.KeccakState
	tmp    []byte
	encbuf rlp.EncoderBuffer
}

var hasherPool = sync.Pool{
	New: func() interface{} {
		return &hasher{
			tmp:    make([]byte, 0, 550),
			sha:    sha3.NewLegacyKeccak256().(crypto.KeccakState),
			encbuf: rlp.NewEncoderBuffer(nil),
		}
	},
}

func newHasher() *hasher {
	return hasherPool.Get().(*hasher)
}

func returnHasherToPool(h *hasher) {
	hasherPool.Put(h)
}

// encode returns the canonical RLP encoding of n using h's reusable
// buffer. The returned slice is only valid until the next call on h.
func (h *hasher) encode(n node) []byte {
	n.encode(h.encbuf)
	h.tmp = h.encbuf.AppendToBytes(h.tmp[:0])
	h.encbuf.Reset(nil)
	return h.tmp
}

// hashData returns the Keccak-256 digest of data.
func (h *hasher) hashData(data []byte) hashNode {
	n := make(hashNode, hashLen)
	h.sha.Reset()
	h.sha.Write(data)
	h.sha.Read(n)
	return n
}

// embeddable reports whether enc is short enough to embed inline in a
// parent node rather than being stored and referenced by hash. This is
// the embedding predicate from spec.md §4.2: a pure function of the
// node's own encoded size, independent of where it sits in the tree.
func embeddable(enc []byte) bool {
	return len(enc) < hashLen
}
