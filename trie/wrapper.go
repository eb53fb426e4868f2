package trie

import "github.com/oasislabs/patriciatrie/store"

// Trie is a thin convenience wrapper around the package-level Get/Insert/
// Remove functions, grounded in the teacher's Trie struct (and the shape
// VeChain Thor's muxdb.Trie takes over the same kind of store-plus-root
// pair): it holds a store.Store and the current root hash so callers
// mutating a single logical trie don't have to thread the root through
// every call by hand. It is not a stateful tree in its own right — every
// method still goes through the package-level, store-mediated functions
// above. Emptiness is tracked separately from Root: a Trie made by New
// with a nil root, or emptied by Remove, is empty and has a zero Root;
// a Trie built as a struct literal is not empty, and its Root is used as
// given.
type Trie struct {
	Store store.Store
	Root  store.Hash
	empty bool
}

// New returns a Trie over s rooted at root. Pass a nil root for a fresh,
// empty trie.
func New(s store.Store, root *store.Hash) *Trie {
	t := &Trie{Store: s}
	if root == nil {
		t.empty = true
	} else {
		t.Root = *root
	}
	return t
}

func (t *Trie) rootPtr() *store.Hash {
	if t.empty {
		return nil
	}
	return &t.Root
}

// Get looks up key, returning its value and whether it was present.
func (t *Trie) Get(key []byte) ([]byte, bool, error) {
	return Get(t.Store, t.rootPtr(), key)
}

// Insert sets key to value, updating t's root in place.
func (t *Trie) Insert(key, value []byte) error {
	root, err := Insert(t.Store, t.rootPtr(), key, value)
	if err != nil {
		return err
	}
	t.Root, t.empty = root, false
	return nil
}

// Remove deletes key, updating t's root in place. It is a no-op if key
// is not present.
func (t *Trie) Remove(key []byte) error {
	root, err := Remove(t.Store, t.rootPtr(), key)
	if err != nil {
		return err
	}
	if root == nil {
		t.empty = true
		t.Root = store.Hash{}
		return nil
	}
	t.Root = *root
	return nil
}

// Hash returns t's current root, or the zero Hash if t is empty.
func (t *Trie) Hash() store.Hash {
	return t.Root
}

// IsEmpty reports whether t currently has no root (no keys inserted, or
// every key removed).
func (t *Trie) IsEmpty() bool {
	return t.empty
}
