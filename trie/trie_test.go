package trie_test

import (
	"bytes"
	"testing"

	"github.com/oasislabs/patriciatrie/store"
	"github.com/oasislabs/patriciatrie/trie"
)

func TestGetOnEmptyTrie(t *testing.T) {
	s := store.NewMemStore()
	val, found, err := trie.Get(s, nil, []byte("foo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("got %q, want not found", val)
	}
}

func TestInsertThenGet(t *testing.T) {
	s := store.NewMemStore()

	root, err := trie.Insert(s, nil, []byte("foo"), []byte("bar"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	val, found, err := trie.Get(s, &root, []byte("foo"))
	if err != nil || !found {
		t.Fatalf("get foo: val=%q found=%v err=%v", val, found, err)
	}
	if !bytes.Equal(val, []byte("bar")) {
		t.Fatalf("got %q, want %q", val, "bar")
	}
}

// TestBasicOps mirrors the reference engine's own basic-ops scenario
// (insert a growing set of overlapping keys, verify every value is
// reachable, remove them one at a time in the same order, and check the
// root returns to the post-"hello" root once all six are gone and to the
// post-"foo" root once "hello" is removed). Root hashes
// aren't pinned to literal constants here since this engine's canonical
// encoding (RLP + Keccak-256) differs from the reference's (CBOR); what's
// tested is the symmetry invariant itself.
func TestBasicOps(t *testing.T) {
	s := store.NewMemStore()

	mustGet := func(root store.Hash, key, want []byte) {
		t.Helper()
		got, found, err := trie.Get(s, &root, key)
		if err != nil {
			t.Fatalf("get %q: %v", key, err)
		}
		if !found {
			t.Fatalf("get %q: not found, want %q", key, want)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("get %q: got %q, want %q", key, got, want)
		}
	}
	mustMiss := func(root *store.Hash, key []byte) {
		t.Helper()
		_, found, err := trie.Get(s, root, key)
		if err != nil {
			t.Fatalf("get %q: %v", key, err)
		}
		if found {
			t.Fatalf("get %q: found a value, want absent", key)
		}
	}

	_, found, err := trie.Get(s, nil, []byte("foo"))
	if err != nil || found {
		t.Fatalf("empty trie lookup: found=%v err=%v", found, err)
	}

	rootFoo, err := trie.Insert(s, nil, []byte("foo"), []byte("bar"))
	if err != nil {
		t.Fatalf("insert foo: %v", err)
	}
	mustGet(rootFoo, []byte("foo"), []byte("bar"))

	rootFooHello, err := trie.Insert(s, &rootFoo, []byte("hello"), []byte("world"))
	if err != nil {
		t.Fatalf("insert hello: %v", err)
	}
	mustGet(rootFooHello, []byte("foo"), []byte("bar"))
	mustGet(rootFooHello, []byte("hello"), []byte("world"))

	pairs := []struct{ key, value []byte }{
		{[]byte("another"), []byte("value1")},
		{[]byte("anotherrrrrr"), []byte("value2")},
		{[]byte("anotherrr"), []byte("value3")},
		{[]byte("bar"), []byte("value4")},
		{[]byte("goo"), []byte("value5")},
		{[]byte("moo"), []byte("value4")},
	}

	root := rootFooHello
	for _, p := range pairs {
		root, err = trie.Insert(s, &root, p.key, p.value)
		if err != nil {
			t.Fatalf("insert %q: %v", p.key, err)
		}
	}
	for _, p := range pairs {
		mustGet(root, p.key, p.value)
	}

	for _, p := range pairs {
		newRoot, err := trie.Remove(s, &root, p.key)
		if err != nil {
			t.Fatalf("remove %q: %v", p.key, err)
		}
		if newRoot == nil {
			t.Fatalf("remove %q: root unexpectedly became empty", p.key)
		}
		root = *newRoot
		mustMiss(&root, p.key)
	}

	// Every inserted pair has now been removed in the same order they
	// went in; the root should match the trie's state right after
	// "hello" was inserted.
	if root != rootFooHello {
		t.Fatalf("root after removing all pairs = %x, want %x (post-hello root)", root, rootFooHello)
	}
	mustGet(root, []byte("foo"), []byte("bar"))
	mustGet(root, []byte("hello"), []byte("world"))

	newRoot, err := trie.Remove(s, &root, []byte("hello"))
	if err != nil {
		t.Fatalf("remove hello: %v", err)
	}
	if newRoot == nil {
		t.Fatal("remove hello: root unexpectedly became empty")
	}
	root = *newRoot
	mustMiss(&root, []byte("hello"))

	if root != rootFoo {
		t.Fatalf("root after removing hello = %x, want %x (post-foo root)", root, rootFoo)
	}

	finalRoot, err := trie.Remove(s, &root, []byte("foo"))
	if err != nil {
		t.Fatalf("remove foo: %v", err)
	}
	if finalRoot != nil {
		t.Fatalf("removing the last key should empty the trie, got root %x", finalRoot)
	}
}

func TestRemoveFromEmptyTrieIsNoop(t *testing.T) {
	s := store.NewMemStore()
	root, err := trie.Remove(s, nil, []byte("foo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != nil {
		t.Fatalf("got root %x, want nil", root)
	}
}

func TestOverwriteExistingKey(t *testing.T) {
	s := store.NewMemStore()
	root, err := trie.Insert(s, nil, []byte("foo"), []byte("bar"))
	if err != nil {
		t.Fatal(err)
	}
	root, err = trie.Insert(s, &root, []byte("foo"), []byte("baz"))
	if err != nil {
		t.Fatal(err)
	}
	val, found, err := trie.Get(s, &root, []byte("foo"))
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if !bytes.Equal(val, []byte("baz")) {
		t.Fatalf("got %q, want %q", val, "baz")
	}
}

func TestRemoveLastKeyEmptiesTrie(t *testing.T) {
	s := store.NewMemStore()
	root, err := trie.Insert(s, nil, []byte("foo"), []byte("bar"))
	if err != nil {
		t.Fatal(err)
	}
	newRoot, err := trie.Remove(s, &root, []byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	if newRoot != nil {
		t.Fatalf("got root %x, want nil (empty trie)", newRoot)
	}
}

func TestLargeValueForcesHashedChild(t *testing.T) {
	s := store.NewMemStore()
	big := bytes.Repeat([]byte("x"), 128)

	root, err := trie.Insert(s, nil, []byte("k1"), big)
	if err != nil {
		t.Fatal(err)
	}
	root, err = trie.Insert(s, &root, []byte("k2"), big)
	if err != nil {
		t.Fatal(err)
	}
	val, found, err := trie.Get(s, &root, []byte("k1"))
	if err != nil || !found || !bytes.Equal(val, big) {
		t.Fatalf("k1: found=%v err=%v len=%d", found, err, len(val))
	}
	val, found, err = trie.Get(s, &root, []byte("k2"))
	if err != nil || !found || !bytes.Equal(val, big) {
		t.Fatalf("k2: found=%v err=%v len=%d", found, err, len(val))
	}
}
