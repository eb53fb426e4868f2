package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// node is the sum type every trie node pointer dereferences to: a leaf,
// an extension, a branch, or one of the two pointer-only representations
// (hashNode, valueNode) that terminate recursion. Matching spec.md's
// "avoid class hierarchies" note, this is a tagged union via interface
// plus concrete struct types, not an inheritance tree.
//
// Unlike go-ethereum's trie (which this package's shape is otherwise
// grounded on), nodes here carry no hash cache or dirty flag: every
// operation stores its whole changed path immediately and never keeps a
// tree alive across calls (spec.md §4.6, "state-machine-free design"), so
// there is nothing to memoize between one store and the next.
type node interface {
	// encode appends the node's canonical RLP encoding to w.
	encode(w rlp.EncoderBuffer)
	fstring(string) string
}

// leafNode is a terminal mapping: the full remaining path and its value.
type leafNode struct {
	Path []byte // nibble path, no terminator byte needed (the Go type is the tag)
	Val  []byte
}

// extensionNode compresses a run of nibbles shared by a single
// descendant. Val is never nil: see invariant 1 in spec.md §3.4.
type extensionNode struct {
	Path []byte // nibble path, length >= 1 (invariant 2)
	Val  node   // *branchNode or hashNode
}

// branchNode has one slot per nibble value plus an optional value for a
// key ending exactly at this node. Value is nil for "no value"; a
// present-but-empty value is represented by a non-nil valueNode of
// length zero, the same typed-nil trick go-ethereum's fullNode uses for
// its 17th child slot.
type branchNode struct {
	Children [16]node
	Value    node // nil, or valueNode
}

// hashNode is a 256-bit content hash referencing a node stored separately
// in the blob store.
type hashNode []byte

// valueNode is a raw value payload: a leaf's value, or (via branchNode.Value)
// a branch's own value.
type valueNode []byte

func (n *leafNode) copy() *leafNode           { c := *n; return &c }
func (n *extensionNode) copy() *extensionNode { c := *n; return &c }
func (n *branchNode) copy() *branchNode       { c := *n; return &c }

var indices = [17]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "value"}

func (n *leafNode) String() string      { return n.fstring("") }
func (n *extensionNode) String() string { return n.fstring("") }
func (n *branchNode) String() string    { return n.fstring("") }
func (n hashNode) String() string       { return n.fstring("") }
func (n valueNode) String() string      { return n.fstring("") }

func (n *leafNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %x}", n.Path, n.Val)
}

func (n *extensionNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v}", n.Path, n.Val.fstring(ind+"  "))
}

func (n *branchNode) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, c := range &n.Children {
		if c == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
		} else {
			resp += fmt.Sprintf("%s: %v", indices[i], c.fstring(ind+"  "))
		}
	}
	if n.Value != nil {
		resp += fmt.Sprintf("%s: %v", indices[16], n.Value.fstring(ind+"  "))
	}
	return resp + fmt.Sprintf("\n%s] ", ind)
}

func (n hashNode) fstring(ind string) string  { return fmt.Sprintf("<%x>", []byte(n)) }
func (n valueNode) fstring(ind string) string { return fmt.Sprintf("%x", []byte(n)) }

// encode methods implement the canonical RLP shapes described in
// SPEC_FULL.md §3.3: Leaf/Extension are 2-element lists (compact path,
// payload), Branch is the classic 17-element list.

func (n *leafNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	w.WriteBytes(hexToCompact(n.Path, true))
	w.WriteBytes(n.Val)
	w.ListEnd(offset)
}

func (n *extensionNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	w.WriteBytes(hexToCompact(n.Path, false))
	n.Val.encode(w)
	w.ListEnd(offset)
}

func (n *branchNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	for _, c := range &n.Children {
		if c != nil {
			c.encode(w)
		} else {
			w.Write(rlp.EmptyString)
		}
	}
	if n.Value != nil {
		// Presence is wrapped in a single-element list so it can be told
		// apart from "no value": a bare RLP empty string means absent,
		// but a present value may itself legally be the empty byte
		// string (spec.md §3.4), which would otherwise encode
		// identically. See decodeBranchValue in codec.go for the reader.
		valOffset := w.List()
		n.Value.encode(w)
		w.ListEnd(valOffset)
	} else {
		w.Write(rlp.EmptyString)
	}
	w.ListEnd(offset)
}

func (n hashNode) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}

func (n valueNode) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}
