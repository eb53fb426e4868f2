package trie

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
)

// decodeNode parses the canonical RLP encoding of a trie node.
func decodeNode(buf []byte) (node, error) {
	if len(buf) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	elems, _, err := rlp.SplitList(buf)
	if err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}
	switch c, _ := rlp.CountValues(elems); c {
	case 2:
		n, err := decodeShort(elems)
		return n, wrapError(err, "short")
	case 17:
		n, err := decodeFull(elems)
		return n, wrapError(err, "full")
	default:
		return nil, fmt.Errorf("invalid number of list elements: %v", c)
	}
}

func decodeShort(elems []byte) (node, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	path, isLeaf := compactToHex(kbuf)
	if isLeaf {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid leaf value: %v", err)
		}
		return &leafNode{Path: path, Val: val}, nil
	}
	r, _, err := decodeRef(rest)
	if err != nil {
		return nil, wrapError(err, "val")
	}
	if r == nil {
		return nil, fmt.Errorf("extension node with null pointer")
	}
	return &extensionNode{Path: path, Val: r}, nil
}

func decodeFull(elems []byte) (*branchNode, error) {
	n := &branchNode{}
	for i := 0; i < 16; i++ {
		cld, rest, err := decodeRef(elems)
		if err != nil {
			return n, wrapError(err, fmt.Sprintf("[%d]", i))
		}
		n.Children[i], elems = cld, rest
	}
	val, _, err := decodeBranchValue(elems)
	if err != nil {
		return n, wrapError(err, "val")
	}
	n.Value = val
	return n, nil
}

// decodeBranchValue decodes the 17th list element of a branch. Presence is
// disambiguated from "no value" by wrapping a present value (even an
// empty one) in a single-element list; RLP's empty string alone means
// absent. See node.go's branchNode.encode for the writer side.
func decodeBranchValue(buf []byte) (node, []byte, error) {
	kind, content, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, buf, err
	}
	if kind == rlp.String {
		if len(content) != 0 {
			return nil, nil, fmt.Errorf("invalid branch value slot")
		}
		return nil, rest, nil
	}
	val, _, err := rlp.SplitString(content)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid branch value: %v", err)
	}
	return valueNode(val), rest, nil
}

const hashLen = 32

// decodeRef decodes a child/pointer slot: an embedded node (an RLP list,
// which must be smaller than a hash reference to have been legally
// embedded), a hash reference (32-byte string), or null (empty string).
func decodeRef(buf []byte) (node, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, buf, err
	}
	switch {
	case kind == rlp.List:
		if size := len(buf) - len(rest); size >= hashLen {
			return nil, buf, fmt.Errorf("oversized embedded node (size is %d bytes, want size < %d)", size, hashLen)
		}
		n, err := decodeNode(buf)
		return n, rest, err
	case kind == rlp.String && len(val) == 0:
		return nil, rest, nil
	case kind == rlp.String && len(val) == 32:
		return hashNode(val), rest, nil
	default:
		return nil, nil, fmt.Errorf("invalid RLP string size %d (want 0 or 32)", len(val))
	}
}

type decodeError struct {
	what  error
	stack []string
}

func wrapError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	if decErr, ok := err.(*decodeError); ok {
		decErr.stack = append(decErr.stack, ctx)
		return decErr
	}
	return &decodeError{err, []string{ctx}}
}

func (err *decodeError) Error() string {
	return fmt.Sprintf("%v (decode path: %s)", err.what, strings.Join(err.stack, "<-"))
}

func (err *decodeError) Unwrap() error { return err.what }

// encodeNode returns the canonical RLP encoding of n.
func encodeNode(n node) []byte {
	w := rlp.NewEncoderBuffer(nil)
	n.encode(w)
	enc := w.AppendToBytes(nil)
	w.Reset(nil)
	return enc
}
