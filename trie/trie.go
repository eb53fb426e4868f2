// Package trie implements a content-addressed Merkle Patricia Trie
// layered over a pluggable content-addressable blob store. Every
// operation takes an explicit root and returns a new one; there is no
// long-lived mutable tree, so the same store can safely back many
// concurrent roots (SPEC_FULL.md §4.6 and §4's concurrency note).
package trie

import (
	"github.com/oasislabs/patriciatrie/nibble"
	"github.com/oasislabs/patriciatrie/store"
)

// rootPointer turns the caller-facing optional root hash into the
// internal pointer representation: nil means the empty trie, anything
// else is a reference to be resolved from the store.
func rootPointer(root *store.Hash) node {
	if root == nil {
		return nil
	}
	return hashNode(root.Bytes())
}

// Get looks up key in the trie rooted at root, returning its value and
// whether it was present.
func Get(s store.Store, root *store.Hash, key []byte) ([]byte, bool, error) {
	db := newDatabase(s)
	defer db.release()
	val, found, err := getByPointer(db, nibble.FromKey(key), rootPointer(root))
	if !found || err != nil {
		return nil, false, err
	}
	return []byte(val.(valueNode)), true, nil
}

func getByPointer(db *Database, path nibble.Path, ptr node) (node, bool, error) {
	if ptr == nil {
		return nil, false, nil
	}
	n, err := db.resolve(ptr)
	if err != nil {
		return nil, false, err
	}
	return getByNode(db, path, n)
}

func getByNode(db *Database, path nibble.Path, n node) (node, bool, error) {
	switch cn := n.(type) {
	case *branchNode:
		if path.Len() == 0 {
			if cn.Value == nil {
				return nil, false, nil
			}
			return cn.Value, true, nil
		}
		return getByPointer(db, path.Slice(1), cn.Children[path.At(0)])
	case *leafNode:
		if path.Equal(nibble.Path(cn.Path)) {
			return valueNode(cn.Val), true, nil
		}
		return nil, false, nil
	case *extensionNode:
		if path.StartsWith(nibble.Path(cn.Path)) {
			return getByPointer(db, path.Slice(len(cn.Path)), cn.Val)
		}
		return nil, false, nil
	default:
		return nil, false, nil
	}
}

// Insert sets key to value in the trie rooted at root (root may be nil,
// meaning the empty trie) and returns the new root. Insert never removes
// the previous root's node chain from the store; a caller relying on
// bounded storage growth must combine this with an expiry/Prune policy
// on the store itself (spec.md §9, "no explicit delete").
func Insert(s store.Store, root *store.Hash, key, value []byte) (store.Hash, error) {
	db := newDatabase(s)
	defer db.release()

	newPtr, err := insertByPointer(db, nibble.FromKey(key), value, rootPointer(root))
	if err != nil {
		return store.Hash{}, err
	}
	// insertByPointer already applied the normal embed-or-store decision
	// at every level including this one. If that left the new root
	// embedded, force it into the store anyway: a caller holding a bare
	// root hash has nowhere to embed it into.
	if hn, ok := newPtr.(hashNode); ok {
		return store.BytesToHash(hn), nil
	}
	stored, err := db.storeNode(newPtr, true)
	if err != nil {
		return store.Hash{}, err
	}
	return store.BytesToHash(stored.(hashNode)), nil
}

func insertByPointer(db *Database, path nibble.Path, value []byte, ptr node) (node, error) {
	var (
		n   node
		err error
	)
	if ptr == nil {
		n = &leafNode{Path: []byte(path.Clone()), Val: append([]byte(nil), value...)}
	} else {
		resolved, rerr := db.resolve(ptr)
		if rerr != nil {
			return nil, rerr
		}
		n, err = insertByNode(db, path, value, resolved)
		if err != nil {
			return nil, err
		}
	}
	return db.storeNode(n, false)
}

func insertByNode(db *Database, path nibble.Path, value []byte, n node) (node, error) {
	switch cn := n.(type) {
	case *branchNode:
		return insertIntoBranch(db, path, value, cn)
	case *leafNode:
		return insertIntoLeaf(db, path, value, cn)
	case *extensionNode:
		return insertIntoExtension(db, path, value, cn)
	default:
		panic("trie: insert onto nil/unsupported node")
	}
}

func insertIntoBranch(db *Database, path nibble.Path, value []byte, n *branchNode) (node, error) {
	result := n.copy()
	if path.Len() == 0 {
		result.Value = valueNode(append([]byte(nil), value...))
		return result, nil
	}
	idx := path.At(0)
	child, err := insertByPointer(db, path.Slice(1), value, n.Children[idx])
	if err != nil {
		return nil, err
	}
	result.Children[idx] = child
	return result, nil
}

func insertIntoLeaf(db *Database, path nibble.Path, value []byte, n *leafNode) (node, error) {
	nodePath := nibble.Path(n.Path)
	if path.Equal(nodePath) {
		return &leafNode{Path: []byte(path.Clone()), Val: append([]byte(nil), value...)}, nil
	}

	common := nibble.CommonPrefix(nodePath, path)
	branch := &branchNode{}

	addLeaf := func(p nibble.Path, val []byte) error {
		if common.Len() == p.Len() {
			branch.Value = valueNode(append([]byte(nil), val...))
			return nil
		}
		leaf := &leafNode{Path: []byte(p.Slice(common.Len() + 1).Clone()), Val: append([]byte(nil), val...)}
		stored, err := db.storeNode(leaf, false)
		if err != nil {
			return err
		}
		branch.Children[p.At(common.Len())] = stored
		return nil
	}
	if err := addLeaf(nodePath, n.Val); err != nil {
		return nil, err
	}
	if err := addLeaf(path, value); err != nil {
		return nil, err
	}

	if common.Len() > 0 {
		stored, err := db.storeNode(branch, false)
		if err != nil {
			return nil, err
		}
		return &extensionNode{Path: []byte(common.Clone()), Val: stored}, nil
	}
	return branch, nil
}

func insertIntoExtension(db *Database, path nibble.Path, value []byte, n *extensionNode) (node, error) {
	nodePath := nibble.Path(n.Path)
	if path.StartsWith(nodePath) {
		child, err := insertByPointer(db, path.Slice(nodePath.Len()), value, n.Val)
		if err != nil {
			return nil, err
		}
		return &extensionNode{Path: n.Path, Val: child}, nil
	}

	common := nibble.CommonPrefix(nodePath, path)
	branch := &branchNode{}

	// Former extension target, re-pointed past the diverging nibble.
	branchNibble := nodePath.At(common.Len())
	remaining := nodePath.Slice(common.Len() + 1)
	if remaining.Len() == 0 {
		branch.Children[branchNibble] = n.Val
	} else {
		ext := &extensionNode{Path: []byte(remaining.Clone()), Val: n.Val}
		stored, err := db.storeNode(ext, false)
		if err != nil {
			return nil, err
		}
		branch.Children[branchNibble] = stored
	}

	if common.Len() == path.Len() {
		branch.Value = valueNode(append([]byte(nil), value...))
	} else {
		leaf := &leafNode{Path: []byte(path.Slice(common.Len() + 1).Clone()), Val: append([]byte(nil), value...)}
		stored, err := db.storeNode(leaf, false)
		if err != nil {
			return nil, err
		}
		branch.Children[path.At(common.Len())] = stored
	}

	if common.Len() > 0 {
		stored, err := db.storeNode(branch, false)
		if err != nil {
			return nil, err
		}
		return &extensionNode{Path: []byte(common.Clone()), Val: stored}, nil
	}
	return branch, nil
}

// Remove deletes key from the trie rooted at root, returning the new
// root, or nil if the trie became empty. A nil root (empty trie) returns
// nil; a key not present in a non-empty trie leaves it unchanged, and the
// same root hash is returned.
func Remove(s store.Store, root *store.Hash, key []byte) (*store.Hash, error) {
	if root == nil {
		return nil, nil
	}
	db := newDatabase(s)
	defer db.release()

	newNode, err := removeByPointer(db, nibble.FromKey(key), rootPointer(root))
	if err != nil {
		return nil, err
	}
	if newNode == nil {
		return nil, nil
	}
	stored, err := db.storeNode(newNode, true)
	if err != nil {
		return nil, err
	}
	h := store.BytesToHash(stored.(hashNode))
	return &h, nil
}

// removeByPointer resolves ptr and removes path from it, returning the
// replacement node (not yet stored; the caller stores or embeds it via
// storeNode), or nil if nothing remains at this position.
func removeByPointer(db *Database, path nibble.Path, ptr node) (node, error) {
	if ptr == nil {
		return nil, nil
	}
	n, err := db.resolve(ptr)
	if err != nil {
		return nil, err
	}
	return removeByNode(db, path, n)
}

func removeByNode(db *Database, path nibble.Path, n node) (node, error) {
	switch cn := n.(type) {
	case *branchNode:
		return removeFromBranch(db, path, cn)
	case *leafNode:
		if path.Equal(nibble.Path(cn.Path)) {
			return nil, nil
		}
		return cn, nil
	case *extensionNode:
		return removeFromExtension(db, path, cn)
	default:
		return n, nil
	}
}

func removeFromBranch(db *Database, path nibble.Path, n *branchNode) (node, error) {
	result := n.copy()
	collapse := false

	if path.Len() == 0 {
		result.Value = nil
		collapse = true
	} else {
		idx := path.At(0)
		child, err := removeByPointer(db, path.Slice(1), n.Children[idx])
		if err != nil {
			return nil, err
		}
		if child != nil {
			stored, err := db.storeNode(child, false)
			if err != nil {
				return nil, err
			}
			result.Children[idx] = stored
			collapse = false
		} else {
			result.Children[idx] = nil
			collapse = true
		}
	}

	if !collapse {
		return result, nil
	}
	return collapseBranch(db, result)
}

// collapseBranch applies the post-removal branch collapse rules: with no
// remaining children the branch itself disappears, with exactly one
// remaining slot it is replaced by a Leaf or Extension (folding this
// node's own nibble/value into the child), and otherwise it is kept.
func collapseBranch(db *Database, n *branchNode) (node, error) {
	childIdx := -1
	childCount := 0
	for i, c := range &n.Children {
		if c != nil {
			childCount++
			childIdx = i
		}
	}
	if n.Value != nil {
		childCount++
	}

	switch {
	case childCount == 0:
		return nil, nil
	case childCount == 1 && n.Value != nil:
		return &leafNode{Path: nil, Val: []byte(n.Value.(valueNode))}, nil
	case childCount == 1:
		child, err := db.resolve(n.Children[childIdx])
		if err != nil {
			return nil, err
		}
		switch cc := child.(type) {
		case *branchNode:
			stored, err := db.storeNode(cc, false)
			if err != nil {
				return nil, err
			}
			return &extensionNode{Path: []byte{byte(childIdx)}, Val: stored}, nil
		case *leafNode:
			merged := nibble.Path([]byte{byte(childIdx)}).Concat(nibble.Path(cc.Path))
			return &leafNode{Path: []byte(merged), Val: cc.Val}, nil
		case *extensionNode:
			merged := nibble.Path([]byte{byte(childIdx)}).Concat(nibble.Path(cc.Path))
			return &extensionNode{Path: []byte(merged), Val: cc.Val}, nil
		default:
			panic("trie: branch's sole remaining child resolved to an unsupported node")
		}
	default:
		return n, nil
	}
}

func removeFromExtension(db *Database, path nibble.Path, n *extensionNode) (node, error) {
	nodePath := nibble.Path(n.Path)
	if !path.StartsWith(nodePath) {
		return n, nil
	}
	child, err := removeByPointer(db, path.Slice(nodePath.Len()), n.Val)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}
	switch cc := child.(type) {
	case *branchNode:
		stored, err := db.storeNode(cc, false)
		if err != nil {
			return nil, err
		}
		return &extensionNode{Path: n.Path, Val: stored}, nil
	case *leafNode:
		merged := nibble.Path(n.Path).Concat(nibble.Path(cc.Path))
		return &leafNode{Path: []byte(merged), Val: cc.Val}, nil
	case *extensionNode:
		merged := nibble.Path(n.Path).Concat(nibble.Path(cc.Path))
		return &extensionNode{Path: []byte(merged), Val: cc.Val}, nil
	default:
		panic("trie: extension's child resolved to an unsupported node")
	}
}
