// Package nibble implements the 4-bit nibble path operations the trie
// engine walks keys with: bytes are split high-nibble-first so that the
// resulting path sorts and branches one hex digit at a time.
package nibble

// Path is an ordered sequence of 4-bit values (0-15), one per element.
// It is immutable by convention: every operation below returns a new
// Path rather than mutating its receiver or arguments.
type Path []byte

// FromKey converts a byte key into its nibble path, high nibble first.
func FromKey(key []byte) Path {
	p := make(Path, len(key)*2)
	for i, b := range key {
		p[i*2] = b >> 4
		p[i*2+1] = b & 0x0f
	}
	return p
}

// Bytes packs an even-length path back into a byte key. It panics if the
// path has odd length, which never happens for a path derived from a key
// via FromKey and only sliced/concatenated with another even-aligned path.
func (p Path) Bytes() []byte {
	if len(p)%2 != 0 {
		panic("nibble: odd-length path cannot be packed into bytes")
	}
	b := make([]byte, len(p)/2)
	for i := range b {
		b[i] = p[i*2]<<4 | p[i*2+1]
	}
	return b
}

// Len returns the number of nibbles in the path.
func (p Path) Len() int {
	return len(p)
}

// At returns the nibble at index i.
func (p Path) At(i int) byte {
	return p[i]
}

// Slice returns the sub-path starting at offset off, running to the end.
func (p Path) Slice(off int) Path {
	return p[off:]
}

// SliceTo returns the sub-path [off:end).
func (p Path) SliceTo(off, end int) Path {
	return p[off:end]
}

// Append returns a new path with tail appended after p. The result never
// aliases p's backing array beyond its current length.
func (p Path) Append(tail ...byte) Path {
	out := make(Path, 0, len(p)+len(tail))
	out = append(out, p...)
	out = append(out, tail...)
	return out
}

// Concat is a variant of Append taking another Path, for readability at
// call sites that join two paths rather than a path and loose nibbles.
func (p Path) Concat(tail Path) Path {
	return p.Append(tail...)
}

// Equal reports whether p and q contain the same nibbles in the same
// order.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// StartsWith reports whether p begins with all of prefix.
func (p Path) StartsWith(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// CommonPrefix returns the longest prefix shared by a and b.
func CommonPrefix(a, b Path) Path {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// Clone returns a copy of p that does not alias its backing array.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}
