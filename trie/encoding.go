package trie

// Trie keys pass through two encodings on their way to/from storage:
//
// HEX: one byte per nibble, 0-15. Used for in-memory node Path fields
// because it's convenient to index and slice.
//
// COMPACT: the classic Ethereum "hex-prefix" encoding — the flag nibble
// in the high bits of the first byte records oddness of length plus,
// here, whether the node carrying this path is a leaf (go-ethereum
// overloads the same bit as "has a terminating value"; this repo's node
// model already distinguishes Leaf from Extension by Go type, so the bit
// is threaded in explicitly by the caller instead of inferred from a
// trailing terminator nibble).

// hexToCompact packs a hex nibble path into its compact byte form. isLeaf
// sets the flag bit that lets compactToHex report which node type to
// rebuild on decode.
func hexToCompact(hex []byte, isLeaf bool) []byte {
	terminator := byte(0)
	if isLeaf {
		terminator = 1
	}
	buf := make([]byte, len(hex)/2+1)
	buf[0] = terminator << 5
	if len(hex)&1 == 1 {
		buf[0] |= 1 << 4
		buf[0] |= hex[0]
		hex = hex[1:]
	}
	decodeNibbles(hex, buf[1:])
	return buf
}

// compactToHex unpacks a compact path back into hex nibbles, and reports
// whether it belongs to a leaf node.
func compactToHex(compact []byte) (hex []byte, isLeaf bool) {
	if len(compact) == 0 {
		return nil, false
	}
	isLeaf = compact[0]&0x20 != 0
	odd := compact[0]&0x10 != 0

	base := keybytesToHex(compact)
	// base currently has a spurious terminator nibble appended by
	// keybytesToHex and, in the flag byte's low nibble, either zero
	// padding (even length) or the first real nibble (odd length).
	base = base[:len(base)-1]
	if odd {
		return base[1:], isLeaf
	}
	return base[2:], isLeaf
}

// keybytesToHex expands a byte string into one nibble per byte plus a
// trailing terminator nibble (16), matching go-ethereum's own helper of
// the same name. The terminator is a decoding convenience for
// compactToHex above and is stripped before the hex path is handed back
// to callers.
func keybytesToHex(str []byte) []byte {
	l := len(str)*2 + 1
	nibbles := make([]byte, l)
	for i, b := range str {
		nibbles[i*2] = b / 16
		nibbles[i*2+1] = b % 16
	}
	nibbles[l-1] = 16
	return nibbles
}

func decodeNibbles(nibbles []byte, bytes []byte) {
	for bi, ni := 0, 0; ni < len(nibbles); bi, ni = bi+1, ni+2 {
		bytes[bi] = nibbles[ni]<<4 | nibbles[ni+1]
	}
}
