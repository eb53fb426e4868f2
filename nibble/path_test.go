package nibble

import "testing"

func TestFromKeyRoundTrip(t *testing.T) {
	keys := [][]byte{
		{},
		{0x00},
		{0xab, 0xcd, 0xef},
		[]byte("hello"),
	}
	for _, k := range keys {
		p := FromKey(k)
		if p.Len() != len(k)*2 {
			t.Fatalf("FromKey(%x): got len %d, want %d", k, p.Len(), len(k)*2)
		}
		if got := p.Bytes(); string(got) != string(k) {
			t.Fatalf("FromKey(%x).Bytes() = %x, want %x", k, got, k)
		}
	}
}

func TestFromKeyNibbleOrder(t *testing.T) {
	p := FromKey([]byte{0xab})
	if p.At(0) != 0xa || p.At(1) != 0xb {
		t.Fatalf("got nibbles %v, want [a b]", p)
	}
}

func TestStartsWith(t *testing.T) {
	p := FromKey([]byte("hello"))
	if !p.StartsWith(p.SliceTo(0, 4)) {
		t.Fatal("expected prefix match")
	}
	if p.StartsWith(FromKey([]byte("world"))) {
		t.Fatal("unexpected prefix match")
	}
	if !p.StartsWith(Path{}) {
		t.Fatal("every path starts with the empty path")
	}
	if (Path{}).StartsWith(p) {
		t.Fatal("empty path cannot start with a longer one")
	}
}

func TestCommonPrefix(t *testing.T) {
	a := FromKey([]byte("another"))
	b := FromKey([]byte("anotherrr"))
	c := CommonPrefix(a, b)
	if !c.Equal(a) {
		t.Fatalf("common prefix of a prefix-pair should equal the shorter one, got %v", c)
	}

	x := FromKey([]byte("foo"))
	y := FromKey([]byte("bar"))
	// 'f' (0x66) and 'b' (0x62) share only their high nibble, 6.
	if got := CommonPrefix(x, y); !got.Equal(Path{6}) {
		t.Fatalf("got common prefix %v, want [6]", got)
	}
}

func TestAppendDoesNotAliasOriginal(t *testing.T) {
	base := FromKey([]byte{0xab})
	extended := base.Append(0x1, 0x2)
	if base.Len() != 2 {
		t.Fatalf("Append mutated its receiver: base now has len %d", base.Len())
	}
	if extended.Len() != 4 {
		t.Fatalf("got len %d, want 4", extended.Len())
	}
}

func TestEqualAndClone(t *testing.T) {
	p := FromKey([]byte("xyz"))
	q := p.Clone()
	if !p.Equal(q) {
		t.Fatal("clone should be equal to original")
	}
	q[0] = 0xf
	if p.Equal(q) {
		t.Fatal("mutating the clone should not affect the original or the equality result")
	}
}
