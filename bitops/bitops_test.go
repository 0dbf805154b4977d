package bitops

import "testing"

func TestPopCount32(t *testing.T) {
	cases := []struct {
		w    uint32
		want int
	}{
		{0, 0},
		{1, 1},
		{0xFF, 8},
		{0xFFFFFFFF, 32},
	}
	for _, c := range cases {
		if got := PopCount32(c.w); got != c.want {
			t.Errorf("PopCount32(%#x) = %d, want %d", c.w, got, c.want)
		}
	}
}

func TestPopCountMasked32(t *testing.T) {
	w := uint32(0b10110101)
	if got := PopCountMasked32(w, 0); got != 0 {
		t.Errorf("bit=0: got %d, want 0", got)
	}
	if got := PopCountMasked32(w, 4); got != 2 {
		t.Errorf("bit=4: got %d, want 2", got)
	}
	if got := PopCountMasked32(w, 32); got != PopCount32(w) {
		t.Errorf("bit=32: got %d, want %d", got, PopCount32(w))
	}
}

func TestLoadStoreLE32(t *testing.T) {
	b := make([]byte, 4)
	StoreLE32(b, 0x01020304)
	if got := LoadLE32(b); got != 0x01020304 {
		t.Errorf("LoadLE32 = %#x, want 0x01020304", got)
	}
	if b[0] != 0x04 || b[3] != 0x01 {
		t.Errorf("StoreLE32 wrote wrong byte order: %v", b)
	}
}

func TestLoadStoreBE32(t *testing.T) {
	b := make([]byte, 4)
	StoreBE32(b, 0x01020304)
	if got := LoadBE32(b); got != 0x01020304 {
		t.Errorf("LoadBE32 = %#x, want 0x01020304", got)
	}
	if b[0] != 0x01 || b[3] != 0x04 {
		t.Errorf("StoreBE32 wrote wrong byte order: %v", b)
	}
}

func TestDecodeUTF8OneASCII(t *testing.T) {
	cp, n := DecodeUTF8One([]byte("A"))
	if cp != 'A' || n != 1 {
		t.Errorf("got (%v,%v), want ('A',1)", cp, n)
	}
}

func TestDecodeUTF8OneOverlong(t *testing.T) {
	// {0xC0, 0x80} is an overlong encoding of NUL; must be rejected.
	_, n := DecodeUTF8One([]byte{0xC0, 0x80})
	if n != 0 {
		t.Errorf("overlong sequence accepted: consumed=%d", n)
	}
}

func TestDecodeUTF8OneTruncated(t *testing.T) {
	_, n := DecodeUTF8One([]byte{0xE0, 0xA0})
	if n != 0 {
		t.Errorf("truncated 3-byte sequence accepted: consumed=%d", n)
	}
}

func TestDecodeUTF8OneRoundTrip(t *testing.T) {
	for _, r := range []rune{0x41, 0x3B1, 0x4E2D, 0x1F600} {
		buf := EncodeUTF8(nil, r)
		cp, n := DecodeUTF8One(buf)
		if cp != r || n != len(buf) {
			t.Errorf("round trip of %U: got (%U,%d), want (%U,%d)", r, cp, n, r, len(buf))
		}
	}
}

func TestDecodeUTF8OneEmpty(t *testing.T) {
	_, n := DecodeUTF8One(nil)
	if n != 0 {
		t.Errorf("empty input: consumed=%d, want 0", n)
	}
}
