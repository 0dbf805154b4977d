package decoder

import (
	"bytes"
	"testing"

	"github.com/tripleee/lastrings/charcode"
)

func TestASCIINext(t *testing.T) {
	d := NewASCII()
	var st charcode.EscapeState
	cp, n := d.Next([]byte("Az9"), &st, false)
	if cp != 'A' || n != 1 {
		t.Fatalf("got %c,%d", cp, n)
	}
	if cp, n := d.Next([]byte{0x01}, &st, false); n != 0 {
		t.Fatalf("control byte should not decode, got %c,%d", cp, n)
	}
}

func TestASCIIReliabilityBias(t *testing.T) {
	if NewASCII().DetectionReliability() <= 1.0 {
		t.Fatal("ASCII must carry a positive bias over its supersets")
	}
}

func TestCharmapDecodersBuilt(t *testing.T) {
	found := false
	for _, d := range NewCharmapDecoders() {
		if d.Name() == "ISO-8859-1" {
			found = true
			var st charcode.EscapeState
			cp, n := d.Next([]byte{0xE9}, &st, false) // e acute
			if n != 1 || cp != 0xE9 {
				t.Fatalf("got %v,%d", cp, n)
			}
		}
	}
	if !found {
		t.Fatal("ISO-8859-1 missing from charmap decoders")
	}
}

func TestUTF8RoundTrip(t *testing.T) {
	d := NewUTF8()
	var st charcode.EscapeState
	s := "héllo"
	cp, n := d.Next([]byte(s), &st, false)
	if cp != 'h' || n != 1 {
		t.Fatalf("got %v,%d", cp, n)
	}
	var out bytes.Buffer
	if !d.WriteAsUTF([]byte(s), &out, false, nil, FormatUTF8) {
		t.Fatal("WriteAsUTF failed")
	}
	if out.String() != s {
		t.Fatalf("got %q", out.String())
	}
}

func TestUTF16SurrogatePair(t *testing.T) {
	d := NewUTF16LE()
	// U+1F600 GRINNING FACE surrogate pair D83D DE00
	s := []byte{0x3D, 0xD8, 0x00, 0xDE}
	var st charcode.EscapeState
	cp, n := d.Next(s, &st, false)
	if n != 4 || cp != 0x1F600 {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestUTF32Validation(t *testing.T) {
	d := NewUTF32LE()
	var st charcode.EscapeState
	bad := []byte{0x00, 0x00, 0x11, 0x00} // > 0x10FFFF-ish per spec reject rule
	if _, n := d.Next(bad, &st, false); n != 0 {
		t.Fatalf("expected rejection, got n=%d", n)
	}
	good := []byte{0x41, 0x00, 0x00, 0x00}
	cp, n := d.Next(good, &st, false)
	if n != 4 || cp != 'A' {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestUTFEBCDICSingleByte(t *testing.T) {
	d := NewUTFEBCDIC()
	var st charcode.EscapeState
	cp, n := d.Next([]byte{0xC1}, &st, false) // EBCDIC 'A'
	if n != 1 || cp != 'A' {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestKOI7CyrillicRemap(t *testing.T) {
	d := NewKOI7()
	var st charcode.EscapeState
	cp, n := d.Next([]byte{0x60}, &st, false)
	if n != 1 || cp != 0x0430 {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestEUCJPHalfWidthKana(t *testing.T) {
	d := NewEUC(EUCJP)
	var st charcode.EscapeState
	cp, n := d.Next([]byte{0x8E, 0xA1}, &st, false)
	if n != 2 || cp != 0xFF61 {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestEUCJPRejectsBadLead(t *testing.T) {
	d := NewEUC(EUCJP)
	var st charcode.EscapeState
	if _, n := d.Next([]byte{0x80}, &st, false); n != 0 {
		t.Fatalf("0x80 is not a valid EUC-JP lead byte, got n=%d", n)
	}
}

func TestShiftJISTwoByte(t *testing.T) {
	d := NewShiftJIS()
	var st charcode.EscapeState
	cp, n := d.Next([]byte{0x82, 0xA0}, &st, false)
	if n != 2 || cp == 0 {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestGBKLevelWidening(t *testing.T) {
	d1 := NewGBK(GBK1)
	var st charcode.EscapeState
	if _, n := d1.Next([]byte{0x81, 0x90}, &st, false); n != 0 {
		t.Fatalf("0x90 out of GBK1 second-byte range, got n=%d", n)
	}
	full := NewGBK(GBKFull)
	if _, n := full.Next([]byte{0x81, 0x90}, &st, false); n != 2 {
		t.Fatalf("0x90 should be valid under GBKFull, got n=%d", n)
	}

	d2 := NewGBK(GBK2)
	if _, n := d2.Next([]byte{0x81, 0x40}, &st, false); n != 2 {
		t.Fatalf("GBK2 must accept everything GBK1 accepts (0x40-0x7E), got n=%d", n)
	}
	if _, n := d2.Next([]byte{0x81, 0x90}, &st, false); n != 2 {
		t.Fatalf("0x90 should be valid under GBK2, got n=%d", n)
	}
}

func TestGB18030FourByte(t *testing.T) {
	d := NewGBK(GB18030Full)
	var st charcode.EscapeState
	s := []byte{0x81, 0x30, 0x81, 0x30}
	if _, n := d.Next(s, &st, false); n != 4 {
		t.Fatalf("expected 4-byte GB18030 sequence, got n=%d", n)
	}
}

func TestBig5TwoByte(t *testing.T) {
	d := NewBig5(false)
	var st charcode.EscapeState
	cp, n := d.Next([]byte{0xA4, 0x40}, &st, false)
	if n != 2 || cp == 0 {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestHZModeSwitch(t *testing.T) {
	d := NewHZ()
	st := charcode.None
	if _, n := d.Next([]byte("~{"), &st, false); n != 2 || st != charcode.Active {
		t.Fatalf("expected shift into Active, got n=%d state=%v", n, st)
	}
	cp, n := d.Next([]byte{0x21, 0x21}, &st, false)
	if n != 2 || cp == 0 {
		t.Fatalf("got %v,%d", cp, n)
	}
	if _, n := d.Next([]byte("~}"), &st, false); n != 2 || st != charcode.None {
		t.Fatalf("expected shift out, got n=%d state=%v", n, st)
	}
}

func TestISO2022EscapeTracking(t *testing.T) {
	d := NewISO2022()
	var st charcode.EscapeState
	cp, n := d.Next([]byte{0x1B, '$', 'B'}, &st, false)
	if n != 3 || cp != 0x1B {
		t.Fatalf("got %v,%d", cp, n)
	}
}

func TestUTF7ShiftState(t *testing.T) {
	d := NewUTF7()
	st := charcode.None
	if _, n := d.Next([]byte("+"), &st, false); n != 1 || st != charcode.Active {
		t.Fatalf("expected shift into Active, got n=%d", n)
	}
	if cp, n := d.Next([]byte("A"), &st, false); n != 1 || cp != 'A' {
		t.Fatalf("base64 alphabet byte should be accepted, got %v,%d", cp, n)
	}
	if _, n := d.Next([]byte("-"), &st, false); n != 1 || st != charcode.None {
		t.Fatalf("expected shift out on '-', got n=%d state=%v", n, st)
	}
}

func TestAscii85Envelope(t *testing.T) {
	d := NewAscii85()
	st := charcode.None
	if _, n := d.Next([]byte("<~"), &st, false); n != 2 || st != charcode.Active {
		t.Fatalf("expected envelope open, got n=%d", n)
	}
	if _, n := d.Next([]byte("z"), &st, false); n != 1 {
		t.Fatalf("'z' shorthand should be accepted inside envelope, got n=%d", n)
	}
	if _, n := d.Next([]byte("~>"), &st, false); n != 2 || st != charcode.None {
		t.Fatalf("expected envelope close, got n=%d", n)
	}
}

func TestIndicDecoders(t *testing.T) {
	for _, d := range []Decoder{NewISCII(), NewTSCII(), NewVISCII()} {
		var st charcode.EscapeState
		if cp, n := d.Next([]byte{'A'}, &st, false); n != 1 || cp != 'A' {
			t.Fatalf("%s: ASCII passthrough broken, got %v,%d", d.Name(), cp, n)
		}
	}
}

func TestDecoderCacheSharesInstance(t *testing.T) {
	c := NewDecoderCache()
	d1, ok := c.Get("UTF-8")
	if !ok {
		t.Fatal("UTF-8 should resolve")
	}
	d2, ok := c.Get("utf8")
	if !ok {
		t.Fatal("alias utf8 should resolve")
	}
	if d1 != d2 {
		t.Fatal("expected the same shared decoder instance for name and alias")
	}
}

func TestDecoderCacheUnknownName(t *testing.T) {
	c := NewDecoderCache()
	if _, ok := c.Get("not-a-real-encoding"); ok {
		t.Fatal("unknown encoding should not resolve")
	}
}

func TestNamesNonEmpty(t *testing.T) {
	if len(Names()) == 0 {
		t.Fatal("registry should not be empty")
	}
}
