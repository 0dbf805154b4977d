package charcode

import "testing"

func TestSetPrintableASCII(t *testing.T) {
	var tbl Table
	tbl.SetPrintableASCII()
	if !tbl[int('A')].Valid() {
		t.Error("'A' should be valid")
	}
	if tbl[int('A')].Length != 1 {
		t.Errorf("'A' length = %d, want 1", tbl[int('A')].Length)
	}
	if tbl[9].Length != 1 {
		t.Error("tab should be marked valid")
	}
	if tbl[0].Valid() {
		t.Error("NUL should not be valid")
	}
	if tbl[0x1F].Valid() {
		t.Error("control byte 0x1F should not be valid")
	}
}

func TestAllowNewlines(t *testing.T) {
	var tbl Table
	tbl.SetPrintableASCII()
	if tbl[0x0A].Valid() {
		t.Fatal("LF should not be valid before AllowNewlines")
	}
	tbl.AllowNewlines(1)
	if !tbl[0x0A].Valid() || !tbl[0x0D].Valid() {
		t.Error("CR/LF should be valid after AllowNewlines")
	}
}

func TestValidSuccessor(t *testing.T) {
	c := Code{Length: 2, RangeLo: 0x80, RangeHi: 0xBF}
	if !c.ValidSuccessor(0x80) || !c.ValidSuccessor(0xBF) {
		t.Error("boundary successor bytes should validate")
	}
	if c.ValidSuccessor(0x7F) || c.ValidSuccessor(0xC0) {
		t.Error("out-of-range successor bytes should not validate")
	}
}

func TestSetRange(t *testing.T) {
	var tbl Table
	tbl.SetRange(0xA0, 0xFF, 1)
	if !tbl[0xA0].Valid() || !tbl[0xFF].Valid() {
		t.Error("range bounds should be valid")
	}
	if tbl[0x9F].Valid() {
		t.Error("byte below range should not be valid")
	}
}
