package charset

import "bytes"

import "testing"

func TestContainsUTF8Greek(t *testing.T) {
	buf := []byte("Καλημέρα")
	if !ContainsUTF8(buf) {
		t.Error("expected Greek UTF-8 text to be detected")
	}
}

func TestContainsUTF8PlainASCII(t *testing.T) {
	if ContainsUTF8([]byte("hello world")) {
		t.Error("pure ASCII should not be reported as containing UTF-8 multi-byte runs")
	}
}

func TestContainsUTF8Malformed(t *testing.T) {
	if ContainsUTF8([]byte{0xC0, 0x20, 0xE0, 0x80}) {
		t.Error("malformed lead/continuation bytes should not be detected as UTF-8")
	}
}

func TestContainsASCII16Repeated(t *testing.T) {
	unit := []byte{'H', 0, 'e', 0, 'l', 0, 'l', 0, 'o', 0, ' ', 0, 'W', 0, 'o', 0, 'r', 0, 'l', 0, 'd', 0}
	var buf bytes.Buffer
	for buf.Len() < 384 {
		buf.Write(unit)
	}
	if !ContainsASCII16(buf.Bytes()) {
		t.Error("expected ASCII-16 pattern to be detected")
	}
}

func TestContainsASCII16AllZero(t *testing.T) {
	buf := make([]byte, 400)
	if ContainsASCII16(buf) {
		t.Error("all-zero buffer must not be detected as ASCII-16")
	}
}

func TestResolveExactAndAlias(t *testing.T) {
	table := []NameAlias{
		{Name: "UTF-8", Aliases: []string{"utf8", "u8"}},
		{Name: "ISO-8859-1", Aliases: []string{"latin1", "L1"}},
	}
	if got, ok := Resolve(table, "utf-8"); !ok || got != "UTF-8" {
		t.Errorf("exact match failed: got %q, %v", got, ok)
	}
	if got, ok := Resolve(table, "latin1"); !ok || got != "ISO-8859-1" {
		t.Errorf("alias prefix match failed: got %q, %v", got, ok)
	}
	if _, ok := Resolve(table, "nonexistent"); ok {
		t.Error("unknown name should not resolve")
	}
}
