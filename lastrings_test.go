package lastrings

import (
	"bytes"
	"testing"
)

// memStream is the simplest InputStream: an in-memory byte slice read
// once from front to back, mirroring how cmd/lastrings wraps an
// os.File but without touching the filesystem.
type memStream struct {
	data []byte
	pos  int
}

func newMemStream(data []byte) *memStream { return &memStream{data: data} }

func (m *memStream) AtEnd() bool    { return m.pos >= len(m.data) }
func (m *memStream) Offset() int64  { return int64(m.pos) }
func (m *memStream) Get(dst []byte) (int, error) {
	if m.pos >= len(m.data) {
		return 0, nil
	}
	n := copy(dst, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func collect(t *testing.T, data []byte, params ExtractionParameters) []Result {
	t.Helper()
	var results []Result
	params.OnOutput = func(r Result) error {
		results = append(results, r)
		return nil
	}
	if err := Extract(newMemStream(data), params); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return results
}

// S1: a plain ASCII sentence extracts as exactly one ASCII string.
func TestScenarioPlainASCIISentence(t *testing.T) {
	input := []byte("The quick brown fox jumps over the lazy dog.\n")
	params := DefaultParameters()
	results := collect(t, input, params)

	if len(results) != 1 {
		t.Fatalf("expected exactly one string, got %d: %+v", len(results), results)
	}
	if results[0].Decoder != "ASCII" {
		t.Fatalf("expected ASCII decoder, got %q", results[0].Decoder)
	}
	want := "The quick brown fox jumps over the lazy dog."
	if string(results[0].Text) != want {
		t.Fatalf("text = %q, want %q", results[0].Text, want)
	}
}

// S2: BOM-prefixed UTF-16LE text decodes without the BOM or trailing
// NUL padding appearing in the emitted content.
func TestScenarioUTF16LEWithBOM(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	for _, r := range "héllo world" {
		lo := byte(r)
		hi := byte(r >> 8)
		buf.WriteByte(lo)
		buf.WriteByte(hi)
	}
	buf.Write(make([]byte, 16))

	params := DefaultParameters()
	params.NewlinesAllowed = false
	results := collect(t, buf.Bytes(), params)

	if len(results) == 0 {
		t.Fatal("expected at least one string")
	}
	found := false
	for _, r := range results {
		if bytes.Contains(r.Text, []byte("hello")) || bytes.Contains(r.Text, []byte("héllo")) {
			found = true
			if bytes.Contains(r.RawBytes, []byte{0xFF, 0xFE}) {
				t.Fatal("BOM bytes leaked into RawBytes of the emitted string")
			}
		}
	}
	if !found {
		t.Fatalf("no result contained the expected text: %+v", results)
	}
}

// S3: repeated UTF-8 strings separated by single NUL bytes extract as
// separate strings, none containing the separator.
func TestScenarioUTF8RepeatedWithNULSeparators(t *testing.T) {
	word := "Καλημέρα"
	var buf bytes.Buffer
	for i := 0; i < 5; i++ {
		if i > 0 {
			buf.WriteByte(0x00)
		}
		buf.WriteString(word)
	}

	params := DefaultParameters()
	params.MaxGapBetweenValid = 1
	results := collect(t, buf.Bytes(), params)

	if len(results) != 5 {
		t.Fatalf("expected 5 strings, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if bytes.ContainsRune(r.RawBytes, 0x00) {
			t.Fatalf("NUL byte leaked into raw bytes: %+v", r.RawBytes)
		}
	}
}

// S4: a long run of an alternating 16-bit pair is recognized as
// padding and skipped without emitting anything.
func TestScenarioRepeatedUnitRunSkipped(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA, 0x55}, 32)
	params := DefaultParameters()
	results := collect(t, data, params)

	if len(results) != 0 {
		t.Fatalf("expected no emissions from a repeated-unit run, got %+v", results)
	}
}

// S5: a leading ASCII-only prefix is split off from a following
// superset-decoder (Big5) run at the run boundary instead of being
// swallowed into it, so the Big5 portion of the string is recognized
// as exactly its own 20-character, 40-byte run.
func TestScenarioShortASCIIFilteredBig5Recognized(t *testing.T) {
	big5, ok := sharedCache.Get("Big5")
	if !ok {
		t.Fatal("Big5 decoder not registered")
	}

	var buf bytes.Buffer
	buf.WriteString("     ")
	for i := 0; i < 20; i++ {
		buf.Write([]byte{0xA4, 0x40})
	}
	buf.Write([]byte{0x00, 0x00})

	params := DefaultParameters()
	params.Encoding = big5.Name()
	results := collect(t, buf.Bytes(), params)

	// Big5 is the only candidate here (Encoding forces it), so the 5
	// leading ASCII spaces are never tried as their own string; the
	// ASCII-precedence split still keeps them out of Big5's run, which
	// begins only where the Big5-specific bytes do.
	if len(results) != 1 {
		t.Fatalf("expected exactly one string, got %d: %+v", len(results), results)
	}
	if results[0].Offset != 5 {
		t.Fatalf("expected the Big5 run to start at offset 5 (after the ASCII prefix), got %d", results[0].Offset)
	}
	if results[0].Length != 40 {
		t.Fatalf("expected a 40-byte Big5 run, got %d", results[0].Length)
	}
	if bytes.ContainsRune(results[0].RawBytes, ' ') {
		t.Fatalf("ASCII padding leaked into the Big5 run: %+v", results[0].RawBytes)
	}
}

// TestASCIIPrecedenceAtRunBoundary directly exercises the split in
// auto-encoding mode: a Big5 decoder's Next loop would happily consume
// a leading ASCII prefix too (Big5's low byte range is an ASCII
// superset), but the extractor must not let that prefix merge into the
// Big5 candidate's run.
func TestASCIIPrecedenceAtRunBoundary(t *testing.T) {
	big5, ok := sharedCache.Get("Big5")
	if !ok {
		t.Fatal("Big5 decoder not registered")
	}
	var buf bytes.Buffer
	buf.WriteString("hello")
	for i := 0; i < 20; i++ {
		buf.Write([]byte{0xA4, 0x40})
	}
	run := extractRun(buf.Bytes(), 0, big5, DefaultParameters())
	if run == nil {
		t.Fatal("expected a Big5 run")
	}
	if run.start != 5 {
		t.Fatalf("Big5's run should start after the ASCII prefix, got start=%d", run.start)
	}
	if run.length != 40 {
		t.Fatalf("expected the Big5 portion alone (40 bytes), got %d", run.length)
	}
}

// S6: a short accidental EUC-looking byte run (A1 A1 A1 A1) in otherwise
// arbitrary data is not emitted as a 4-byte string of its own.
func TestScenarioShortAccidentalEUCRunNotEmitted(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i * 37)
	}
	data[10] = 0xA1
	data[11] = 0xA1
	data[12] = 0xA1
	data[13] = 0xA1

	params := DefaultParameters()
	params.MinAlphaFraction = 0.5
	results := collect(t, data, params)

	for _, r := range results {
		if r.Offset == 10 && r.Length == 4 {
			t.Fatalf("a 4-byte accidental match should not have been emitted: %+v", r)
		}
	}
}

func TestExtractAcceptsEmptyInput(t *testing.T) {
	params := DefaultParameters()
	var got []Result
	params.OnOutput = func(r Result) error {
		got = append(got, r)
		return nil
	}
	if err := Extract(newMemStream(nil), params); err != nil {
		t.Fatalf("empty input should not error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty input should emit nothing, got %+v", got)
	}
}

func TestExtractRequiresOutputCallback(t *testing.T) {
	params := DefaultParameters()
	params.OnOutput = nil
	if err := Extract(newMemStream([]byte("hello")), params); err != ErrNoInput {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestExtractUnknownForcedEncoding(t *testing.T) {
	params := DefaultParameters()
	params.Encoding = "NOT-A-REAL-ENCODING"
	params.OnOutput = func(Result) error { return nil }
	if err := Extract(newMemStream([]byte("hello")), params); err != ErrUnknownEncoding {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}
