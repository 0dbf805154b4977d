package decoder

import (
	"bytes"
	"unicode"

	"github.com/tripleee/lastrings/charcode"
)

// ByteLookup maps a single byte to its Unicode codepoint; it is consulted
// only for bytes 0x80..0xFF (0x00..0x7F is always plain ASCII). A lookup
// returning ok=false means the byte is unmapped in this codepage.
type ByteLookup func(b byte) (r rune, ok bool)

// SingleByte is the shared implementation backing every 8-bit codepage
// decoder: ASCII, the Latin-1..10/ISO-8859-5..15 family, the Windows/IBM
// code pages, KOI7/KOI8, and the smaller Central-European and Cyrillic
// legacy sets. Alignment is always 1 and encoding size is always 1 byte.
type SingleByte struct {
	name        string
	aliases     []string
	table       charcode.Table
	lookup      ByteLookup
	reliability float64
}

// NewSingleByte builds a SingleByte decoder. lookup supplies the codepage's
// byte-to-rune mapping for bytes 0x80-0xFF; bytes whose lookup is missing
// or non-printable are left invalid (length 0) in the table.
func NewSingleByte(name string, aliases []string, reliability float64, lookup ByteLookup) *SingleByte {
	d := &SingleByte{name: name, aliases: aliases, reliability: reliability, lookup: lookup}
	d.table.SetPrintableASCII()
	for b := 0x80; b <= 0xFF; b++ {
		if lookup == nil {
			continue
		}
		if r, ok := lookup(byte(b)); ok && unicode.IsPrint(r) {
			d.table.Set(byte(b), 1, 0, 0)
		}
	}
	return d
}

func (d *SingleByte) Name() string       { return d.name }
func (d *SingleByte) Aliases() []string  { return d.aliases }
func (d *SingleByte) Alignment() int     { return 1 }
func (d *SingleByte) BigEndian() bool    { return false }
func (d *SingleByte) FilterNUL() bool    { return true }
func (d *SingleByte) DetectionReliability() float64 { return d.reliability }

func (d *SingleByte) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	b := s[0]
	code := d.table[b]
	if !code.Valid() {
		if newlinesAllowed && (b == '\r' || b == '\n') {
			return rune(b), 1
		}
		return 0, 0
	}
	return d.byteToRune(b), 1
}

func (d *SingleByte) byteToRune(b byte) rune {
	if b < 0x80 {
		return rune(b)
	}
	if d.lookup != nil {
		if r, ok := d.lookup(b); ok {
			return r
		}
	}
	return rune(b)
}

func (d *SingleByte) IsAlphaNumeric(cp rune) bool {
	return unicode.IsLetter(cp) || unicode.IsDigit(cp)
}

func (d *SingleByte) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *SingleByte) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	for _, b := range s {
		if _, ok := rf(d.byteToRune(b)); ok {
			return true
		}
	}
	return false
}

func (d *SingleByte) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	for _, b := range s {
		r := romanize(d.byteToRune(b), doRomanize, rf)
		appendRune(out, r, format)
	}
	return true
}
