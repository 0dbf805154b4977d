package decoder

import (
	"bytes"
	"unicode"

	"github.com/tripleee/lastrings/charcode"
)

// ebcdicToASCII is a coarse EBCDIC (IBM037-style)-to-ASCII table for the
// single-byte portion of UTF-EBCDIC, covering digits, upper/lower-case
// letters and common punctuation; unmapped bytes decode as invalid.
var ebcdicToASCII = buildEBCDICTable()

func buildEBCDICTable() [256]rune {
	var t [256]rune
	set := func(b byte, r rune) { t[b] = r }
	for i, r := 0xC1, 'A'; r <= 'I'; i, r = i+1, r+1 {
		set(byte(i), r)
	}
	for i, r := 0xD1, 'J'; r <= 'R'; i, r = i+1, r+1 {
		set(byte(i), r)
	}
	for i, r := 0xE2, 'S'; r <= 'Z'; i, r = i+1, r+1 {
		set(byte(i), r)
	}
	for i, r := 0x81, 'a'; r <= 'i'; i, r = i+1, r+1 {
		set(byte(i), r)
	}
	for i, r := 0x91, 'j'; r <= 'r'; i, r = i+1, r+1 {
		set(byte(i), r)
	}
	for i, r := 0xA2, 's'; r <= 'z'; i, r = i+1, r+1 {
		set(byte(i), r)
	}
	for i, r := 0xF0, '0'; r <= '9'; i, r = i+1, r+1 {
		set(byte(i), r)
	}
	set(0x40, ' ')
	set(0x4B, '.')
	set(0x6B, ',')
	set(0x5A, '!')
	set(0x7D, '\'')
	set(0x4F, '|')
	set(0x5C, '%')
	set(0x7F, '"')
	return t
}

// UTFEBCDIC implements the UTF-EBCDIC decoder: the first-byte table
// encodes both the direct EBCDIC-to-ASCII single-byte mappings and the
// multi-byte combinations whose continuation bytes lie in [0xA0,0xBF],
// per spec.md §4.1. Continuation bytes contribute 5-bit groups that are
// added to a per-lead-byte base codepoint.
type UTFEBCDIC struct{}

func NewUTFEBCDIC() *UTFEBCDIC { return &UTFEBCDIC{} }

func (d *UTFEBCDIC) Name() string               { return "UTF-EBCDIC" }
func (d *UTFEBCDIC) Aliases() []string          { return []string{"utf-ebcdic", "UTFEBCDIC"} }
func (d *UTFEBCDIC) Alignment() int             { return 1 }
func (d *UTFEBCDIC) BigEndian() bool            { return false }
func (d *UTFEBCDIC) FilterNUL() bool            { return true }
func (d *UTFEBCDIC) DetectionReliability() float64 { return 1.0 }

// multiByteLen maps a lead byte in the UTF-EBCDIC "I8" multi-byte range
// to the total length of its sequence, or 0 when the byte does not start
// a multi-byte sequence.
func multiByteLen(lead byte) int {
	switch {
	case lead >= 0x41 && lead <= 0x44:
		return 2
	case lead >= 0x45 && lead <= 0x4B:
		return 3
	case lead >= 0x4C && lead <= 0x4D:
		return 4
	case lead == 0x4E:
		return 5
	default:
		return 0
	}
}

func (d *UTFEBCDIC) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	lead := s[0]
	if r := ebcdicToASCII[lead]; r != 0 {
		if !isPrintableCodepoint(r, newlinesAllowed) {
			return 0, 0
		}
		return r, 1
	}
	n := multiByteLen(lead)
	if n == 0 || n > len(s) {
		if newlinesAllowed && (lead == '\r' || lead == '\n') {
			return rune(lead), 1
		}
		return 0, 0
	}
	cp := rune(lead&0x0F) << (5 * uint(n-1))
	for k := 1; k < n; k++ {
		c := s[k]
		if c < 0xA0 || c > 0xBF {
			return 0, 0
		}
		shift := 5 * uint(n-1-k)
		cp |= rune(c&0x1F) << shift
	}
	if !isPrintableCodepoint(cp, newlinesAllowed) {
		return 0, 0
	}
	return cp, n
}

func (d *UTFEBCDIC) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *UTFEBCDIC) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *UTFEBCDIC) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], nil, true)
		if n == 0 {
			break
		}
		if _, ok := rf(cp); ok {
			return true
		}
		i += n
	}
	return false
}

func (d *UTFEBCDIC) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], nil, true)
		if n == 0 {
			return false
		}
		appendRune(out, romanize(cp, doRomanize, rf), format)
		i += n
	}
	return true
}
