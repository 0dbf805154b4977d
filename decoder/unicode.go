package decoder

import (
	"bytes"
	"unicode"

	"github.com/tripleee/lastrings/bitops"
	"github.com/tripleee/lastrings/charcode"
)

// isPrintableCodepoint implements spec.md §4.1's printability predicate:
// tab and (optionally) newline are always permitted; otherwise a
// codepoint must be a printable Unicode scalar value, and U+FEFF (BOM)
// is never accepted as string content.
func isPrintableCodepoint(cp rune, newlinesAllowed bool) bool {
	if cp == 0xFEFF {
		return false
	}
	if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
		return false
	}
	if cp == '\t' {
		return true
	}
	if newlinesAllowed && (cp == '\n' || cp == '\r') {
		return true
	}
	return unicode.IsPrint(cp)
}

// --- UTF-8 -----------------------------------------------------------

// UTF8 decodes standard (RFC 3629, 1-4 byte) UTF-8.
type UTF8 struct{ extended bool }

// NewUTF8 returns the strict 1-4-byte UTF-8 decoder.
func NewUTF8() *UTF8 { return &UTF8{} }

// NewUTF8Extended returns the "extended" variant permitting the legacy
// 5- and 6-byte UTF-8 forms (pre-RFC 3629), for spec.md's "UTF-8
// extended 5/6-byte" decoder entry.
func NewUTF8Extended() *UTF8 { return &UTF8{extended: true} }

func (d *UTF8) Name() string {
	if d.extended {
		return "UTF-8-Extended"
	}
	return "UTF-8"
}
func (d *UTF8) Aliases() []string {
	if d.extended {
		return []string{"utf8ext", "UTF8EXT"}
	}
	return []string{"utf8", "UTF8", "u8"}
}
func (d *UTF8) Alignment() int                { return 1 }
func (d *UTF8) BigEndian() bool               { return false }
func (d *UTF8) FilterNUL() bool               { return true }
func (d *UTF8) DetectionReliability() float64 { return 1.0 }

func (d *UTF8) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	cp, n := bitops.DecodeUTF8One(s)
	if n == 0 {
		if d.extended {
			if cp2, n2 := decodeExtendedUTF8(s); n2 > 0 {
				cp, n = cp2, n2
			}
		}
		if n == 0 {
			return 0, 0
		}
	}
	if !isPrintableCodepoint(cp, newlinesAllowed) {
		return 0, 0
	}
	return cp, n
}

// decodeExtendedUTF8 handles the legacy 5- and 6-byte forms: lead bytes
// 0xF8-0xFB (5 bytes, 6-bit payload nibble 0x03) and 0xFC-0xFD (6 bytes).
func decodeExtendedUTF8(s []byte) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	lead := s[0]
	var size int
	var cp rune
	switch {
	case lead >= 0xF8 && lead <= 0xFB:
		size = 5
		cp = rune(lead & 0x03)
	case lead == 0xFC || lead == 0xFD:
		size = 6
		cp = rune(lead & 0x01)
	default:
		return 0, 0
	}
	if size > len(s) {
		return 0, 0
	}
	for k := 1; k < size; k++ {
		if s[k]&0xC0 != 0x80 {
			return 0, 0
		}
		cp = cp<<6 | rune(s[k]&0x3F)
	}
	if cp > 0x10FFFF {
		return 0, 0
	}
	return cp, size
}

func (d *UTF8) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *UTF8) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *UTF8) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	for i := 0; i < len(s); {
		cp, n := bitops.DecodeUTF8One(s[i:])
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

func (d *UTF8) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	for i := 0; i < len(s); {
		cp, n := bitops.DecodeUTF8One(s[i:])
		if n == 0 {
			return false
		}
		appendRune(out, romanize(cp, doRomanize, rf), format)
		i += n
	}
	return true
}

// --- UTF-16 ------------------------------------------------------------

// UTF16 decodes UTF-16LE or UTF-16BE, alignment 2.
type UTF16 struct{ bigEndian bool }

func NewUTF16LE() *UTF16 { return &UTF16{bigEndian: false} }
func NewUTF16BE() *UTF16 { return &UTF16{bigEndian: true} }

func (d *UTF16) Name() string {
	if d.bigEndian {
		return "UTF-16BE"
	}
	return "UTF-16LE"
}
func (d *UTF16) Aliases() []string {
	if d.bigEndian {
		return []string{"UTF16BE", "UnicodeBig"}
	}
	return []string{"UTF16LE", "UnicodeLittle"}
}
func (d *UTF16) Alignment() int                { return 2 }
func (d *UTF16) BigEndian() bool               { return d.bigEndian }
func (d *UTF16) FilterNUL() bool               { return true }
func (d *UTF16) DetectionReliability() float64 { return 0.5 }

func (d *UTF16) load16(s []byte) uint16 {
	if d.bigEndian {
		return bitops.LoadBE16(s)
	}
	return bitops.LoadLE16(s)
}

func (d *UTF16) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) < 2 {
		return 0, 0
	}
	u := d.load16(s)
	if u >= 0xD800 && u <= 0xDBFF {
		if len(s) < 4 {
			return 0, 0
		}
		u2 := d.load16(s[2:])
		if u2 < 0xDC00 || u2 > 0xDFFF {
			return 0, 0
		}
		cp := 0x10000 + (rune(u)-0xD800)<<10 + (rune(u2) - 0xDC00)
		if !isPrintableCodepoint(cp, newlinesAllowed) {
			return 0, 0
		}
		return cp, 4
	}
	if u >= 0xDC00 && u <= 0xDFFF {
		return 0, 0
	}
	cp := rune(u)
	if !isPrintableCodepoint(cp, newlinesAllowed) {
		return 0, 0
	}
	return cp, 2
}

func (d *UTF16) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *UTF16) ConsumeNewlines(s []byte) int {
	n := 0
	for n+1 < len(s) {
		u := d.load16(s[n:])
		if u != '\r' && u != '\n' {
			break
		}
		n += 2
	}
	return n
}

func (d *UTF16) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	for i := 0; i+1 < len(s); i += 2 {
		if _, ok := rf(rune(d.load16(s[i:]))); ok {
			return true
		}
	}
	return false
}

func (d *UTF16) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
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

// --- UTF-32 ------------------------------------------------------------

// UTF32 decodes UTF-32LE or UTF-32BE, alignment 4.
type UTF32 struct{ bigEndian bool }

func NewUTF32LE() *UTF32 { return &UTF32{bigEndian: false} }
func NewUTF32BE() *UTF32 { return &UTF32{bigEndian: true} }

func (d *UTF32) Name() string {
	if d.bigEndian {
		return "UTF-32BE"
	}
	return "UTF-32LE"
}
func (d *UTF32) Aliases() []string {
	if d.bigEndian {
		return []string{"UTF32BE"}
	}
	return []string{"UTF32LE"}
}
func (d *UTF32) Alignment() int                { return 4 }
func (d *UTF32) BigEndian() bool               { return d.bigEndian }
func (d *UTF32) FilterNUL() bool               { return true }
func (d *UTF32) DetectionReliability() float64 { return 0.8 }

func (d *UTF32) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) < 4 {
		return 0, 0
	}
	if !d.bigEndian {
		// spec.md §4.1: LE requires bytes[2] <= 0x10 and bytes[3] == 0.
		if s[2] > 0x10 || s[3] != 0 {
			return 0, 0
		}
	} else if s[0] != 0 || s[1] > 0x10 {
		return 0, 0
	}
	var u uint32
	if d.bigEndian {
		u = bitops.LoadBE32(s)
	} else {
		u = bitops.LoadLE32(s)
	}
	cp := rune(u)
	if !isPrintableCodepoint(cp, newlinesAllowed) {
		return 0, 0
	}
	return cp, 4
}

func (d *UTF32) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *UTF32) ConsumeNewlines(s []byte) int {
	n := 0
	for n+3 < len(s) {
		cp, size := d.Next(s[n:], nil, true)
		if size == 0 || (cp != '\r' && cp != '\n') {
			break
		}
		n += 4
	}
	return n
}

func (d *UTF32) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	for i := 0; i+3 < len(s); i += 4 {
		cp, n := d.Next(s[i:], nil, true)
		if n == 0 {
			continue
		}
		if _, ok := rf(cp); ok {
			return true
		}
	}
	return false
}

func (d *UTF32) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
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

// --- ASCII-16 / ASCII-32 ------------------------------------------------

// ASCII16 decodes 16-bit-padded ASCII: every other byte must be zero and
// the non-zero byte must be a printable ASCII byte. FilterNUL is false
// because NUL is a structural half of every character, not noise.
type ASCII16 struct{ bigEndian bool }

func NewASCII16LE() *ASCII16 { return &ASCII16{bigEndian: false} }
func NewASCII16BE() *ASCII16 { return &ASCII16{bigEndian: true} }

func (d *ASCII16) Name() string {
	if d.bigEndian {
		return "ASCII-16BE"
	}
	return "ASCII-16LE"
}
func (d *ASCII16) Aliases() []string {
	if d.bigEndian {
		return []string{"ASCII16BE"}
	}
	return []string{"ASCII16LE"}
}
func (d *ASCII16) Alignment() int                { return 2 }
func (d *ASCII16) BigEndian() bool               { return d.bigEndian }
func (d *ASCII16) FilterNUL() bool               { return false }
func (d *ASCII16) DetectionReliability() float64 { return 0.5 }

func (d *ASCII16) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) < 2 {
		return 0, 0
	}
	var lo, hi byte
	if d.bigEndian {
		hi, lo = s[0], s[1]
	} else {
		lo, hi = s[0], s[1]
	}
	if hi != 0 {
		return 0, 0
	}
	if lo == '\t' || (lo >= 0x20 && lo <= 0x7E) {
		return rune(lo), 2
	}
	if newlinesAllowed && (lo == '\r' || lo == '\n') {
		return rune(lo), 2
	}
	return 0, 0
}

func (d *ASCII16) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *ASCII16) ConsumeNewlines(s []byte) int {
	n := 0
	for n+1 < len(s) {
		cp, size := d.Next(s[n:], nil, true)
		if size == 0 || (cp != '\r' && cp != '\n') {
			break
		}
		n += 2
	}
	return n
}

func (d *ASCII16) Romanizable(s []byte, rf RomanizeFunc) bool { return false }

func (d *ASCII16) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], nil, true)
		if n == 0 {
			return false
		}
		appendRune(out, cp, format)
		i += n
	}
	return true
}

// ASCII32 decodes 32-bit-padded ASCII (three zero bytes, one ASCII byte).
type ASCII32 struct{ bigEndian bool }

func NewASCII32LE() *ASCII32 { return &ASCII32{bigEndian: false} }
func NewASCII32BE() *ASCII32 { return &ASCII32{bigEndian: true} }

func (d *ASCII32) Name() string {
	if d.bigEndian {
		return "ASCII-32BE"
	}
	return "ASCII-32LE"
}
func (d *ASCII32) Aliases() []string {
	if d.bigEndian {
		return []string{"ASCII32BE"}
	}
	return []string{"ASCII32LE"}
}
func (d *ASCII32) Alignment() int                { return 4 }
func (d *ASCII32) BigEndian() bool               { return d.bigEndian }
func (d *ASCII32) FilterNUL() bool               { return false }
func (d *ASCII32) DetectionReliability() float64 { return 0.5 }

func (d *ASCII32) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) < 4 {
		return 0, 0
	}
	var b byte
	var zeros [3]byte
	if d.bigEndian {
		zeros = [3]byte{s[0], s[1], s[2]}
		b = s[3]
	} else {
		b = s[0]
		zeros = [3]byte{s[1], s[2], s[3]}
	}
	if zeros[0] != 0 || zeros[1] != 0 || zeros[2] != 0 {
		return 0, 0
	}
	if b == '\t' || (b >= 0x20 && b <= 0x7E) {
		return rune(b), 4
	}
	if newlinesAllowed && (b == '\r' || b == '\n') {
		return rune(b), 4
	}
	return 0, 0
}

func (d *ASCII32) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *ASCII32) ConsumeNewlines(s []byte) int {
	n := 0
	for n+3 < len(s) {
		cp, size := d.Next(s[n:], nil, true)
		if size == 0 || (cp != '\r' && cp != '\n') {
			break
		}
		n += 4
	}
	return n
}

func (d *ASCII32) Romanizable(s []byte, rf RomanizeFunc) bool { return false }

func (d *ASCII32) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], nil, true)
		if n == 0 {
			return false
		}
		appendRune(out, cp, format)
		i += n
	}
	return true
}
