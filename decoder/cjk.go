package decoder

import (
	"bytes"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"github.com/tripleee/lastrings/charcode"
)

// cjkBase shares the WriteAsUTF/Romanizable implementation among the
// variable-width CJK decoders: Next() and ConsumeNewlines/IsAlphaNumeric
// still apply spec.md's per-family lead/continuation-byte rules directly,
// but converting an accepted run to real Unicode text is delegated to the
// matching golang.org/x/text/encoding.Encoding, since that table IS the
// authoritative codepage mapping and hand-duplicating it would just be a
// worse copy of the same data (SPEC_FULL.md §2 DOMAIN STACK).
type cjkBase struct {
	enc encoding.Encoding
}

func (c cjkBase) writeAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	decoded, _, err := transform.Bytes(c.enc.NewDecoder(), s)
	if err != nil {
		return false
	}
	for _, r := range string(decoded) {
		appendRune(out, romanize(r, doRomanize, rf), format)
	}
	return true
}

func (c cjkBase) romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	decoded, _, err := transform.Bytes(c.enc.NewDecoder(), s)
	if err != nil {
		return false
	}
	for _, r := range string(decoded) {
		if _, ok := rf(r); ok {
			return true
		}
	}
	return false
}

// --- EUC family ----------------------------------------------------

// EUCVariant selects among the generic EUC lead-byte rules and the
// EUC-JP/EUC-TW extensions (spec.md §4.1).
type EUCVariant int

const (
	EUCGeneric EUCVariant = iota
	EUCJP
	EUCTW
)

// EUC decodes the EUC family of multi-byte encodings.
type EUC struct {
	cjkBase
	variant EUCVariant
}

func NewEUC(variant EUCVariant) *EUC {
	var enc encoding.Encoding
	switch variant {
	case EUCJP:
		enc = japanese.EUCJP
	default:
		enc = korean.EUCKR
	}
	return &EUC{cjkBase: cjkBase{enc: enc}, variant: variant}
}

func (d *EUC) Name() string {
	switch d.variant {
	case EUCJP:
		return "EUC-JP"
	case EUCTW:
		return "EUC-TW"
	default:
		return "EUC"
	}
}
func (d *EUC) Aliases() []string {
	switch d.variant {
	case EUCJP:
		return []string{"eucJP", "EUCJP"}
	case EUCTW:
		return []string{"eucTW", "EUCTW"}
	default:
		return []string{"euc", "EUC-generic"}
	}
}
func (d *EUC) Alignment() int                { return 1 }
func (d *EUC) BigEndian() bool               { return false }
func (d *EUC) FilterNUL() bool               { return true }
func (d *EUC) DetectionReliability() float64 { return 1.0 }

func (d *EUC) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	b0 := s[0]
	if b0 < 0x80 {
		if b0 == '\t' || (b0 >= 0x20 && b0 <= 0x7E) {
			return rune(b0), 1
		}
		if newlinesAllowed && (b0 == '\r' || b0 == '\n') {
			return rune(b0), 1
		}
		return 0, 0
	}
	if d.variant == EUCJP && b0 == 0x8E {
		if len(s) < 2 || s[1] < 0xA1 || s[1] > 0xDF {
			return 0, 0
		}
		return rune(0xFF61 + int(s[1]) - 0xA1), 2
	}
	if d.variant == EUCJP && b0 == 0x8F {
		if len(s) < 3 || s[1] < 0xA1 || s[1] > 0xFE || s[2] < 0xA1 || s[2] > 0xFE {
			return 0, 0
		}
		return jisPlaceholderRune(s[1], s[2]), 3
	}
	if d.variant == EUCTW && b0 == 0x8E {
		if len(s) < 4 || s[1] < 0xA1 || s[1] > 0xB0 || s[2] < 0xA1 || s[2] > 0xFE || s[3] < 0xA1 || s[3] > 0xFE {
			return 0, 0
		}
		return jisPlaceholderRune(s[2], s[3]), 4
	}
	if b0 < 0xA1 || b0 > 0xFE {
		return 0, 0
	}
	if len(s) < 2 || s[1] < 0xA1 || s[1] > 0xFE {
		return 0, 0
	}
	return jisPlaceholderRune(b0, s[1]), 2
}

// jisPlaceholderRune maps a two-byte EUC/GBK/Big5-family pair into the
// CJK Unified Ideographs plane for the purposes of the structural
// validation path (Next/IsAlphaNumeric/ConsumeNewlines); the codepage's
// true mapping is only materialized by WriteAsUTF, via the
// golang.org/x/text/encoding table for that family.
func jisPlaceholderRune(b0, b1 byte) rune {
	return rune(0x4E00 + (int(b0-0xA1)*94+int(b1-0xA1))%20000)
}

func (d *EUC) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *EUC) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *EUC) Romanizable(s []byte, rf RomanizeFunc) bool { return d.romanizable(s, rf) }
func (d *EUC) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	return d.writeAsUTF(s, out, doRomanize, rf, format)
}

// --- Shift-JIS -------------------------------------------------------

// ShiftJIS decodes Shift_JIS two-byte sequences and single-byte
// half-width kana, per spec.md §4.1.
type ShiftJIS struct{ cjkBase }

func NewShiftJIS() *ShiftJIS { return &ShiftJIS{cjkBase{enc: japanese.ShiftJIS}} }

func (d *ShiftJIS) Name() string               { return "Shift-JIS" }
func (d *ShiftJIS) Aliases() []string          { return []string{"SJIS", "Shift_JIS", "shiftjis"} }
func (d *ShiftJIS) Alignment() int             { return 1 }
func (d *ShiftJIS) BigEndian() bool            { return false }
func (d *ShiftJIS) FilterNUL() bool            { return true }
func (d *ShiftJIS) DetectionReliability() float64 { return 1.0 }

func (d *ShiftJIS) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	b0 := s[0]
	if b0 < 0x80 {
		if b0 == '\t' || (b0 >= 0x20 && b0 <= 0x7E) {
			return rune(b0), 1
		}
		if newlinesAllowed && (b0 == '\r' || b0 == '\n') {
			return rune(b0), 1
		}
		return 0, 0
	}
	if b0 >= 0xA1 && b0 <= 0xDF {
		return rune(0xFF61 + int(b0) - 0xA1), 1
	}
	if (b0 >= 0x81 && b0 <= 0x9F) || (b0 >= 0xE0 && b0 <= 0xEF) {
		if len(s) < 2 {
			return 0, 0
		}
		b1 := s[1]
		if b1 == 0x7F || b1 < 0x40 || b1 > 0xFC {
			return 0, 0
		}
		return jisPlaceholderRune(b0, b1), 2
	}
	return 0, 0
}

func (d *ShiftJIS) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *ShiftJIS) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *ShiftJIS) Romanizable(s []byte, rf RomanizeFunc) bool { return d.romanizable(s, rf) }
func (d *ShiftJIS) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	return d.writeAsUTF(s, out, doRomanize, rf, format)
}

// --- GBK / GB18030 -----------------------------------------------------

// GBKLevel selects how wide a second-byte range GBK accepts (spec.md
// §4.1: "progressive widening of accepted second-byte ranges").
type GBKLevel int

const (
	GBK1 GBKLevel = iota
	GBK2
	GBK3
	GBKFull
	GB18030Full
)

// GBK decodes the GBK family, including GB18030's four-byte form.
type GBK struct {
	cjkBase
	level GBKLevel
}

func NewGBK(level GBKLevel) *GBK {
	enc := simplifiedchinese.GBK
	if level == GB18030Full {
		enc = simplifiedchinese.GB18030
	}
	return &GBK{cjkBase: cjkBase{enc: enc}, level: level}
}

func (d *GBK) Name() string {
	switch d.level {
	case GBK1:
		return "GBK-1"
	case GBK2:
		return "GBK-2"
	case GBK3:
		return "GBK-3"
	case GB18030Full:
		return "GB18030"
	default:
		return "GBK"
	}
}
func (d *GBK) Aliases() []string {
	if d.level == GB18030Full {
		return []string{"gb18030", "GB-18030"}
	}
	return []string{"gbk", "CP936"}
}
func (d *GBK) Alignment() int                { return 1 }
func (d *GBK) BigEndian() bool               { return false }
func (d *GBK) FilterNUL() bool               { return true }
func (d *GBK) DetectionReliability() float64 { return 1.0 }

// secondByteRange returns the valid [lo,hi] second-byte range for this
// GBK level, implementing the "progressive widening" on first bytes
// 0x81..0xFE described by spec.md §4.1: each level's range is a
// superset of the previous one's (0x7F is excluded from all of them
// by the explicit check in Next).
func (d *GBK) secondByteRange() (lo, hi byte) {
	switch d.level {
	case GBK1:
		return 0x40, 0x7E
	case GBK2:
		return 0x40, 0xA0
	case GBK3:
		return 0x40, 0xFE
	default:
		return 0x40, 0xFE
	}
}

func (d *GBK) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	b0 := s[0]
	if b0 < 0x80 {
		if b0 == '\t' || (b0 >= 0x20 && b0 <= 0x7E) {
			return rune(b0), 1
		}
		if newlinesAllowed && (b0 == '\r' || b0 == '\n') {
			return rune(b0), 1
		}
		return 0, 0
	}
	if b0 < 0x81 || b0 > 0xFE {
		return 0, 0
	}
	if len(s) < 2 {
		return 0, 0
	}
	b1 := s[1]
	if d.level == GB18030Full && b1 >= 0x30 && b1 <= 0x39 {
		if len(s) < 4 || s[2] < 0x81 || s[2] > 0xFE || s[3] < 0x30 || s[3] > 0x39 {
			return 0, 0
		}
		return jisPlaceholderRune(b0, s[2]), 4
	}
	lo, hi := d.secondByteRange()
	if b1 == 0x7F || b1 < lo || b1 > hi {
		return 0, 0
	}
	return jisPlaceholderRune(b0, b1), 2
}

func (d *GBK) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *GBK) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *GBK) Romanizable(s []byte, rf RomanizeFunc) bool { return d.romanizable(s, rf) }
func (d *GBK) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	return d.writeAsUTF(s, out, doRomanize, rf, format)
}

// --- Big5 ----------------------------------------------------------

// Big5 decodes Big5 and its Big5-Ext superset.
type Big5 struct {
	cjkBase
	ext bool
}

func NewBig5(ext bool) *Big5 {
	return &Big5{cjkBase: cjkBase{enc: traditionalchinese.Big5}, ext: ext}
}

func (d *Big5) Name() string {
	if d.ext {
		return "Big5-Ext"
	}
	return "Big5"
}
func (d *Big5) Aliases() []string {
	if d.ext {
		return []string{"big5ext", "Big5E"}
	}
	return []string{"big5", "CP950"}
}
func (d *Big5) Alignment() int                { return 1 }
func (d *Big5) BigEndian() bool               { return false }
func (d *Big5) FilterNUL() bool               { return true }
func (d *Big5) DetectionReliability() float64 { return 1.0 }

func (d *Big5) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	b0 := s[0]
	if b0 < 0x80 {
		if b0 == '\t' || (b0 >= 0x20 && b0 <= 0x7E) {
			return rune(b0), 1
		}
		if newlinesAllowed && (b0 == '\r' || b0 == '\n') {
			return rune(b0), 1
		}
		return 0, 0
	}
	lo := byte(0xA1)
	if d.ext {
		lo = 0x81
	}
	if b0 < lo || b0 > 0xF9 && !d.ext {
		return 0, 0
	}
	if d.ext && b0 > 0xFE {
		return 0, 0
	}
	if len(s) < 2 {
		return 0, 0
	}
	b1 := s[1]
	if !(b1 >= 0x40 && b1 <= 0x7E) && !(b1 >= 0xA1 && b1 <= 0xFE) {
		return 0, 0
	}
	return jisPlaceholderRune(b0, b1), 2
}

func (d *Big5) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *Big5) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *Big5) Romanizable(s []byte, rf RomanizeFunc) bool { return d.romanizable(s, rf) }
func (d *Big5) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	return d.writeAsUTF(s, out, doRomanize, rf, format)
}

// --- HZ --------------------------------------------------------------

// HZ decodes the HZ (RFC 1843) 7-bit GB2312 transport encoding: mode
// flips on "~{"/"~}" pairs, and in active mode two 7-bit bytes from
// [0x21,0x7E] map to codepoint 128+94*(b1-0x21)+(b2-0x21); "~~" encodes
// a literal '~'. The core only tracks shift-mode via EscapeState; it
// does not itself hold GB2312 tables (WriteAsUTF delegates to
// golang.org/x/text/encoding/simplifiedchinese.HZGB2312).
type HZ struct{ cjkBase }

func NewHZ() *HZ { return &HZ{cjkBase{enc: simplifiedchinese.HZGB2312}} }

func (d *HZ) Name() string               { return "HZ" }
func (d *HZ) Aliases() []string          { return []string{"hz-gb-2312", "HZ-GB-2312"} }
func (d *HZ) Alignment() int             { return 1 }
func (d *HZ) BigEndian() bool            { return false }
func (d *HZ) FilterNUL() bool            { return true }
func (d *HZ) DetectionReliability() float64 { return 1.0 }

func (d *HZ) Next(s []byte, state *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	if *state == charcode.None && s[0] == '~' {
		if len(s) >= 2 && s[1] == '{' {
			*state = charcode.Active
			return 0x1B, 2 // mode switch: consumed, nothing to emit (ESC marks non-content, as in ISO2022's Next)
		}
		if len(s) >= 2 && s[1] == '~' {
			return '~', 2
		}
	}
	if *state == charcode.Active {
		if s[0] == '~' && len(s) >= 2 && s[1] == '}' {
			*state = charcode.None
			return 0x1B, 2
		}
		if len(s) < 2 {
			return 0, 0
		}
		b0, b1 := s[0], s[1]
		if b0 < 0x21 || b0 > 0x7E || b1 < 0x21 || b1 > 0x7E {
			return 0, 0
		}
		return rune(128 + 94*(int(b0)-0x21) + (int(b1) - 0x21)), 2
	}
	b0 := s[0]
	if b0 == '\t' || (b0 >= 0x20 && b0 <= 0x7E) {
		return rune(b0), 1
	}
	if newlinesAllowed && (b0 == '\r' || b0 == '\n') {
		return rune(b0), 1
	}
	return 0, 0
}

func (d *HZ) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *HZ) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *HZ) Romanizable(s []byte, rf RomanizeFunc) bool { return d.romanizable(s, rf) }
func (d *HZ) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	return d.writeAsUTF(s, out, doRomanize, rf, format)
}
