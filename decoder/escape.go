package decoder

import (
	"bytes"
	"unicode"

	"github.com/tripleee/lastrings/charcode"
)

// ISO2022 tracks ISO-2022 escape sequences (ESC followed by one of a
// small set of intermediate/final byte combinations designating a G0-G3
// character set) without decoding the designated set's payload: per
// spec.md §9's Open Question, this preserves the original's behavior of
// treating ISO-2022 purely as an escape-state-tracking pass so that
// embedded 7-bit text is still extracted, rather than speculatively
// decoding JIS/KSC/GB payloads this package has no table for.
type ISO2022 struct{}

func NewISO2022() *ISO2022 { return &ISO2022{} }

func (d *ISO2022) Name() string               { return "ISO-2022" }
func (d *ISO2022) Aliases() []string          { return []string{"iso-2022", "ISO2022JP", "ISO-2022-JP"} }
func (d *ISO2022) Alignment() int             { return 1 }
func (d *ISO2022) BigEndian() bool            { return false }
func (d *ISO2022) FilterNUL() bool            { return true }
func (d *ISO2022) DetectionReliability() float64 { return 0.8 }

// iso2022EscapeLen returns the length of an ISO-2022 designation sequence
// starting with ESC at s[0], or 0 if s[0] does not begin a recognized
// sequence.
func iso2022EscapeLen(s []byte) int {
	if len(s) < 2 || s[0] != 0x1B {
		return 0
	}
	switch s[1] {
	case '(', ')', '*', '+':
		if len(s) < 3 {
			return 0
		}
		return 3
	case '$':
		if len(s) < 3 {
			return 0
		}
		switch s[2] {
		case '(', ')', '*', '+':
			if len(s) < 4 {
				return 0
			}
			return 4
		default:
			return 3
		}
	case 'N', 'O', 'n', 'o':
		return 2
	default:
		return 0
	}
}

func (d *ISO2022) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	if n := iso2022EscapeLen(s); n > 0 {
		return 0x1B, n
	}
	b := s[0]
	if b == '\t' || (b >= 0x20 && b <= 0x7E) {
		return rune(b), 1
	}
	if newlinesAllowed && (b == '\r' || b == '\n') {
		return rune(b), 1
	}
	return 0, 0
}

func (d *ISO2022) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *ISO2022) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *ISO2022) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], nil, true)
		if n == 0 {
			break
		}
		if cp != 0x1B {
			if _, ok := rf(cp); ok {
				return true
			}
		}
		i += n
	}
	return false
}

func (d *ISO2022) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], nil, true)
		if n == 0 {
			return false
		}
		if cp != 0x1B {
			appendRune(out, romanize(cp, doRomanize, rf), format)
		}
		i += n
	}
	return true
}

// UTF7 tracks RFC 2152 shift state (a run opened by '+' and closed by
// '-' or any byte outside the modified-base64 alphabet) without
// decoding the base64 payload into Unicode, mirroring the ISO-2022
// Open Question resolution: embedded direct-encoded ASCII is still
// extracted, the shifted runs are only validated structurally.
type UTF7 struct{}

func NewUTF7() *UTF7 { return &UTF7{} }

func (d *UTF7) Name() string               { return "UTF-7" }
func (d *UTF7) Aliases() []string          { return []string{"utf-7", "UTF7", "unicode-1-1-utf-7"} }
func (d *UTF7) Alignment() int             { return 1 }
func (d *UTF7) BigEndian() bool            { return false }
func (d *UTF7) FilterNUL() bool            { return true }
func (d *UTF7) DetectionReliability() float64 { return 0.6 }

func isUTF7Base64(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '+' || b == '/':
		return true
	}
	return false
}

func (d *UTF7) Next(s []byte, state *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	b := s[0]
	if *state == charcode.Active {
		if isUTF7Base64(b) {
			return rune(b), 1
		}
		*state = charcode.None
		if b == '-' {
			return '-', 1
		}
		// fall through: re-evaluate b in direct mode below
	}
	if b == '+' {
		*state = charcode.Active
		return '+', 1
	}
	if b == '\t' || (b >= 0x20 && b <= 0x7E) {
		return rune(b), 1
	}
	if newlinesAllowed && (b == '\r' || b == '\n') {
		return rune(b), 1
	}
	return 0, 0
}

func (d *UTF7) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *UTF7) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *UTF7) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	var state charcode.EscapeState
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], &state, true)
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

func (d *UTF7) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	var state charcode.EscapeState
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], &state, true)
		if n == 0 {
			return false
		}
		appendRune(out, romanize(cp, doRomanize, rf), format)
		i += n
	}
	return true
}

// Ascii85 tracks the "<~" ... "~>" (or bare "~") Ascii85 envelope used
// by Adobe PostScript/PDF streams, validating the 5-byte group alphabet
// [!..u] without materializing the decoded binary, for the same reason
// UTF-7's base64 payload isn't decoded: the envelope's contents are
// arbitrary binary, not necessarily text.
type Ascii85 struct{}

func NewAscii85() *Ascii85 { return &Ascii85{} }

func (d *Ascii85) Name() string               { return "Ascii85" }
func (d *Ascii85) Aliases() []string          { return []string{"ascii85", "Base85", "btoa"} }
func (d *Ascii85) Alignment() int             { return 1 }
func (d *Ascii85) BigEndian() bool            { return false }
func (d *Ascii85) FilterNUL() bool            { return true }
func (d *Ascii85) DetectionReliability() float64 { return 0.5 }

func isAscii85Byte(b byte) bool { return b >= '!' && b <= 'u' }

func (d *Ascii85) Next(s []byte, state *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	if *state == charcode.None && len(s) >= 2 && s[0] == '<' && s[1] == '~' {
		*state = charcode.Active
		return '<', 2
	}
	if *state == charcode.Active {
		if s[0] == '~' {
			*state = charcode.None
			if len(s) >= 2 && s[1] == '>' {
				return '~', 2
			}
			return '~', 1
		}
		if s[0] == 'z' || isAscii85Byte(s[0]) {
			return rune(s[0]), 1
		}
		*state = charcode.None
		return 0, 0
	}
	b := s[0]
	if b == '\t' || (b >= 0x20 && b <= 0x7E) {
		return rune(b), 1
	}
	if newlinesAllowed && (b == '\r' || b == '\n') {
		return rune(b), 1
	}
	return 0, 0
}

func (d *Ascii85) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *Ascii85) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *Ascii85) Romanizable(s []byte, rf RomanizeFunc) bool {
	if rf == nil {
		return false
	}
	var state charcode.EscapeState
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], &state, true)
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

func (d *Ascii85) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	var state charcode.EscapeState
	for i := 0; i < len(s); {
		cp, n := d.Next(s[i:], &state, true)
		if n == 0 {
			return false
		}
		appendRune(out, romanize(cp, doRomanize, rf), format)
		i += n
	}
	return true
}
