// Package decoder implements the character-set decoder lattice: one
// Decoder per supported encoding, all satisfying a single interface, plus
// the process-wide registry and cache that resolve an encoding name to a
// shared decoder instance.
//
// The interface and per-family validation rules are grounded in
// spec.md §3/§4.1; the registry/cache pattern is adapted from
// zxinggo's format-dispatch idiom (RegisterReader/buildReaders in
// multiformatreader.go, the one-factory-per-format table in
// oned/register.go), and codepage tables are sourced from
// golang.org/x/text/encoding where a counterpart exists.
package decoder

import (
	"bytes"

	"github.com/tripleee/lastrings/charcode"
)

// OutputFormat selects the serialization WriteAsUTF produces.
type OutputFormat int

const (
	FormatUTF8 OutputFormat = iota
	FormatUTF16LE
	FormatUTF16BE
	FormatNative
)

// RomanizeFunc is the opaque codepoint-to-codepoint transliteration hook;
// spec.md §1 explicitly keeps romanization tables out of scope, so this
// package only ever calls through an injected function, never a
// hard-coded table. A nil RomanizeFunc, or one that returns ok=false,
// leaves the codepoint unchanged.
type RomanizeFunc func(r rune) (ascii rune, ok bool)

// Decoder is the capability set every encoding variant implements. All
// implementations are immutable after construction so that a single
// instance can be shared, per spec.md's DecoderCache contract.
type Decoder interface {
	// Name is the canonical encoding name.
	Name() string
	// Aliases are additional names for this decoder. The registry
	// resolves names against its own alias table in registry.go, which
	// need not match this list.
	Aliases() []string
	// Alignment is the minimum starting-offset divisor at which this
	// decoder may begin a character: 1 for byte encodings, 2 for
	// UTF-16/ASCII-16, 4 for UTF-32/ASCII-32.
	Alignment() int
	// BigEndian reports byte order for multi-byte fixed-width encodings;
	// meaningless (and false) for byte-oriented and variable-width ones.
	BigEndian() bool
	// FilterNUL reports whether NUL bytes should never be treated as
	// part of a character (true for nearly every encoding; encodings
	// that legitimately use 0x00 as a structural byte, e.g. as the high
	// byte of ASCII-16, report false).
	FilterNUL() bool
	// DetectionReliability is the scalar multiplier on this decoder's
	// contribution to confidence scoring (spec.md §4.1, GLOSSARY).
	DetectionReliability() float64

	// Next decodes a single character at s[0]. It returns consumed=0 if
	// s[0] cannot start a character given state (an EscapeState is
	// threaded through calls for decoders using escape/shift modes).
	// newlinesAllowed controls whether an embedded CR/LF is accepted as
	// part of the run rather than treated as taking the decoder out of
	// its normal mode. Next must never read s[consumed:].
	Next(s []byte, state *charcode.EscapeState, newlinesAllowed bool) (cp rune, consumed int)

	// IsAlphaNumeric reports whether cp counts as a letter or digit for
	// StringScore purposes.
	IsAlphaNumeric(cp rune) bool

	// ConsumeNewlines returns the number of bytes at s[0:] that form a
	// (possibly alignment-padded) CR/LF run recognized by this decoder.
	ConsumeNewlines(s []byte) int

	// Romanizable reports whether at least one codepoint decodable from
	// s has a transliteration available via rf.
	Romanizable(s []byte, rf RomanizeFunc) bool

	// WriteAsUTF decodes the full byte range s and appends its text,
	// optionally romanized, to out in the requested format. It returns
	// false if s cannot be fully decoded.
	WriteAsUTF(s []byte, out *bytes.Buffer, romanize bool, rf RomanizeFunc, format OutputFormat) bool
}

// appendRune writes r to out in the requested output format.
func appendRune(out *bytes.Buffer, r rune, format OutputFormat) {
	switch format {
	case FormatUTF16LE:
		appendUTF16(out, r, false)
	case FormatUTF16BE:
		appendUTF16(out, r, true)
	default:
		out.WriteRune(r)
	}
}

func appendUTF16(out *bytes.Buffer, r rune, bigEndian bool) {
	write := func(u uint16) {
		if bigEndian {
			out.WriteByte(byte(u >> 8))
			out.WriteByte(byte(u))
		} else {
			out.WriteByte(byte(u))
			out.WriteByte(byte(u >> 8))
		}
	}
	if r <= 0xFFFF {
		write(uint16(r))
		return
	}
	r -= 0x10000
	write(uint16(0xD800 + (r >> 10)))
	write(uint16(0xDC00 + (r & 0x3FF)))
}

func romanize(r rune, doRomanize bool, rf RomanizeFunc) rune {
	if !doRomanize || rf == nil {
		return r
	}
	if ascii, ok := rf(r); ok {
		return ascii
	}
	return r
}
