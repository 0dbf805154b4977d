package langid

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
)

// LanguageID is one entry of the model's language table: a
// lang[_REGION][-ENCODING][/SOURCE] descriptor plus the coverage
// statistics original_source/langident/langid.h's LanguageID class
// tracks for each trained language.
//
// Canonicalization of the language/region subtags is delegated to
// golang.org/x/text/language (SPEC_FULL.md §2 DOMAIN STACK) rather
// than hand-rolling ISO 639/3166 subtag tables a second time.
type LanguageID struct {
	Tag             language.Tag
	Encoding        string
	Source          string
	Script          string
	FriendlyName    string
	Coverage        float64
	CountedCoverage float64
	FreqCoverage    float64
	MatchFactor     float64
	Alignment       uint
	TrainingBytes   uint64
}

// ParseDescriptor parses a "lang[_REGION][-ENCODING][/SOURCE]"
// descriptor string, e.g. "en_US-UTF8/news" or plain "fr", into a
// LanguageID with the language/region portion canonicalized via
// golang.org/x/text/language.
func ParseDescriptor(descriptor string) (LanguageID, error) {
	rest := descriptor
	var id LanguageID

	if i := strings.IndexByte(rest, '/'); i >= 0 {
		id.Source = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		id.Encoding = rest[i+1:]
		rest = rest[:i]
	}

	langRegion := rest
	bcp47 := strings.Replace(langRegion, "_", "-", 1)
	tag, err := language.Parse(bcp47)
	if err != nil {
		return LanguageID{}, fmt.Errorf("langid: bad language descriptor %q: %w", descriptor, err)
	}
	id.Tag = tag
	return id, nil
}

// Descriptor reconstructs the lang[_REGION][-ENCODING][/SOURCE]
// string form of id.
func (id LanguageID) Descriptor() string {
	var b strings.Builder
	base, _ := id.Tag.Base()
	b.WriteString(base.String())
	if region, conf := id.Tag.Region(); conf == language.Exact && region.String() != "ZZ" {
		b.WriteByte('_')
		b.WriteString(region.String())
	}
	if id.Encoding != "" {
		b.WriteByte('-')
		b.WriteString(id.Encoding)
	}
	if id.Source != "" {
		b.WriteByte('/')
		b.WriteString(id.Source)
	}
	return b.String()
}

// SameLanguage reports whether id and other name the same language,
// optionally ignoring region, mirroring LanguageID::sameLanguage.
func (id LanguageID) SameLanguage(other LanguageID, ignoreRegion bool) bool {
	b1, _ := id.Tag.Base()
	b2, _ := other.Tag.Base()
	if b1 != b2 {
		return false
	}
	if ignoreRegion {
		return true
	}
	r1, _ := id.Tag.Region()
	r2, _ := other.Tag.Region()
	return r1 == r2
}

// Matches reports whether id matches the given language/region/
// encoding/source filter; an empty filter field matches anything,
// mirroring LanguageID::matches(language,region,encoding,source).
func (id LanguageID) Matches(lang, region, encoding, source string) bool {
	if lang != "" {
		base, _ := id.Tag.Base()
		if !strings.EqualFold(base.String(), lang) {
			return false
		}
	}
	if region != "" {
		r, _ := id.Tag.Region()
		if !strings.EqualFold(r.String(), region) {
			return false
		}
	}
	if encoding != "" && !strings.EqualFold(id.Encoding, encoding) {
		return false
	}
	if source != "" && !strings.EqualFold(id.Source, source) {
		return false
	}
	return true
}

func (id LanguageID) CoverageFactor() float64 {
	if id.Coverage > 0.0 {
		return id.Coverage
	}
	return 1.0
}

// parseLanguageTable reads numLangs serialized LanguageID records from
// body: a uint16 length-prefixed descriptor string followed by four
// float64 coverage/match fields, repeated numLangs times.
func parseLanguageTable(body []byte, numLangs uint32) ([]LanguageID, error) {
	langs := make([]LanguageID, 0, numLangs)
	off := 0
	for i := uint32(0); i < numLangs; i++ {
		if off+2 > len(body) {
			return nil, ErrBadModel
		}
		strLen := int(body[off])<<8 | int(body[off+1])
		off += 2
		if off+strLen > len(body) {
			return nil, ErrBadModel
		}
		descriptor := string(body[off : off+strLen])
		off += strLen
		if off+32 > len(body) {
			return nil, ErrBadModel
		}
		id, err := ParseDescriptor(descriptor)
		if err != nil {
			return nil, err
		}
		id.Coverage = readFloat64(body[off:])
		id.CountedCoverage = readFloat64(body[off+8:])
		id.FreqCoverage = readFloat64(body[off+16:])
		id.MatchFactor = readFloat64(body[off+24:])
		off += 32
		langs = append(langs, id)
	}
	return langs, nil
}

func readFloat64(b []byte) float64 {
	bits := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	return math.Float64frombits(bits)
}
