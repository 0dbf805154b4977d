package decoder

import (
	"sync"

	"github.com/tripleee/lastrings/charset"
)

// Factory builds a fresh decoder instance. Factories are stateless; the
// DecoderCache is what makes the result a shared, reused instance.
type Factory func() Decoder

type registryEntry struct {
	name    string
	aliases []string
	factory Factory
}

// registry is the fixed (name, aliases, factory) table covering every
// decoder this package implements, built once at package init the way
// zxinggo's oned/register.go builds its one-reader-per-format table.
var registry = buildRegistry()

var aliasTable = nameAliasTable()

func buildRegistry() []registryEntry {
	entries := []registryEntry{
		{"ASCII", []string{"US-ASCII", "us-ascii", "7bit"}, func() Decoder { return NewASCII() }},
		{"UTF-8", []string{"utf8", "UTF8"}, func() Decoder { return NewUTF8() }},
		{"UTF-8-Extended", []string{"utf-8-extended", "utf8ext"}, func() Decoder { return NewUTF8Extended() }},
		{"UTF-16LE", []string{"utf-16le", "UTF16LE", "unicodeLittleUnmarked"}, func() Decoder { return NewUTF16LE() }},
		{"UTF-16BE", []string{"utf-16be", "UTF16BE", "unicodeBigUnmarked"}, func() Decoder { return NewUTF16BE() }},
		{"UTF-32LE", []string{"utf-32le", "UTF32LE", "UCS-4LE"}, func() Decoder { return NewUTF32LE() }},
		{"UTF-32BE", []string{"utf-32be", "UTF32BE", "UCS-4BE"}, func() Decoder { return NewUTF32BE() }},
		{"ASCII-16LE", []string{"ascii-16le"}, func() Decoder { return NewASCII16LE() }},
		{"ASCII-16BE", []string{"ascii-16be"}, func() Decoder { return NewASCII16BE() }},
		{"ASCII-32LE", []string{"ascii-32le"}, func() Decoder { return NewASCII32LE() }},
		{"ASCII-32BE", []string{"ascii-32be"}, func() Decoder { return NewASCII32BE() }},
		{"UTF-EBCDIC", []string{"utf-ebcdic", "UTFEBCDIC"}, func() Decoder { return NewUTFEBCDIC() }},
		{"KOI7", []string{"koi7", "KOI-7"}, func() Decoder { return NewKOI7() }},
		{"ISCII", []string{"iscii", "ISCII-DEV"}, func() Decoder { return NewISCII() }},
		{"TSCII", []string{"tscii"}, func() Decoder { return NewTSCII() }},
		{"VISCII", []string{"viscii", "VISCII-1.1"}, func() Decoder { return NewVISCII() }},
		{"ISO-2022", []string{"iso-2022", "ISO2022JP", "ISO-2022-JP"}, func() Decoder { return NewISO2022() }},
		{"UTF-7", []string{"utf-7", "UTF7", "unicode-1-1-utf-7"}, func() Decoder { return NewUTF7() }},
		{"Ascii85", []string{"ascii85", "Base85", "btoa"}, func() Decoder { return NewAscii85() }},
		{"EUC", []string{"euc", "EUC-generic"}, func() Decoder { return NewEUC(EUCGeneric) }},
		{"EUC-JP", []string{"eucJP", "EUCJP"}, func() Decoder { return NewEUC(EUCJP) }},
		{"EUC-TW", []string{"eucTW", "EUCTW"}, func() Decoder { return NewEUC(EUCTW) }},
		{"Shift-JIS", []string{"SJIS", "Shift_JIS", "shiftjis"}, func() Decoder { return NewShiftJIS() }},
		{"GBK-1", nil, func() Decoder { return NewGBK(GBK1) }},
		{"GBK-2", nil, func() Decoder { return NewGBK(GBK2) }},
		{"GBK-3", nil, func() Decoder { return NewGBK(GBK3) }},
		{"GBK", []string{"gbk", "CP936"}, func() Decoder { return NewGBK(GBKFull) }},
		{"GB18030", []string{"gb18030", "GB-18030"}, func() Decoder { return NewGBK(GB18030Full) }},
		{"Big5", []string{"big5", "CP950"}, func() Decoder { return NewBig5(false) }},
		{"Big5-Ext", []string{"big5ext", "Big5E"}, func() Decoder { return NewBig5(true) }},
		{"HZ", []string{"hz-gb-2312", "HZ-GB-2312"}, func() Decoder { return NewHZ() }},
	}
	for _, spec := range charmapDecoders {
		s := spec
		entries = append(entries, registryEntry{s.name, s.aliases, func() Decoder {
			return NewSingleByte(s.name, s.aliases, s.reliability, charmapLookup(s.cm))
		}})
	}
	for _, spec := range legacyDecoders {
		s := spec
		entries = append(entries, registryEntry{s.name, s.aliases, func() Decoder {
			tbl := s.table
			return NewSingleByte(s.name, s.aliases, s.reliability, tbl.lookup)
		}})
	}
	return entries
}

func nameAliasTable() []charset.NameAlias {
	out := make([]charset.NameAlias, len(registry))
	for i, e := range registry {
		out[i] = charset.NameAlias{Name: e.name, Aliases: e.aliases}
	}
	return out
}

// DecoderCache resolves an encoding name to a shared, lazily-built
// Decoder instance. It is safe for concurrent use: multiple goroutines
// may call Get for the same or different names simultaneously, the way
// spec.md's extraction pipeline requires (decoders are immutable once
// built, so sharing one instance across calls is always safe; the
// mutex only protects the construction moment, the pattern zxinggo's
// own RegisterReader/buildReaders never needed since its registration
// only ever happened once from init()).
type DecoderCache struct {
	mu    sync.Mutex
	built map[string]Decoder
}

// NewDecoderCache returns an empty cache ready for concurrent use.
func NewDecoderCache() *DecoderCache {
	return &DecoderCache{built: make(map[string]Decoder)}
}

// Get resolves name (an exact name or recognized alias) to its shared
// Decoder, building it on first request. It returns ok=false if name
// does not resolve to any registered decoder.
func (c *DecoderCache) Get(name string) (Decoder, bool) {
	canonical, ok := charset.Resolve(aliasTable, name)
	if !ok {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.built[canonical]; ok {
		return d, true
	}
	for _, e := range registry {
		if e.name == canonical {
			d := e.factory()
			c.built[canonical] = d
			return d, true
		}
	}
	return nil, false
}

// Names returns the canonical name of every registered decoder.
func Names() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.name
	}
	return out
}
