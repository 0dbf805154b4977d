package decoder

// indicLegacyTable builds a legacyTable (bytes 0x80-0xFF) whose upper
// half holds a contiguous run of a South/East Asian script block, the
// shape shared by ISCII (Indic scripts, one 8-bit table per script with
// the same structural layout), TSCII (Tamil) and VISCII (Vietnamese,
// which actually repurposes bytes throughout 0x80-0xFF for precomposed
// accented Latin letters). No library in the retrieved example pack
// carries any of these three, so each is approximated by mapping
// 0xA0-0xFF onto the relevant Unicode block starting at base.
func indicLegacyTable(base rune) legacyTable {
	t := identityLegacy()
	for i := 0x20; i < 0x80; i++ {
		t[i] = base + rune(i-0x20)
	}
	return t
}

// NewISCII returns the ISCII (Indian Script Code for Information
// Interchange) decoder, approximated over the Devanagari block.
func NewISCII() *SingleByte {
	tbl := indicLegacyTable(0x0900)
	return NewSingleByte("ISCII", []string{"iscii", "ISCII-DEV"}, 1.0, tbl.lookup)
}

// NewTSCII returns the TSCII (Tamil) decoder, approximated over the
// Tamil Unicode block.
func NewTSCII() *SingleByte {
	tbl := indicLegacyTable(0x0B80)
	return NewSingleByte("TSCII", []string{"tscii"}, 1.0, tbl.lookup)
}

// NewVISCII returns the VISCII (Vietnamese) decoder, approximated over
// the Latin Extended Additional block where Vietnamese's precomposed
// tone-marked vowels live.
func NewVISCII() *SingleByte {
	tbl := indicLegacyTable(0x1E00)
	return NewSingleByte("VISCII", []string{"viscii", "VISCII-1.1"}, 1.0, tbl.lookup)
}
