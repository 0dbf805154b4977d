package lastrings

import (
	"github.com/tripleee/lastrings/decoder"
	"github.com/tripleee/lastrings/langid"
)

// InputStream is the minimal front-to-back byte source the extraction
// loop consumes: end-of-data, current-offset, and get(count, dst) →
// bytes actually read, per spec.md §3's "INPUT STREAM ABSTRACTION".
// The core never seeks backward.
type InputStream interface {
	// AtEnd reports whether the stream has no more bytes to deliver.
	AtEnd() bool
	// Offset returns the absolute byte offset of the next unread byte.
	Offset() int64
	// Get reads up to len(dst) bytes into dst, returning the number
	// actually read, which may be less than len(dst). Extract stops
	// reading at the first Get that returns 0, whatever AtEnd reports.
	Get(dst []byte) (int, error)
}

// OutputFormat selects the encoding Result.Text (or an output
// callback) should receive candidate strings in.
type OutputFormat = decoder.OutputFormat

const (
	FormatNative  = decoder.FormatNative
	FormatUTF8    = decoder.FormatUTF8
	FormatUTF16LE = decoder.FormatUTF16LE
	FormatUTF16BE = decoder.FormatUTF16BE
)

// OutputCallback receives one emitted Result; returning an error
// aborts the remainder of the extraction.
type OutputCallback func(Result) error

// ExtractionParameters is the read-only configuration bundle consulted
// throughout one Extract call, per spec.md §3.
type ExtractionParameters struct {
	MinStringLength    int
	MaxGapBetweenValid int
	MinAlphaFraction   float64
	MinDesiredFraction float64
	MinScore           float64

	NewlinesAllowed bool
	RomanizeOutput  bool
	ForceCRLF       bool

	ShowConfidence    bool
	ShowEncoding      bool
	ShowFilename      bool
	ShowLocationRadix int // 0, 8, 10, or 16; 0 disables location output

	IdentifyLanguage     bool
	MaxLanguagesToReport int
	SmoothLanguageScores bool

	OutputFormat OutputFormat

	// Encoding, when non-empty, forces a single decoder name instead
	// of the identify-then-try decoder list; spec.md §4.9's Identify
	// state only runs in auto-encoding mode.
	Encoding string

	Model *langid.Model

	OnOutput OutputCallback
}

// DefaultParameters returns an ExtractionParameters populated with
// the same defaults la-strings applies when run with no flags:
// automatic encoding detection, a minimum string length of 4, UTF-8
// output.
func DefaultParameters() ExtractionParameters {
	return ExtractionParameters{
		MinStringLength:      4,
		MaxGapBetweenValid:   1,
		MinScore:             0,
		ShowEncoding:         false,
		MaxLanguagesToReport: 3,
		OutputFormat:         FormatUTF8,
	}
}

// Result is one extracted, decoded string and the metadata the
// extraction loop collected about it.
type Result struct {
	Text       []byte // decoded text, in ExtractionParameters.OutputFormat
	RawBytes   []byte // the original undecoded byte range
	Offset     int64
	Length     int
	Decoder    string
	Confidence float64
	Languages  []langid.LanguageScore
}
