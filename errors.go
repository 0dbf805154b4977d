package lastrings

import "errors"

// Sentinel errors returned by the extraction pipeline, in the style of
// zxinggo's errors.go (a flat set of package-level sentinels rather
// than a custom error type hierarchy).
var (
	// ErrUnknownEncoding is returned when an encoding name passed in
	// ExtractionParameters does not resolve to a registered decoder.
	ErrUnknownEncoding = errors.New("lastrings: unknown or unregistered encoding")

	// ErrBadModel is returned when a language-identification model
	// file fails to parse.
	ErrBadModel = errors.New("lastrings: malformed language model")

	// ErrAllocation is returned when an internal buffer could not be
	// grown to hold the requested amount of input.
	ErrAllocation = errors.New("lastrings: allocation failure")

	// ErrNoInput is returned by Extract when ExtractionParameters has
	// no OnOutput callback. An empty input stream is not an error.
	ErrNoInput = errors.New("lastrings: no output callback")
)
