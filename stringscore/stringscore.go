// Package stringscore computes the confidence score assigned to each
// candidate string extracted from the input, combining run-length
// statistics, optional dictionary coverage and an optional language-
// model score into a single 0-99.999 value.
//
// The accumulator and computeScore() formula are grounded exactly on
// original_source/score.C/score.h (StringScore), reimplemented with
// Go's explicit-receiver methods in place of the original's C++ class.
package stringscore

import "math"

// DictWeight is score.C's DICT_WEIGHT: the multiplier applied to the
// squared, scaled dictionary word-coverage term when a Dictionary is
// available.
const DictWeight = 2.0

// Dictionary is the optional word-lookup hook a StringScore consults
// via AddWord's caller; spec.md keeps the actual word list and lookup
// algorithm out of scope, so this package only defines the interface
// shape, matching original_source/score.h's forward declaration of an
// externally-supplied dictionary.
type Dictionary interface {
	// Lookup reports whether word is a known dictionary entry and, if
	// so, its length in characters (which may differ from len(word)
	// for multi-byte encodings).
	Lookup(word []byte) (length int, ok bool)
}

func weightAlpha(alpha float64) float64 {
	if alpha > 1.0 {
		return alpha * alpha
	}
	return 0.0
}

func weightDesired(desired float64) float64 {
	if desired > 1.0 {
		return desired * desired
	}
	return 0.0
}

// StringScore accumulates the per-codepoint run statistics for one
// candidate string as it is scanned, then reduces them to a single
// confidence score.
type StringScore struct {
	totalChars    float64
	totalAlpha    float64
	totalDesired  float64
	wordCover     float64
	alphaRun      float64
	desiredRun    float64
	otherRun      float64
	weightedRuns  float64
	languageScore float64
	haveDict      bool
}

// New returns a fresh, zeroed StringScore, with no language-model
// score set (mirroring the original's m_language_score = -999.9
// sentinel).
func New() *StringScore {
	return &StringScore{languageScore: -999.9}
}

// Update folds one decoded codepoint into the running statistics.
// isAlphaNumeric and isDesired are supplied by the active decoder and
// charset (spec.md's CharacterSet.isAlphaNum/desiredCodePoint); size
// is the codepoint's contribution to the character count (normally 1,
// but callers may weight multi-unit codepoints as the original does
// via its charsize parameter).
func (s *StringScore) Update(cp rune, isAlphaNumeric, isDesired bool, size float64) {
	s.totalChars += size
	if isAlphaNumeric {
		s.totalAlpha += size
	}
	if isAlphaNumeric || cp == ' ' || cp == '\t' {
		s.alphaRun += size
	} else {
		s.weightedRuns += weightAlpha(s.alphaRun)
		s.alphaRun = 0
	}
	if isDesired {
		s.totalDesired += size
	}
	if isDesired || cp == ' ' || cp == '\t' {
		s.desiredRun += size
		s.otherRun = 0
	} else {
		s.weightedRuns += weightDesired(s.desiredRun)
		s.desiredRun = 0
		s.otherRun += size
	}
}

// AddWord records a dictionary-recognized word of the given character
// length, and marks this StringScore as dictionary-aware so
// ComputeScore uses the word-coverage term instead of the flat scale
// bonus.
func (s *StringScore) AddWord(wordLength int) {
	s.wordCover += float64(wordLength)
	s.haveDict = true
}

// SetLanguageScore records the best language-model score (0-100-ish
// scale) for this string; a negative value means "no language model
// was consulted" and ComputeScore ignores it.
func (s *StringScore) SetLanguageScore(score float64) {
	s.languageScore = score
}

// Finalize flushes any still-open alpha/desired run into the weighted
// total; call once after the last Update.
func (s *StringScore) Finalize() {
	s.weightedRuns += weightAlpha(s.alphaRun)
	s.weightedRuns += weightDesired(s.desiredRun)
	s.alphaRun, s.desiredRun, s.otherRun = 0, 0, 0
}

// TotalChars returns the accumulated character count.
func (s *StringScore) TotalChars() float64 { return s.totalChars }

// AlphaPercent returns the fraction of characters that were
// alphanumeric.
func (s *StringScore) AlphaPercent() float64 {
	if s.totalChars == 0 {
		return 0
	}
	return s.totalAlpha / s.totalChars
}

// DesiredPercent returns the fraction of characters that were in the
// active charset's "desired" set.
func (s *StringScore) DesiredPercent() float64 {
	if s.totalChars == 0 {
		return 0
	}
	return s.totalDesired / s.totalChars
}

// WordCoverage returns the fraction of characters covered by
// recognized dictionary words.
func (s *StringScore) WordCoverage() float64 {
	if s.totalChars == 0 {
		return 0
	}
	return s.wordCover / s.totalChars
}

func (s *StringScore) weightedRunsNormalized() float64 {
	if s.totalChars == 0 {
		return 0
	}
	return s.weightedRuns / s.totalChars / s.totalChars
}

// ComputeScore reduces the accumulated statistics to a single
// confidence value in [0, 99.999], following score.C's computeScore()
// exactly: a dictionary-coverage or flat-scale term, scaled by
// weighted run lengths, stretched by string length, optionally
// averaged against the language-model score, then clamped.
func (s *StringScore) ComputeScore() float64 {
	score := 0.0
	scale := 2.0
	if s.haveDict {
		sc := 2.0 * s.WordCoverage()
		score += DictWeight * (sc * sc)
	} else {
		scale += DictWeight
	}
	score += scale * s.weightedRunsNormalized()
	score *= 0.5 * math.Sqrt(s.totalChars)
	if score < 0.0 {
		score = 0.0
	}
	if s.languageScore >= 0.0 {
		score = (score + 8.0*s.languageScore) / 2.0
	}
	if score > 99.999 {
		score = 99.999
	}
	return score
}
