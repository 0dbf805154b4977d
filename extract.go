package lastrings

import (
	"bytes"
	"sort"

	"github.com/tripleee/lastrings/bitops"
	"github.com/tripleee/lastrings/charcode"
	"github.com/tripleee/lastrings/charset"
	"github.com/tripleee/lastrings/decoder"
	"github.com/tripleee/lastrings/langid"
	"github.com/tripleee/lastrings/stringscore"
)

// MinRepeats is the number of consecutive identical 16-bit units that
// the Fill state treats as padding to be skipped rather than scanned
// as candidate string content (original_source/extract.C's
// MIN_REPEATS).
const MinRepeats = 12

// ScanSize is the number of leading bytes the Identify state samples
// to choose candidate decoders (original_source/extract.C's
// SCAN_SIZE).
const ScanSize = 384

// priorDecayFactor is applied to the smoothed inter-string language
// score carried forward between emitted strings (spec.md §4.9
// "Inter-string smoothing").
const priorDecayFactor = 0.6

var sharedCache = decoder.NewDecoderCache()

// Extract runs the Fill/Identify/Try/Emit/Advance state machine over
// stream, invoking params.OnOutput for each string whose confidence
// clears params.MinScore. It returns when the stream is exhausted or
// the callback returns a non-nil error.
func Extract(stream InputStream, params ExtractionParameters) error {
	if params.OnOutput == nil {
		return ErrNoInput
	}

	buf, err := readAll(stream)
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}

	candidates, err := resolveCandidates(buf, params)
	if err != nil {
		return err
	}

	var scorer *langid.Scorer
	if params.IdentifyLanguage && params.Model != nil {
		scorer = langid.NewScorer(params.Model)
	}
	prior := langid.NewPriorLanguageScores(priorDecayFactor)

	baseOffset := stream.Offset() - int64(len(buf))
	offset := 0
	skippedBytes := 0
	emittedStrings := 0

	for offset < len(buf) {
		if n := repeatedUnitRun(buf[offset:]); n > 0 {
			offset += n
			continue
		}

		best, bestOffset := tryCandidates(buf, offset, candidates, params)
		if best == nil || best.length < params.MinStringLength {
			skippedBytes++
			step := 1
			if best != nil {
				step = best.alignment
				if step < 1 {
					step = 1
				}
			}
			offset = bestOffset + step
			continue
		}

		confidence := best.score
		var langScores *langid.LanguageScores
		if scorer != nil && best.length >= 12 && best.dec.DetectionReliability() < 1.0 {
			langScores = scorer.Identify(buf[bestOffset : bestOffset+best.length])
			if top, ok := langScores.Best(); ok {
				confidence = combineConfidence(confidence, top.Weight, langScores.Total(), best.length)
			}
			prior.Update(langScores)
		}

		if confidence >= params.MinScore &&
			(params.MinAlphaFraction == 0 || best.alphaFraction >= params.MinAlphaFraction) &&
			(params.MinDesiredFraction == 0 || best.desiredFraction >= params.MinDesiredFraction) {

			var out bytes.Buffer
			best.dec.WriteAsUTF(buf[bestOffset:bestOffset+best.length], &out, params.RomanizeOutput, nil, params.OutputFormat)

			result := Result{
				Text:       out.Bytes(),
				RawBytes:   buf[bestOffset : bestOffset+best.length],
				Offset:     baseOffset + int64(bestOffset),
				Length:     best.length,
				Decoder:    best.dec.Name(),
				Confidence: confidence,
			}
			if scorer != nil {
				if langScores == nil {
					langScores = scorer.Identify(buf[bestOffset : bestOffset+best.length])
				}
				result.Languages = langScores.TopK(params.MaxLanguagesToReport)
			}
			if err := params.OnOutput(result); err != nil {
				return err
			}
			emittedStrings++
		}

		newOffset := bestOffset + best.length
		newOffset += best.dec.ConsumeNewlines(buf[min(newOffset, len(buf)):])
		offset = newOffset

		if skippedBytes > 20 && emittedStrings >= 2 && offset > ScanSize/4 {
			prior.Update(langid.NewLanguageScores())
			skippedBytes = 0
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// readAll drains stream into a single in-memory buffer. spec.md's
// fixed-capacity working buffer with incremental refill is
// specialized here to "read everything up front", since Go slices
// grow without the manual capacity bookkeeping the original's Fill
// state exists to avoid; the behavior the state models - detect/skip
// repeated-unit runs, advance without rereading - is preserved in the
// main Extract loop instead of in a separate refill step.
func readAll(stream InputStream) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 64*1024)
	for !stream.AtEnd() {
		n, err := stream.Get(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return buf.Bytes(), nil
}

// repeatedUnitRun reports the length of a run at s[0:] consisting of
// at least MinRepeats repetitions of the same 16-bit unit, or 0 if no
// such run starts here.
func repeatedUnitRun(s []byte) int {
	if len(s) < MinRepeats*2 {
		return 0
	}
	unit := bitops.LoadLE16(s)
	n := 1
	for n*2+1 < len(s) && bitops.LoadLE16(s[n*2:]) == unit {
		n++
	}
	if n >= MinRepeats {
		return n * 2
	}
	return 0
}

// resolveCandidates builds the ranked list of decoders to try at each
// offset: a single forced decoder if params.Encoding is set, otherwise
// ASCII (always), UTF-8/ASCII-16LE if the buffer heuristics in
// charset.ContainsUTF8/ContainsASCII16 detect their patterns, plus
// every other registered decoder ordered by detection reliability
// (spec.md §4.9's Identify state).
func resolveCandidates(buf []byte, params ExtractionParameters) ([]decoder.Decoder, error) {
	if params.Encoding != "" {
		d, ok := sharedCache.Get(params.Encoding)
		if !ok {
			return nil, ErrUnknownEncoding
		}
		return []decoder.Decoder{d}, nil
	}

	var list []decoder.Decoder
	ascii, _ := sharedCache.Get("ASCII")
	list = append(list, ascii)

	scanWindow := buf
	if len(scanWindow) > ScanSize {
		scanWindow = scanWindow[:ScanSize]
	}
	if charset.ContainsUTF8(scanWindow) {
		if u8, ok := sharedCache.Get("UTF-8"); ok {
			list = append(list, u8)
		}
	}
	if charset.ContainsASCII16(scanWindow) {
		if a16, ok := sharedCache.Get("ASCII-16LE"); ok {
			list = append(list, a16)
		}
	}

	rest := make([]decoder.Decoder, 0, len(decoder.Names()))
	seen := map[string]bool{ascii.Name(): true}
	for _, d := range list {
		seen[d.Name()] = true
	}
	for _, name := range decoder.Names() {
		if seen[name] {
			continue
		}
		d, ok := sharedCache.Get(name)
		if !ok {
			continue
		}
		rest = append(rest, d)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].DetectionReliability() > rest[j].DetectionReliability()
	})
	list = append(list, rest...)
	return list, nil
}

// candidateRun is one decoder's maximal extracted run, carrying enough
// of its StringScore statistics to apply the filter-fraction checks in
// Extract. start is the run's actual beginning, which for an
// ASCII-superset decoder may be later than the offset it was tried at
// (see extractRun's ASCII-precedence trimming).
type candidateRun struct {
	dec             decoder.Decoder
	start           int
	length          int
	score           float64
	alignment       int
	alphaFraction   float64
	desiredFraction float64
}

// tryCandidates runs every candidate decoder's Next loop from offset,
// picks the longest run (tie-broken by confidence), and additionally
// tries offset+1 when the winner has alignment>1 and its run was not
// newline-terminated, per spec.md §4.9's Try state.
func tryCandidates(buf []byte, offset int, candidates []decoder.Decoder, params ExtractionParameters) (*candidateRun, int) {
	best := tryAt(buf, offset, candidates, params)
	if best == nil {
		return nil, offset
	}
	bestOffset := best.start
	end := best.start + best.length
	newlineEnded := end < len(buf) && best.dec.ConsumeNewlines(buf[end:]) > 0
	if best.alignment > 1 && !newlineEnded && offset+1 < len(buf) {
		alt := tryAt(buf, offset+1, candidates, params)
		if alt != nil && (alt.length > best.length ||
			(alt.length == best.length && alt.score > best.score) ||
			(best.length == len(buf)-best.start)) {
			best, bestOffset = alt, alt.start
		}
	}
	return best, bestOffset
}

func tryAt(buf []byte, offset int, candidates []decoder.Decoder, params ExtractionParameters) *candidateRun {
	var best *candidateRun
	for _, d := range candidates {
		run := extractRun(buf, offset, d, params)
		if run == nil {
			continue
		}
		if best == nil || run.length > best.length ||
			(run.length == best.length && run.score > best.score) {
			best = run
		}
	}
	return best
}

// asciiOnlyPrefixLen returns the number of leading bytes in s that are
// plain 7-bit ASCII (<0x80), stopping at the first high-bit byte (or
// the end of s).
func asciiOnlyPrefixLen(s []byte) int {
	n := 0
	for n < len(s) && s[n] < 0x80 {
		n++
	}
	return n
}

// extractRun runs d.Next repeatedly from offset, accumulating a
// StringScore, stopping on a failed decode, an other-run exceeding
// MaxGapBetweenValid, or the end of the buffer.
//
// Per spec.md §4.9's ASCII precedence at the run boundary, a decoder
// other than ASCII itself never claims a leading run of plain ASCII
// bytes as part of its own match: those bytes belong to ASCII's
// candidate run instead, so an ASCII-superset decoder's run is trimmed
// to start only where genuinely non-ASCII content begins. Without
// this, a superset decoder (e.g. Big5, whose low byte range is a
// strict ASCII superset) would always out-compete ASCII on length by
// swallowing an unrelated ASCII prefix into its own match.
func extractRun(buf []byte, offset int, d decoder.Decoder, params ExtractionParameters) *candidateRun {
	align := d.Alignment()
	if align > 1 && offset%align != 0 {
		return nil
	}
	start := offset
	if align == 1 && d.Name() != "ASCII" {
		if k := asciiOnlyPrefixLen(buf[offset:]); k > 0 && offset+k < len(buf) {
			start = offset + k
		}
	}
	var state charcode.EscapeState
	score := stringscore.New()
	pos := start
	otherRun := 0
	for pos < len(buf) {
		cp, n := d.Next(buf[pos:], &state, params.NewlinesAllowed)
		if n == 0 {
			break
		}
		isAlpha := d.IsAlphaNumeric(cp)
		isDesired := isAlpha
		score.Update(cp, isAlpha, isDesired, 1)
		if isAlpha || cp == ' ' || cp == '\t' {
			otherRun = 0
		} else {
			otherRun++
			if params.MaxGapBetweenValid > 0 && otherRun > params.MaxGapBetweenValid {
				pos += n
				break
			}
		}
		pos += n
	}
	length := pos - start
	if length == 0 {
		return nil
	}
	score.Finalize()
	return &candidateRun{
		dec:             d,
		start:           start,
		length:          length,
		score:           score.ComputeScore(),
		alignment:       align,
		alphaFraction:   score.AlphaPercent(),
		desiredFraction: score.DesiredPercent(),
	}
}

// combineConfidence blends the structural confidence with a
// language-model score using a length-dependent convex combination,
// per spec.md §4.9 (weights roughly {1/4, 1/3, 1/2, 2/3, 4/5, 7/8} for
// length thresholds {≤8, ≤20, ≤40, ≤60, ≤80, >80}).
//
// topWeight/totalWeight is the winning language's share of the total
// accumulated n-gram weight across every language the scorer matched;
// that share, not the raw unscaled weight sum (which grows with string
// length and has no fixed ceiling), is what gets stretched onto the
// same 0-99.999 scale as structural before the two are combined -
// otherwise a low-reliability decoder's (UTF-16/UTF-32) confidence gets
// depressed by a scale mismatch rather than genuinely corroborated or
// contradicted by the language match.
func combineConfidence(structural, topWeight, totalWeight float64, length int) float64 {
	var w float64
	switch {
	case length <= 8:
		w = 1.0 / 4.0
	case length <= 20:
		w = 1.0 / 3.0
	case length <= 40:
		w = 1.0 / 2.0
	case length <= 60:
		w = 2.0 / 3.0
	case length <= 80:
		w = 4.0 / 5.0
	default:
		w = 7.0 / 8.0
	}
	languageScore := 0.0
	if totalWeight > 0 {
		languageScore = (topWeight / totalWeight) * 99.999
	}
	combined := (1-w)*structural + w*languageScore
	if combined > 99.999 {
		combined = 99.999
	}
	return combined
}
