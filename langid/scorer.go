package langid

// DefaultBigramWeight is the fallback weight added to language id 0 at
// each position where no n-gram of the probed lengths matched, named from
// original_source/langident/langid.h's default weighting constant.
const DefaultBigramWeight = 0.15

// MinNGram and MaxNGram bound the n-gram lengths the scorer probes at
// each position, matching the model's trained range.
const (
	MinNGram = 1
	MaxNGram = 4
)

// Scorer runs the packed multi-trie model over a byte sequence to
// accumulate per-language evidence, the Go counterpart of
// original_source/langident/langid.C's identify().
type Scorer struct {
	model *Model
}

// NewScorer returns a Scorer backed by model.
func NewScorer(model *Model) *Scorer {
	return &Scorer{model: model}
}

// Identify scores every position of text against the model's n-grams,
// accumulating weighted evidence per language, and returns the
// resulting LanguageScores. Longer n-gram matches at a given position
// take priority over shorter ones; unmatched positions fall back to
// DefaultBigramWeight so that text containing no trained n-gram at all
// still contributes a small amount of (uninformative) evidence instead
// of being silently skipped.
func (sc *Scorer) Identify(text []byte) *LanguageScores {
	scores := NewLanguageScores()
	if sc.model == nil || sc.model.Trie == nil {
		return scores
	}
	trie := sc.model.Trie
	for i := range text {
		matched := false
		maxLen := MaxNGram
		if i+maxLen > len(text) {
			maxLen = len(text) - i
		}
		for n := maxLen; n >= MinNGram; n-- {
			nodeIdx, ok := trie.Find(text[i : i+n])
			if !ok {
				continue
			}
			records := trie.RecordsAt(nodeIdx)
			if len(records) == 0 {
				continue
			}
			for _, rec := range records {
				if rec.Stopgram {
					continue
				}
				scores.AddWeighted(rec.LanguageID, rec.Weight.Value())
			}
			matched = true
			break
		}
		if !matched {
			scores.AddWeighted(0, DefaultBigramWeight)
		}
	}
	return scores
}
