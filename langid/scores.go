package langid

import "sort"

// LanguageScore is one language's accumulated weight within a
// LanguageScores set.
type LanguageScore struct {
	LanguageID uint16
	Weight     float64
}

// LanguageScores accumulates per-language weights across the n-grams
// of a candidate string, mirroring the scoring accumulator described
// in original_source/langident/langid.C's identify() pass.
type LanguageScores struct {
	byLang map[uint16]float64
}

// NewLanguageScores returns an empty score accumulator.
func NewLanguageScores() *LanguageScores {
	return &LanguageScores{byLang: make(map[uint16]float64)}
}

// Clear resets the accumulator to empty.
func (s *LanguageScores) Clear() {
	for k := range s.byLang {
		delete(s.byLang, k)
	}
}

// AddWeighted adds weight to language's running total.
func (s *LanguageScores) AddWeighted(language uint16, weight float64) {
	s.byLang[language] += weight
}

// Scale multiplies every language's accumulated weight by factor.
func (s *LanguageScores) Scale(factor float64) {
	for k := range s.byLang {
		s.byLang[k] *= factor
	}
}

// MergeByName folds other's scores into s, adding each of other's
// weights times weight to the same language id in s (ids present only
// in other are added too), per spec.md's inter-string language-score
// smoothing: consecutive extracted strings contribute to one another's
// language evidence rather than being scored in total isolation.
// Entries are matched by language id only; different ids that share a
// language name are not combined.
func (s *LanguageScores) MergeByName(other *LanguageScores, weight float64) {
	for lang, w := range other.byLang {
		s.byLang[lang] += w * weight
	}
}

// Total returns the sum of every language's weight.
func (s *LanguageScores) Total() float64 {
	var sum float64
	for _, w := range s.byLang {
		sum += w
	}
	return sum
}

// TopK returns the K languages with the greatest accumulated weight,
// highest first, ties broken by lower language id. If the accumulator
// holds fewer than k languages, the returned slice is shorter than k;
// languages with zero weight are included.
func (s *LanguageScores) TopK(k int) []LanguageScore {
	out := make([]LanguageScore, 0, len(s.byLang))
	for lang, w := range s.byLang {
		out = append(out, LanguageScore{LanguageID: lang, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].LanguageID < out[j].LanguageID
	})
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// Best returns the single highest-weighted language, and ok=false if
// the accumulator is empty.
func (s *LanguageScores) Best() (LanguageScore, bool) {
	top := s.TopK(1)
	if len(top) == 0 {
		return LanguageScore{}, false
	}
	return top[0], true
}

// PriorLanguageScores carries the language-score evidence forward from
// one extracted string to bias identification of the next, the
// "smoothing across adjacent strings" behavior of la-strings' default
// run mode (original_source/la-strings.C).
type PriorLanguageScores struct {
	scores *LanguageScores
	decay  float64
}

// NewPriorLanguageScores returns a prior-score carrier that decays its
// contribution by decay (in [0,1]) each time it is folded forward.
func NewPriorLanguageScores(decay float64) *PriorLanguageScores {
	return &PriorLanguageScores{scores: NewLanguageScores(), decay: decay}
}

// Update folds current into the running prior and returns the prior
// as it stood before this update (the bias to apply to current).
func (p *PriorLanguageScores) Update(current *LanguageScores) *LanguageScores {
	prior := p.scores
	next := NewLanguageScores()
	next.MergeByName(prior, p.decay)
	next.MergeByName(current, 1.0)
	p.scores = next
	return prior
}
