package langid

import (
	"math"
	"testing"
)

func TestQuantizeRoundTripMonotonic(t *testing.T) {
	prev := QuantizeWeight(0).Value()
	for _, w := range []float64{0, 0.1, 1, 5, 10, 50, 100, 500, 999} {
		q := QuantizeWeight(w)
		v := q.Value()
		if v < prev-1e-9 {
			t.Fatalf("quantized value decreased for larger input: w=%v v=%v prev=%v", w, v, prev)
		}
		prev = v
	}
}

func TestPackUnpackRecord(t *testing.T) {
	rec := NGramRecord{LanguageID: 42, Weight: QuantizeWeight(12.5), Stopgram: true, LastInList: true}
	got := UnpackRecord(PackRecord(rec))
	if got.LanguageID != rec.LanguageID || got.Stopgram != rec.Stopgram || got.LastInList != rec.LastInList {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestParseDescriptor(t *testing.T) {
	id, err := ParseDescriptor("en_US-UTF8/news")
	if err != nil {
		t.Fatal(err)
	}
	if id.Encoding != "UTF8" || id.Source != "news" {
		t.Fatalf("got encoding=%q source=%q", id.Encoding, id.Source)
	}
	base, _ := id.Tag.Base()
	if base.String() != "en" {
		t.Fatalf("got base=%q", base.String())
	}
}

func TestLanguageIDMatches(t *testing.T) {
	id, err := ParseDescriptor("fr_CA")
	if err != nil {
		t.Fatal(err)
	}
	if !id.Matches("fr", "", "", "") {
		t.Fatal("expected language-only match to succeed")
	}
	if id.Matches("de", "", "", "") {
		t.Fatal("expected mismatched language to fail")
	}
}

func TestLanguageScoresTopK(t *testing.T) {
	s := NewLanguageScores()
	s.AddWeighted(1, 5)
	s.AddWeighted(2, 10)
	s.AddWeighted(3, 1)
	top := s.TopK(2)
	if len(top) != 2 || top[0].LanguageID != 2 || top[1].LanguageID != 1 {
		t.Fatalf("got %+v", top)
	}
}

func TestLanguageScoresMergeByName(t *testing.T) {
	a := NewLanguageScores()
	a.AddWeighted(1, 10)
	b := NewLanguageScores()
	b.AddWeighted(1, 4)
	b.AddWeighted(2, 6)
	a.MergeByName(b, 0.5)
	best, ok := a.Best()
	if !ok || best.LanguageID != 1 {
		t.Fatalf("got %+v", best)
	}
}

func TestPriorLanguageScoresDecay(t *testing.T) {
	p := NewPriorLanguageScores(0.3)
	first := NewLanguageScores()
	first.AddWeighted(5, 10)
	prior := p.Update(first)
	if prior.Total() != 0 {
		t.Fatalf("first update's returned prior should be empty, got total %v", prior.Total())
	}
	second := NewLanguageScores()
	prior2 := p.Update(second)
	if prior2.Total() == 0 {
		t.Fatal("second update should return the first update's evidence")
	}
	prior3 := p.Update(NewLanguageScores())
	if math.Abs(prior3.Total()-3) > 1e-9 {
		t.Fatalf("third update should see the first evidence decayed once (10*0.3), got total %v", prior3.Total())
	}
}

func TestPackedTrieRootFind(t *testing.T) {
	trie := &PackedMultiTrie{
		Nodes: []PackedTrieNode{
			{RecordIdx: recordNone}, // root, no children set -> Find("a") fails
		},
	}
	if _, ok := trie.Find([]byte("a")); ok {
		t.Fatal("expected no match against an empty trie")
	}
}
