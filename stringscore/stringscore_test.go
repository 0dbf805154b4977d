package stringscore

import "testing"

func TestEmptyStringScoresZero(t *testing.T) {
	s := New()
	s.Finalize()
	if got := s.ComputeScore(); got != 0 {
		t.Fatalf("empty string should score 0, got %v", got)
	}
}

func TestAllAlphaScoresHigherThanMixed(t *testing.T) {
	alpha := New()
	for i := 0; i < 40; i++ {
		alpha.Update('a', true, true, 1)
	}
	alpha.Finalize()

	mixed := New()
	for i := 0; i < 40; i++ {
		isAlpha := i%2 == 0
		cp := rune('a')
		if !isAlpha {
			cp = '!'
		}
		mixed.Update(cp, isAlpha, isAlpha, 1)
	}
	mixed.Finalize()

	if alpha.ComputeScore() <= mixed.ComputeScore() {
		t.Fatalf("long alpha run should outscore choppy alternation: alpha=%v mixed=%v",
			alpha.ComputeScore(), mixed.ComputeScore())
	}
}

func TestLongerStringsScoreHigher(t *testing.T) {
	short := New()
	for i := 0; i < 5; i++ {
		short.Update('a', true, true, 1)
	}
	short.Finalize()

	long := New()
	for i := 0; i < 50; i++ {
		long.Update('a', true, true, 1)
	}
	long.Finalize()

	if long.ComputeScore() <= short.ComputeScore() {
		t.Fatalf("longer run should score higher: short=%v long=%v", short.ComputeScore(), long.ComputeScore())
	}
}

func TestDictionaryCoverageRaisesScore(t *testing.T) {
	withoutDict := New()
	for i := 0; i < 20; i++ {
		withoutDict.Update('a', true, true, 1)
	}
	withoutDict.Finalize()

	withDict := New()
	for i := 0; i < 20; i++ {
		withDict.Update('a', true, true, 1)
	}
	withDict.AddWord(20)
	withDict.Finalize()

	if withDict.ComputeScore() <= withoutDict.ComputeScore() {
		t.Fatalf("full dictionary coverage should raise the score: without=%v with=%v",
			withoutDict.ComputeScore(), withDict.ComputeScore())
	}
}

func TestLanguageScoreAveragesIn(t *testing.T) {
	s := New()
	for i := 0; i < 30; i++ {
		s.Update('a', true, true, 1)
	}
	s.Finalize()
	base := s.ComputeScore()

	s.SetLanguageScore(99.0)
	withLang := s.ComputeScore()
	if withLang == base {
		t.Fatal("setting a language score should change the computed score")
	}
}

func TestScoreNeverExceedsCap(t *testing.T) {
	s := New()
	for i := 0; i < 10000; i++ {
		s.Update('a', true, true, 1)
	}
	s.AddWord(10000)
	s.Finalize()
	s.SetLanguageScore(1000.0)
	if got := s.ComputeScore(); got > 99.999 {
		t.Fatalf("score should be capped at 99.999, got %v", got)
	}
}

func TestAlphaPercentAndDesiredPercent(t *testing.T) {
	s := New()
	s.Update('a', true, true, 1)
	s.Update('!', false, false, 1)
	s.Finalize()
	if got := s.AlphaPercent(); got != 0.5 {
		t.Fatalf("got %v", got)
	}
	if got := s.DesiredPercent(); got != 0.5 {
		t.Fatalf("got %v", got)
	}
}
