package emotion

import "testing"

func TestScoreCountsDistinctHits(t *testing.T) {
	a := NewAnalyzer()
	got := a.Score("まじ最高！まじで")
	if got.Positive != 2 || got.Negative != 0 {
		t.Fatalf("hits=(%d,%d), want (2,0)", got.Positive, got.Negative)
	}
	if got.Raw != 2.0 {
		t.Fatalf("raw=%.2f, want 2.00", got.Raw)
	}
}

func TestScoreMixedSentiment(t *testing.T) {
	a := NewAnalyzer()
	got := a.Score("最高だけど仕事だるい")
	if got.Positive != 1 || got.Negative != 1 {
		t.Fatalf("hits=(%d,%d), want (1,1)", got.Positive, got.Negative)
	}
	if got.Raw != -0.5 {
		t.Fatalf("raw=%.2f, want -0.50", got.Raw)
	}
}

func TestScoreEmpty(t *testing.T) {
	a := NewAnalyzer()
	if got := a.Score(""); got != (Result{}) {
		t.Fatalf("empty text score=%+v, want zero", got)
	}
}

func TestIsSimpleGreeting(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		text string
		want bool
	}{
		{text: "おはよう", want: true},
		{text: "こんにちは〜", want: true},
		{text: "おはよう、今日の天気ってどうなると思う？教えてほしい", want: false},
		{text: "なにしてるの", want: false},
	}
	for _, tt := range tests {
		if got := a.IsSimpleGreeting(tt.text); got != tt.want {
			t.Fatalf("IsSimpleGreeting(%q)=%v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsIrrelevant(t *testing.T) {
	a := NewAnalyzer()
	if !a.IsIrrelevant("投資の相談したいんだけど") {
		t.Fatalf("expected investment question to be irrelevant")
	}
	if a.IsIrrelevant("新しいリップ買った") {
		t.Fatalf("lipstick talk should not be irrelevant")
	}
}
