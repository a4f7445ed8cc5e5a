package emotion

import (
	"strings"
	"unicode/utf8"
)

const Engine = "gal-lexical-v1"

const (
	PositiveWeight = 1.0
	NegativeWeight = 1.5
)

// Result counts distinct keyword hits. Raw is the signed sentiment before
// any persona sensitivity is applied.
type Result struct {
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
	Raw      float64 `json:"raw"`
}

type Analyzer struct {
	positive   []string
	negative   []string
	greetings  []string
	irrelevant []string
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positive:   positiveHints,
		negative:   negativeHints,
		greetings:  greetingHints,
		irrelevant: irrelevantHints,
	}
}

var positiveHints = []string{
	"まじ", "最高", "ヤバい", "やばい", "可愛い", "かわいい", "天才", "エモい", "神", "好き", "すごい", "わかる", "それな",
}

var negativeHints = []string{
	"だる", "萎え", "最悪", "しんどい", "無理", "草", "乙", "メンブレ", "つらい", "辛い",
}

var greetingHints = []string{
	"おはよう", "こんにちは", "こんばんは", "元気", "おやすみ", "やあ", "おっす", "よろしく", "はじめまして",
}

// Topics the persona refuses to engage with while fully guarded.
var irrelevantHints = []string{
	"あげる", "プレゼント", "孫", "相談", "仕事", "結婚", "お金", "投資", "税金",
}

const simpleGreetingMaxRunes = 15

func normalize(text string) string {
	return strings.ToLower(text)
}

func containsAny(text string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(text, h) {
			return true
		}
	}
	return false
}

func countHits(text string, hints []string) int {
	n := 0
	for _, h := range hints {
		if strings.Contains(text, h) {
			n++
		}
	}
	return n
}

// Score scans the message once per keyword; a keyword repeated in the
// message still counts a single hit.
func (a *Analyzer) Score(text string) Result {
	t := normalize(text)
	if t == "" {
		return Result{}
	}
	pos := countHits(t, a.positive)
	neg := countHits(t, a.negative)
	return Result{
		Positive: pos,
		Negative: neg,
		Raw:      float64(pos)*PositiveWeight - float64(neg)*NegativeWeight,
	}
}

func (a *Analyzer) IsSimpleGreeting(text string) bool {
	if utf8.RuneCountInString(text) >= simpleGreetingMaxRunes {
		return false
	}
	return containsAny(normalize(text), a.greetings)
}

func (a *Analyzer) IsIrrelevant(text string) bool {
	return containsAny(normalize(text), a.irrelevant)
}
