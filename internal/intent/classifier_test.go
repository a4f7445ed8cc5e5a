package intent

import "testing"

func TestExtractTimeReference(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "今何してる？", want: TimeRightNow},
		{text: "昨日なにしてた", want: TimeYesterday},
		{text: "今日どうだった？", want: TimeToday},
		{text: "一昨日どこ行ったの", want: TimeDayBeforeYesterday},
		{text: "おとといのやつ", want: TimeDayBeforeYesterday},
		{text: "週末なにするの", want: TimeWeekend},
		{text: "先週の話なんだけど", want: TimeLastWeek},
		{text: "What did you do the day before yesterday", want: TimeDayBeforeYesterday},
		{text: "ねえねえ", want: TimeToday},
		{text: "", want: TimeToday},
	}
	for _, tt := range tests {
		if got := ExtractTimeReference(tt.text); got != tt.want {
			t.Fatalf("ExtractTimeReference(%q)=%q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractTimeReferencePriority(t *testing.T) {
	// right_now outranks today even when both appear.
	if got := ExtractTimeReference("今日さ、今何してる？"); got != TimeRightNow {
		t.Fatalf("got %q, want %q", got, TimeRightNow)
	}
	if got := ExtractTimeReference("昨日と先週"); got != TimeYesterday {
		t.Fatalf("got %q, want %q", got, TimeYesterday)
	}
}

func TestExtractBrandName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "スタバの新作飲んだ？", want: "スターバックス"},
		{text: "Starbucks行きたい", want: "スターバックス"},
		{text: "マクドナルドでいいよ", want: "マクドナルド"},
		{text: "UNIQLOのコーデ", want: "ユニクロ"},
		{text: "コンビニ寄る", want: ""},
	}
	for _, tt := range tests {
		if got := ExtractBrandName(tt.text); got != tt.want {
			t.Fatalf("ExtractBrandName(%q)=%q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		text string
		want bool
	}{
		{name: "gal topic", fn: IsGalFriendlyTopic, text: "まじ最高", want: true},
		{name: "gal topic miss", fn: IsGalFriendlyTopic, text: "明日は雨らしい", want: false},
		{name: "gal topic latin", fn: IsGalFriendlyTopic, text: "TikTok見た？", want: true},
		{name: "generic", fn: IsGenericQuery, text: "円周率とは何か教えて", want: true},
		{name: "realtime", fn: NeedsRealtimeSearch, text: "明日の天気わかる？", want: true},
		{name: "daily life", fn: IsAskingAboutDailyLife, text: "昨日なにしてた", want: true},
		{name: "place", fn: IsAskingAboutPlace, text: "渋谷でどこ行けばいい？", want: true},
		{name: "limited", fn: IsAskingAboutLimitedTime, text: "期間限定のフラペ", want: true},
		{name: "photo follow-up", fn: IsAskingAboutPhoto, text: "さっきの写真どこで撮ったの？", want: true},
		{name: "photo request", fn: IsRequestingPhoto, text: "自撮り送ってよ", want: true},
		{name: "empty", fn: IsGalFriendlyTopic, text: "", want: false},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.text); got != tt.want {
			t.Fatalf("%s: got %v, want %v for %q", tt.name, got, tt.want, tt.text)
		}
	}
}

func TestClassify(t *testing.T) {
	flags := Classify("スタバの期間限定、今日どこで買える？")
	if !flags.AskingLimitedTime || !flags.AskingPlace {
		t.Fatalf("expected limited-time and place flags, got %+v", flags)
	}
	if flags.Brand != "スターバックス" {
		t.Fatalf("brand=%q, want スターバックス", flags.Brand)
	}
	if flags.TimeReference != TimeToday {
		t.Fatalf("time reference=%q, want today", flags.TimeReference)
	}
	if flags.RequestingPhoto {
		t.Fatalf("unexpected photo request flag")
	}
}
