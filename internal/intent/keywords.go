package intent

// All keywords are matched against the lower-cased message, so latin
// entries must be lower case.

var genericQueryKeywords = []string{
	"とは", "意味", "教えて", "調べて", "やり方", "方法", "説明して", "どうやって", "計算", "翻訳",
	"what is", "how to", "explain",
}

var realtimeKeywords = []string{
	"天気", "ニュース", "最新", "速報", "株価", "為替", "営業時間", "混んでる", "混雑", "今やってる", "トレンド",
	"weather", "news", "latest",
}

var galTopicKeywords = []string{
	"まじ", "最高", "やばい", "ヤバい", "エモい", "かわいい", "可愛い", "映え", "ビジュ",
	"コスメ", "メイク", "ネイル", "カラコン", "ヘアアレンジ", "コーデ", "服", "ファッション",
	"プリ", "インスタ", "tiktok", "ティックトック", "推し", "韓国", "k-pop", "恋バナ", "彼氏",
	"カフェ", "スイーツ", "タピオカ", "渋谷", "原宿", "新作", "限定",
}

var dailyLifeKeywords = []string{
	"何してる", "なにしてる", "何してた", "なにしてた", "何した", "なにした", "どうだった",
	"最近どう", "休みの日", "週末何", "週末なに", "一日どう",
}

var placeKeywords = []string{
	"どこ", "場所", "お店", "店", "スポット", "近く", "行きたい", "連れてって", "おすすめのカフェ",
}

var limitedTimeKeywords = []string{
	"期間限定", "季節限定", "限定", "新作", "今だけ", "コラボ", "発売", "セール",
}

var photoFollowUpKeywords = []string{
	"その写真", "さっきの写真", "この写真", "写真の", "画像の", "写ってる", "どこで撮", "誰と撮", "それどこ",
}

var photoRequestKeywords = []string{
	"写真送って", "写真見せて", "写真ちょうだい", "画像送って", "自撮り", "セルフィー", "写メ", "selfie",
}

type timeGroup struct {
	ref      string
	keywords []string
}

// Ordered by priority; the first group with a hit wins.
var timeGroups = []timeGroup{
	{ref: TimeRightNow, keywords: []string{"今何", "今なに", "いま何", "いまなに", "今どこ", "いまどこ", "今してる", "現在", "right now"}},
	{ref: TimeToday, keywords: []string{"今日", "きょう", "today"}},
	{ref: TimeYesterday, keywords: []string{"昨日", "きのう", "yesterday"}},
	{ref: TimeDayBeforeYesterday, keywords: []string{"おととい"}},
	{ref: TimeWeekend, keywords: []string{"週末", "土日", "土曜", "日曜", "weekend"}},
	{ref: TimeLastWeek, keywords: []string{"先週", "last week"}},
}

// Rewrites applied before time matching so that a longer phrase is not
// shadowed by a higher-priority substring of itself.
var timeRewrites = []string{
	"一昨日", "おととい",
	"day before yesterday", "おととい",
}

type brandAlias struct {
	alias string
	brand string
}

var brandAliases = []brandAlias{
	{alias: "スターバックス", brand: "スターバックス"},
	{alias: "スタバ", brand: "スターバックス"},
	{alias: "starbucks", brand: "スターバックス"},
	{alias: "マクドナルド", brand: "マクドナルド"},
	{alias: "マック", brand: "マクドナルド"},
	{alias: "マクド", brand: "マクドナルド"},
	{alias: "mcdonald", brand: "マクドナルド"},
	{alias: "ミスド", brand: "ミスタードーナツ"},
	{alias: "ミスタードーナツ", brand: "ミスタードーナツ"},
	{alias: "ゴンチャ", brand: "ゴンチャ"},
	{alias: "gong cha", brand: "ゴンチャ"},
	{alias: "セブン", brand: "セブン-イレブン"},
	{alias: "ファミマ", brand: "ファミリーマート"},
	{alias: "ファミリーマート", brand: "ファミリーマート"},
	{alias: "ローソン", brand: "ローソン"},
	{alias: "ユニクロ", brand: "ユニクロ"},
	{alias: "uniqlo", brand: "ユニクロ"},
	{alias: "無印", brand: "無印良品"},
	{alias: "スリコ", brand: "3COINS"},
	{alias: "3coins", brand: "3COINS"},
	{alias: "shein", brand: "SHEIN"},
	{alias: "シーイン", brand: "SHEIN"},
	{alias: "キャンメイク", brand: "CANMAKE"},
	{alias: "canmake", brand: "CANMAKE"},
	{alias: "ロムアンド", brand: "rom&nd"},
	{alias: "rom&nd", brand: "rom&nd"},
	{alias: "サンリオ", brand: "サンリオ"},
	{alias: "ディズニー", brand: "ディズニー"},
	{alias: "シャネル", brand: "CHANEL"},
	{alias: "chanel", brand: "CHANEL"},
	{alias: "ディオール", brand: "Dior"},
	{alias: "dior", brand: "Dior"},
}
