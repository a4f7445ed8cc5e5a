package intent

import (
	"strings"

	"gyarumi/internal/domain"
)

const (
	TimeRightNow           = "right_now"
	TimeToday              = "today"
	TimeYesterday          = "yesterday"
	TimeDayBeforeYesterday = "day_before_yesterday"
	TimeWeekend            = "weekend"
	TimeLastWeek           = "last_week"
)

var timeReplacer = strings.NewReplacer(timeRewrites...)

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func matchAny(text string, keywords []string) bool {
	t := normalize(text)
	if t == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func IsGenericQuery(text string) bool {
	return matchAny(text, genericQueryKeywords)
}

func NeedsRealtimeSearch(text string) bool {
	return matchAny(text, realtimeKeywords)
}

func IsGalFriendlyTopic(text string) bool {
	return matchAny(text, galTopicKeywords)
}

func IsAskingAboutDailyLife(text string) bool {
	return matchAny(text, dailyLifeKeywords)
}

func IsAskingAboutPlace(text string) bool {
	return matchAny(text, placeKeywords)
}

func IsAskingAboutLimitedTime(text string) bool {
	return matchAny(text, limitedTimeKeywords)
}

// IsAskingAboutPhoto detects follow-ups on a photo the persona sent earlier.
func IsAskingAboutPhoto(text string) bool {
	return matchAny(text, photoFollowUpKeywords)
}

func IsRequestingPhoto(text string) bool {
	return matchAny(text, photoRequestKeywords)
}

// ExtractTimeReference returns the highest-priority time group mentioned in
// the message, defaulting to today.
func ExtractTimeReference(text string) string {
	t := timeReplacer.Replace(normalize(text))
	for _, g := range timeGroups {
		for _, k := range g.keywords {
			if strings.Contains(t, k) {
				return g.ref
			}
		}
	}
	return TimeToday
}

// ExtractBrandName returns the canonical brand for the first alias, in table
// order, found in the message. Empty means no brand.
func ExtractBrandName(text string) string {
	t := normalize(text)
	if t == "" {
		return ""
	}
	for _, b := range brandAliases {
		if strings.Contains(t, b.alias) {
			return b.brand
		}
	}
	return ""
}

func Classify(text string) domain.IntentFlags {
	return domain.IntentFlags{
		GenericQuery:      IsGenericQuery(text),
		NeedsRealtime:     NeedsRealtimeSearch(text),
		GalFriendlyTopic:  IsGalFriendlyTopic(text),
		AskingDailyLife:   IsAskingAboutDailyLife(text),
		AskingPlace:       IsAskingAboutPlace(text),
		AskingLimitedTime: IsAskingAboutLimitedTime(text),
		AskingAboutPhoto:  IsAskingAboutPhoto(text),
		RequestingPhoto:   IsRequestingPhoto(text),
		TimeReference:     ExtractTimeReference(text),
		Brand:             ExtractBrandName(text),
	}
}
