package orchestrator

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gyarumi/internal/domain"
	"gyarumi/internal/intent"
	"gyarumi/internal/mood"
)

const (
	activityDateLayout   = "2006-01-02"
	activityRetention    = 14
	activityMaxRunes     = 120
	photoContextMaxRunes = 200
)

type sideMemoryUpdate struct {
	Now        time.Time
	Message    string
	Flags      domain.IntentFlags
	Results    []domain.SearchResult
	Reply      string
	ReplyFresh bool
	Image      *domain.ImageAttachment
}

// updateSideMemory records what the persona said or showed this turn so
// later turns stay consistent. Daily activities are write-once per date.
func updateSideMemory(side domain.SideMemory, u sideMemoryUpdate) domain.SideMemory {
	out := side
	if u.Flags.AskingPlace && len(u.Results) > 0 {
		out.LastMentionedPlace = strings.TrimSpace(u.Results[0].Title)
	}

	if u.Flags.AskingDailyLife && u.ReplyFresh {
		key := activityDate(u.Now, u.Flags.TimeReference)
		if out.DailyActivities == nil {
			out.DailyActivities = make(map[string]string, 1)
		}
		if _, ok := out.DailyActivities[key]; !ok {
			out.DailyActivities[key] = truncateRunes(u.Reply, activityMaxRunes)
		}
	}
	pruneActivities(out.DailyActivities, u.Now)

	if u.Image != nil {
		ctx := u.Message
		if ctx == "" {
			ctx = "自撮り"
		}
		out.LastPhotoContext = truncateRunes(ctx, photoContextMaxRunes)
	}
	return out
}

// activityDate maps a time reference to the JST calendar date it points at.
func activityDate(now time.Time, ref string) string {
	local := mood.LocalTime(now)
	switch ref {
	case intent.TimeYesterday:
		local = local.AddDate(0, 0, -1)
	case intent.TimeDayBeforeYesterday:
		local = local.AddDate(0, 0, -2)
	case intent.TimeWeekend:
		// most recent Saturday, today included
		local = local.AddDate(0, 0, -((int(local.Weekday()) + 1) % 7))
	case intent.TimeLastWeek:
		local = local.AddDate(0, 0, -7)
	}
	return local.Format(activityDateLayout)
}

func pruneActivities(activities map[string]string, now time.Time) {
	if len(activities) == 0 {
		return
	}
	cutoff := mood.LocalTime(now).AddDate(0, 0, -activityRetention).Format(activityDateLayout)
	for key := range activities {
		if _, err := time.Parse(activityDateLayout, key); err != nil || key < cutoff {
			delete(activities, key)
		}
	}
}

func sideMemoryContext(side domain.SideMemory, flags domain.IntentFlags, now time.Time) string {
	var sb strings.Builder
	if flags.AskingPlace && side.LastMentionedPlace != "" {
		sb.WriteString(fmt.Sprintf("- 前に話題に出たお店・場所: %s\n", side.LastMentionedPlace))
	}
	if flags.AskingDailyLife {
		key := activityDate(now, flags.TimeReference)
		if act, ok := side.DailyActivities[key]; ok {
			sb.WriteString(fmt.Sprintf("- %s のあなたの過ごし方（前に話した内容と矛盾させない）: %s\n", key, act))
		}
	}
	if flags.AskingAboutPhoto {
		if side.LastPhotoContext != "" {
			sb.WriteString(fmt.Sprintf("- 前に送った写真: %s\n", side.LastPhotoContext))
		} else {
			sb.WriteString("- まだ写真は送っていない\n")
		}
	}
	return sb.String()
}

func truncateRunes(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "…"
}
