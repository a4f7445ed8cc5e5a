package search

import (
	"fmt"
	"strings"
	"time"

	"gyarumi/internal/domain"
	"gyarumi/internal/mood"
)

// BuildQuery derives a web query from the message. It returns "" when the
// message needs no lookup.
func BuildQuery(message string, flags domain.IntentFlags, now time.Time) string {
	msg := strings.TrimSpace(message)
	switch {
	case flags.AskingLimitedTime:
		local := mood.LocalTime(now)
		subject := flags.Brand
		if subject == "" {
			subject = msg
		}
		return fmt.Sprintf("%s 期間限定 新作 %d年%d月", subject, local.Year(), int(local.Month()))
	case flags.AskingPlace:
		if flags.Brand != "" && !strings.Contains(msg, flags.Brand) {
			return flags.Brand + " " + msg
		}
		return msg
	case flags.NeedsRealtime:
		return msg
	default:
		return ""
	}
}
