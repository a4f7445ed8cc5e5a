package mood

import (
	"math"
	"strings"
	"time"
)

// JST is a fixed UTC+9 zone. No tz database lookup, no DST.
var JST = time.FixedZone("JST", 9*60*60)

func LocalTime(now time.Time) time.Time {
	return now.In(JST)
}

func isWeekday(local time.Time) bool {
	wd := local.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

func clampSigned(v float64) float64 {
	return clamp(v, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func parseOptionalTime(raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
