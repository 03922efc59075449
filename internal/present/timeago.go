package present

import (
	"fmt"
	"time"
)

// backendLayout is the zone-less timestamp layout the platform API emits.
const backendLayout = "2006-01-02T15:04:05"

// shortDateLayout renders the en-IN short date, e.g. "13 Feb". en-IN
// abbreviates September as "Sept", see shortDate.
const shortDateLayout = "2 Jan"

// TimeAgo renders ts relative to now. Thresholds use floor division on whole
// minutes, hours and days; anything a week or older becomes a short date.
func TimeAgo(ts, now time.Time) string {
	diffMin := floorDiv(now.Sub(ts).Milliseconds(), 60_000)
	diffHr := floorDiv(diffMin, 60)
	diffDay := floorDiv(diffHr, 24)

	switch {
	case diffMin < 1:
		return "just now"
	case diffMin < 60:
		return fmt.Sprintf("%dm ago", diffMin)
	case diffHr < 24:
		return fmt.Sprintf("%dh ago", diffHr)
	case diffDay < 7:
		return fmt.Sprintf("%dd ago", diffDay)
	default:
		return shortDate(ts)
	}
}

func shortDate(ts time.Time) string {
	if ts.Month() == time.September {
		return fmt.Sprintf("%d Sept", ts.Day())
	}
	return ts.Format(shortDateLayout)
}

// ParseTimestamp accepts RFC 3339 and the API's zone-less layout, which is
// read in the local zone.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(backendLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// TimeAgoString parses s and renders it relative to now. Unparseable input
// is returned as is.
func TimeAgoString(s string, now time.Time) string {
	ts, err := ParseTimestamp(s)
	if err != nil {
		return s
	}
	return TimeAgo(ts, now)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
