package present

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// maxDays is the largest day count a time.Duration can hold.
const maxDays = int(math.MaxInt64 / int64(day))

// ParseWhen reads a reminder time: an RFC 3339 timestamp, a Go duration
// ("90m", "2h30m") or a number of days ("3d"), relative to now. Relative
// values must be positive.
func ParseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339, a duration or Nd", s)
		}
		if n > maxDays {
			return time.Time{}, fmt.Errorf("invalid time %q: at most %dd", s, maxDays)
		}
		d = time.Duration(n) * day
	} else {
		var err error
		d, err = time.ParseDuration(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339, a duration or Nd", s)
		}
	}
	if d <= 0 {
		return time.Time{}, fmt.Errorf("invalid time %q: must be in the future", s)
	}
	return now.Add(d), nil
}

// ISO formats t the way the API expects timestamps.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
