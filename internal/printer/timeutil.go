package printer

import (
	"fmt"
	"time"

	"github.com/slok/staffboard/internal/model"
)

const (
	urgencyMediumSeconds   = 30 * 60
	urgencyHighSeconds     = 90 * 60
	urgencyCriticalSeconds = 180 * 60
)

// FormatDuration returns a compact duration from seconds.
// Examples: "0m 5s", "59m 59s", "1h 0m", "26h 3m".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	if seconds >= 3600 {
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}

	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// FormatClock returns a stopwatch style string from milliseconds.
// Format: "HH:MM:SS", hours grow past two digits when needed.
func FormatClock(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	s := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// UrgencyTier returns the urgency of an elapsed duration in seconds.
// Each threshold belongs to the upper tier: 1799 is low, 1800 is medium.
func UrgencyTier(seconds int64) model.Urgency {
	switch {
	case seconds < urgencyMediumSeconds:
		return model.UrgencyLow
	case seconds < urgencyHighSeconds:
		return model.UrgencyMedium
	case seconds < urgencyCriticalSeconds:
		return model.UrgencyHigh
	default:
		return model.UrgencyCritical
	}
}

// TimeAgo returns a human-readable relative time string in UTC.
// Examples: "5 seconds ago (UTC)", "2 minutes ago (UTC)", "3 hours ago (UTC)".
func TimeAgo(t time.Time) string {
	return timeAgo(t, time.Now())
}

func timeAgo(t, now time.Time) string {
	diff := now.UTC().Sub(t.UTC())
	if diff < 0 {
		return "in the future (UTC)"
	}

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago (UTC)", unit)
		}
		return fmt.Sprintf("%d %ss ago (UTC)", n, unit)
	}

	switch {
	case diff < time.Minute:
		return plural(int(diff.Seconds()), "second")
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	}

	return plural(int(diff.Hours()/24), "day")
}

// FormatTimestamp returns a formatted timestamp string in UTC.
// Format: "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
