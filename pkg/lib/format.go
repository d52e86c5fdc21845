package lib

import (
	"time"

	"github.com/slok/staffboard/internal/printer"
)

// FormatDuration renders seconds as "1h 5m" from one hour on and as "5m 3s" below it.
func FormatDuration(seconds int64) string { return printer.FormatDuration(seconds) }

// FormatClock renders milliseconds as HH:MM:SS.
func FormatClock(ms int64) string { return printer.FormatClock(ms) }

// UrgencyTier returns the urgency of an elapsed time in seconds.
func UrgencyTier(seconds int64) Urgency { return Urgency(printer.UrgencyTier(seconds)) }

// TimeAgo renders a past time relative to now, e.g. "5 minutes ago (UTC)".
func TimeAgo(t time.Time) string { return printer.TimeAgo(t) }
