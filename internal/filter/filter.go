package filter

import (
	"time"

	"github.com/matheus3301/chatlens/internal/chatlog"
)

// Options carries the user-selected view criteria. The core does not own
// these; callers pass them in and receive them back with recomputed
// sender statuses.
type Options struct {
	StartDate       *time.Time        `json:"startDate,omitempty"`
	EndDate         *time.Time        `json:"endDate,omitempty"`
	Weekdays        []string          `json:"selectedWeekdays"`
	MinSharePercent float64           `json:"minSharePercent"`
	SenderStatuses  map[string]Status `json:"senderStatuses"`
}

// weekdayLabels indexed by time.Weekday, Sunday through Saturday.
var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayLabel returns the fixed three-letter label for t's weekday.
func WeekdayLabel(t time.Time) string {
	return weekdayLabels[int(t.Weekday())]
}

// AllWeekdays returns the full label set in Sunday-first order.
func AllWeekdays() []string {
	out := make([]string, len(weekdayLabels))
	copy(out, weekdayLabels[:])
	return out
}

// Apply returns the ordered subsequence of msgs passing the temporal and
// sender-status criteria. Inputs are never mutated and order is preserved.
func Apply(msgs []chatlog.Message, opts Options) []chatlog.Message {
	days := make(map[string]bool, len(opts.Weekdays))
	for _, d := range opts.Weekdays {
		days[d] = true
	}

	out := make([]chatlog.Message, 0, len(msgs))
	for _, m := range msgs {
		d := dateOnly(m.SentAt)
		if opts.StartDate != nil && d.Before(dateOnly(*opts.StartDate)) {
			continue
		}
		if opts.EndDate != nil && d.After(dateOnly(*opts.EndDate)) {
			continue
		}
		if !days[WeekdayLabel(m.SentAt)] {
			continue
		}
		if opts.SenderStatuses[m.Sender] != StatusActive {
			continue
		}
		out = append(out, m)
	}
	return out
}

// dateOnly truncates t to its calendar date; bounds are date-granular and
// inclusive on both ends.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
