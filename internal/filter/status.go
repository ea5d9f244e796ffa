// Package filter derives the filtered message view and per-sender
// eligibility from user-selected criteria.
package filter

import "github.com/matheus3301/chatlens/internal/chatlog"

// Status is a sender's eligibility for the filtered view.
type Status string

const (
	// StatusActive senders appear in the filtered view.
	StatusActive Status = "ACTIVE"
	// StatusLocked senders fall below the minimum share and cannot be enabled.
	StatusLocked Status = "LOCKED"
	// StatusManualInactive senders are eligible but deactivated by the user.
	StatusManualInactive Status = "MANUAL_INACTIVE"
)

// ComputeSenderStatuses derives each sender's status from its share of the
// message count. A sender strictly below minPercentage is locked regardless
// of prior manual state; a sender at or above it keeps a prior manual
// deactivation unless resetManual is set. The boundary is strict: a sender
// at exactly minPercentage stays eligible.
func ComputeSenderStatuses(msgs []chatlog.Message, minPercentage float64, previous map[string]Status, resetManual bool) map[string]Status {
	counts := make(map[string]int)
	for _, m := range msgs {
		counts[m.Sender]++
	}

	total := len(msgs)
	statuses := make(map[string]Status, len(counts))
	for sender, n := range counts {
		share := float64(n) * 100 / float64(total)
		switch {
		case share < minPercentage:
			statuses[sender] = StatusLocked
		case !resetManual && previous[sender] == StatusManualInactive:
			statuses[sender] = StatusManualInactive
		default:
			statuses[sender] = StatusActive
		}
	}
	return statuses
}
