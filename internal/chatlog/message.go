// Package chatlog parses exported WhatsApp chat logs into structured messages.
package chatlog

import (
	"strings"
	"time"
)

// Message is one logical chat message, reassembled from one or more
// physical lines of the export.
type Message struct {
	// SentAt is the local date and time from the export header. The export
	// carries no zone information, so no conversion is ever applied.
	SentAt time.Time `json:"date"`
	// Time is the time of day as written in the export, normalized to HH:MM:SS.
	Time   string `json:"time"`
	Sender string `json:"sender"`
	Body   string `json:"message"`
}

// Matcher reports whether a message body is an ignorable system notice.
type Matcher interface {
	Match(body string) bool
}

// SplitLines splits raw export text into trimmed, non-empty lines.
func SplitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(strings.TrimSuffix(ln, "\r"))
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// stripMarks removes directional and invisible Unicode controls that WhatsApp
// inserts around phone numbers and timestamps.
func stripMarks(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200E', '\u200F', // LRM, RLM
			'\u202A', '\u202B', '\u202C', '\u202D', '\u202E', // embedding/override
			'\u2066', '\u2067', '\u2068', '\u2069', // isolates
			'\uFEFF': // BOM
			return -1
		}
		return r
	}, s)
}
