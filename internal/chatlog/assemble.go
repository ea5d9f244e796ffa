package chatlog

import (
	"errors"
	"strings"
)

// ErrEmptyExport is returned when the uploaded file contains no usable lines.
var ErrEmptyExport = errors.New("chat export is empty or invalid")

// Assemble folds the line stream into finalized messages. A matched header
// finalizes the in-progress message and opens a new one; unmatched lines are
// appended to the in-progress body (multi-line messages) or dropped when no
// message is open yet. A nil matcher retains everything.
func Assemble(lines []string, d Dialect, ignore Matcher) []Message {
	msgs := make([]Message, 0, len(lines))
	var cur *Message

	flush := func() {
		if cur == nil {
			return
		}
		if strings.TrimSpace(cur.Body) != "" && (ignore == nil || !ignore.Match(cur.Body)) {
			msgs = append(msgs, *cur)
		}
		cur = nil
	}

	for _, ln := range lines {
		if m, ok := ParseLine(ln, d); ok {
			flush()
			cur = &m
			continue
		}
		if cur != nil {
			cur.Body += "\n" + strings.TrimSpace(stripMarks(ln))
		}
		// Unmatched lines before the first message are stray system output.
	}
	flush()

	return msgs
}

// Parse is the single-shot entry point: split, detect, assemble.
func Parse(content string, ignore Matcher) ([]Message, Dialect, error) {
	lines := SplitLines(content)
	if len(lines) == 0 {
		return nil, "", ErrEmptyExport
	}
	d := DetectDialect(lines)
	return Assemble(lines, d, ignore), d, nil
}
