package chatlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// header regexes capture day, month, year, hour, minute, optional second,
// and the remainder (sender plus body).
var header = map[Dialect]*regexp.Regexp{
	DialectIOS:     regexp.MustCompile(`^\[(\d{2})\.(\d{2})\.(\d{2}), (\d{2}):(\d{2})(?::(\d{2}))?\] (.+)$`),
	DialectIOSAlt:  regexp.MustCompile(`^\[(\d{2})\.(\d{2})\.(\d{2}) (\d{2}):(\d{2})(?::(\d{2}))?\] (.+)$`),
	DialectAndroid: regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2}), (\d{2}):(\d{2})(?::(\d{2}))? - (.+)$`),
	DialectLegacy:  regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{2}), (\d{2}):(\d{2})(?::(\d{2}))? - (.+)$`),
}

// ParseLine parses one physical line against the dialect's header shape.
// The second return value is false for continuation lines, system lines
// without a sender separator, and headers with impossible dates; those
// degrade to assembler handling, never to an error.
func ParseLine(line string, d Dialect) (Message, bool) {
	line = stripMarks(line)
	m := header[d].FindStringSubmatch(line)
	if m == nil {
		return Message{}, false
	}

	// Sender and body split on the first ": " only; bodies may legitimately
	// contain further colons.
	sender, body, ok := strings.Cut(m[7], ": ")
	if !ok || sender == "" {
		return Message{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	yy, _ := strconv.Atoi(m[3])
	year := 2000 + yy
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}

	if hour > 23 || minute > 59 || second > 59 {
		return Message{}, false
	}
	sentAt := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	// time.Date normalizes out-of-range components (32.01 becomes 01.02);
	// reject any header whose fields do not round-trip.
	if sentAt.Year() != year || sentAt.Month() != time.Month(month) || sentAt.Day() != day {
		return Message{}, false
	}

	return Message{
		SentAt: sentAt,
		Time:   fmt.Sprintf("%02d:%02d:%02d", hour, minute, second),
		Sender: sender,
		Body:   body,
	}, true
}
