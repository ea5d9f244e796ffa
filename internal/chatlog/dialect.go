package chatlog

import "regexp"

// Dialect identifies one recognized chat-export line format.
type Dialect string

const (
	// DialectIOS is the bracketed iOS format: [DD.MM.YY, HH:MM:SS] Sender: Message
	DialectIOS Dialect = "ios"
	// DialectIOSAlt is the iOS variant without a comma after the date.
	DialectIOSAlt Dialect = "ios2"
	// DialectAndroid is the dash-separated Android format: DD.MM.YY, HH:MM - Sender: Message
	DialectAndroid Dialect = "android"
	// DialectLegacy is the older slash-dated format: DD/MM/YY, HH:MM - Sender: Message
	DialectLegacy Dialect = "legacy"
)

// Family groups dialects by platform for ignore-list resource lookup.
func (d Dialect) Family() string {
	switch d {
	case DialectIOS, DialectIOSAlt:
		return "ios"
	default:
		return "android"
	}
}

// detectSample bounds how many lines the detector inspects.
const detectSample = 100

// dialectOrder is the tie-break priority: iOS variants win over Android.
var dialectOrder = []Dialect{DialectIOS, DialectIOSAlt, DialectAndroid, DialectLegacy}

var lineStart = map[Dialect]*regexp.Regexp{
	DialectIOS:     regexp.MustCompile(`^\[\d{2}\.\d{2}\.\d{2}, \d{2}:\d{2}(:\d{2})?\] `),
	DialectIOSAlt:  regexp.MustCompile(`^\[\d{2}\.\d{2}\.\d{2} \d{2}:\d{2}(:\d{2})?\] `),
	DialectAndroid: regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}, \d{2}:\d{2}(:\d{2})? - `),
	DialectLegacy:  regexp.MustCompile(`^\d{2}/\d{2}/\d{2}, \d{2}:\d{2}(:\d{2})? - `),
}

// DetectDialect classifies the export by counting line-start matches per
// dialect over at most the first 100 lines. Ties resolve in priority order.
// Zero matches still yields the default (iOS); downstream parsing then
// degrades per line instead of failing up front.
func DetectDialect(lines []string) Dialect {
	sample := lines
	if len(sample) > detectSample {
		sample = sample[:detectSample]
	}

	counts := make(map[Dialect]int, len(lineStart))
	for _, ln := range sample {
		ln = stripMarks(ln)
		for d, re := range lineStart {
			if re.MatchString(ln) {
				counts[d]++
			}
		}
	}

	best := dialectOrder[0]
	for _, d := range dialectOrder[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
