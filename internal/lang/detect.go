// Package lang identifies the language of a chat export so the matching
// ignore-list resource can be selected.
package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Fallback is used when detection is inconclusive or maps to an
// unsupported language.
const Fallback = "en"

// supported maps ISO 639-3 codes to the dashboard's two-letter codes.
var supported = map[string]string{
	"eng": "en",
	"deu": "de",
	"spa": "es",
	"fra": "fr",
}

// Supported reports whether code is one of the dashboard languages.
func Supported(code string) bool {
	for _, c := range supported {
		if c == code {
			return true
		}
	}
	return false
}

// Detect identifies the language of sample and returns its two-letter code.
// Short or ambiguous samples (emoji-only chats) fall back rather than error.
func Detect(sample, fallback string) string {
	if !Supported(fallback) {
		fallback = Fallback
	}
	if strings.TrimSpace(sample) == "" {
		return fallback
	}
	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return fallback
	}
	code, ok := supported[whatlanggo.LangToString(info.Lang)]
	if !ok {
		return fallback
	}
	return code
}
