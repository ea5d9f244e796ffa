// Package contact shortens sender display names and phone numbers for
// compact chart legends.
package contact

import (
	"fmt"
	"strings"
)

// phoneDigitThreshold is the minimum digit count for a string to be treated
// as a phone number rather than a name.
const phoneDigitThreshold = 5

// Abbreviate shortens each entry and numbers duplicates deterministically.
// Output order and length match the input; the first occurrence of a short
// form is emitted as-is, later collisions get a " (N)" suffix starting at 2.
// Collisions are resolved on the abbreviated form, so distinct raw names
// that shorten identically still collide.
func Abbreviate(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]int, len(names))
	for _, name := range names {
		short := abbreviate(name)
		seen[short]++
		if n := seen[short]; n > 1 {
			short = fmt.Sprintf("%s (%d)", short, n)
		}
		out = append(out, short)
	}
	return out
}

func abbreviate(raw string) string {
	s := strings.NewReplacer("~", "", `"`, "").Replace(raw)

	if digits, plus, ok := phone(s); ok {
		if len(digits) <= 8 {
			return plus + digits
		}
		return plus + digits[:4] + "...." + digits[len(digits)-4:]
	}

	words := strings.Fields(s)
	switch len(words) {
	case 0:
		return s
	case 1:
		return words[0]
	}
	parts := make([]string, 0, len(words))
	parts = append(parts, words[0])
	for _, w := range words[1:] {
		parts = append(parts, string([]rune(w)[0])+".")
	}
	return strings.Join(parts, " ")
}

// phone strips non-digit characters and reports whether enough digits remain
// to classify s as a phone number. A leading + is preserved separately.
func phone(s string) (digits, plus string, ok bool) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "+") {
		plus = "+"
	}
	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits = b.String()
	return digits, plus, len(digits) >= phoneDigitThreshold
}
