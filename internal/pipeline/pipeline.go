// Package pipeline orchestrates the parse and filter computations and runs
// them on background workers so callers never block on large exports.
package pipeline

import (
	"github.com/matheus3301/chatlens/internal/chatlog"
	"github.com/matheus3301/chatlens/internal/filter"
	"github.com/matheus3301/chatlens/internal/ignore"
	"github.com/matheus3301/chatlens/internal/lang"
	"github.com/matheus3301/chatlens/internal/meta"
)

// ParseResult is the complete output of one parse request.
type ParseResult struct {
	Messages []chatlog.Message `json:"messages"`
	Metadata meta.Metadata     `json:"metadata"`
}

// FilterResult carries the filtered view plus the filter options with
// recomputed sender statuses, for the caller to hold as its new state.
type FilterResult struct {
	Messages   []chatlog.Message `json:"filteredMessages"`
	NewFilters filter.Options    `json:"newFilters"`
}

// ParseExport runs the full parse pipeline synchronously: split, detect
// dialect, detect language, load the matching ignore list, assemble, and
// extract metadata. A missing ignore list is a hard error; the strict
// variant does not parse without one.
func ParseExport(content, fileName, fallbackLang string, loader ignore.Loader) (*ParseResult, error) {
	lines := chatlog.SplitLines(content)
	if len(lines) == 0 {
		return nil, chatlog.ErrEmptyExport
	}

	dialect := chatlog.DetectDialect(lines)
	language := lang.Detect(languageSample(lines, dialect), fallbackLang)

	list, err := loader.Load(language, dialect.Family())
	if err != nil {
		return nil, err
	}

	msgs := chatlog.Assemble(lines, dialect, list)
	md := meta.Extract(msgs, fileName, language, dialect)
	return &ParseResult{Messages: msgs, Metadata: md}, nil
}

// FilterMessages recomputes sender statuses and applies the filter in one
// step. Manual deactivations are reset when the minimum share changed since
// the last applied filter, since the statuses they were based on no longer
// hold.
func FilterMessages(msgs []chatlog.Message, filters filter.Options, lastAppliedMinShare float64) FilterResult {
	resetManual := filters.MinSharePercent != lastAppliedMinShare
	statuses := filter.ComputeSenderStatuses(msgs, filters.MinSharePercent, filters.SenderStatuses, resetManual)

	newFilters := filters
	newFilters.SenderStatuses = statuses
	return FilterResult{
		Messages:   filter.Apply(msgs, newFilters),
		NewFilters: newFilters,
	}
}

// languageSample parses the first matching lines into messages and hands
// them to meta.LanguageSample. Detection runs before assembly because the
// ignore list, which assembly needs, is keyed by language.
func languageSample(lines []string, d chatlog.Dialect) string {
	var msgs []chatlog.Message
	for _, ln := range lines {
		if len(msgs) >= meta.SampleBodies {
			break
		}
		if m, ok := chatlog.ParseLine(ln, d); ok {
			msgs = append(msgs, m)
		}
	}
	return meta.LanguageSample(msgs)
}
