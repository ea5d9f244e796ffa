// Package ignore supplies the locale-specific system-notice patterns used to
// drop non-user messages from parsed exports.
package ignore

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no ignore list exists for a language and
// dialect family. Parsing cannot proceed without one.
var ErrNotFound = errors.New("ignore list not found")

//go:embed resources
var resources embed.FS

// List holds case-insensitive substring patterns for system notices.
type List struct {
	patterns []string
}

// ParseList builds a List from newline-delimited text. Blank lines are skipped.
func ParseList(text string) *List {
	var patterns []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.ToLower(strings.TrimSpace(ln))
		if ln != "" {
			patterns = append(patterns, ln)
		}
	}
	return &List{patterns: patterns}
}

// Match reports whether body contains any pattern, case-insensitively.
func (l *List) Match(body string) bool {
	b := strings.ToLower(body)
	for _, p := range l.patterns {
		if strings.Contains(b, p) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (l *List) Len() int { return len(l.patterns) }

// Loader resolves the ignore list for a language and dialect family.
type Loader interface {
	Load(language, family string) (*List, error)
}

// EmbeddedLoader serves the lists compiled into the binary.
type EmbeddedLoader struct{}

// Load reads resources/<language>_<family>.txt from the embedded set.
func (EmbeddedLoader) Load(language, family string) (*List, error) {
	name := fmt.Sprintf("resources/%s_%s.txt", language, family)
	data, err := resources.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, language, family)
	}
	return ParseList(string(data)), nil
}

// DirLoader reads lists from a directory on disk, letting users override the
// embedded defaults per workspace.
type DirLoader struct {
	Dir string
}

// Load reads <dir>/<language>_<family>.txt.
func (d DirLoader) Load(language, family string) (*List, error) {
	path := filepath.Join(d.Dir, fmt.Sprintf("%s_%s.txt", language, family))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return ParseList(string(data)), nil
}

// Fallthrough tries each loader in order, returning the first hit.
type Fallthrough []Loader

// Load returns the first list any loader resolves.
func (f Fallthrough) Load(language, family string) (*List, error) {
	for _, l := range f {
		list, err := l.Load(language, family)
		if err == nil {
			return list, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, language, family)
}
