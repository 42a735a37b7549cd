package intake

import (
	"strings"
	"unicode"
)

// SplitDropped splits text pasted by a terminal drag and drop into paths.
// Terminals separate dropped files with spaces and either quote paths or
// escape special characters with backslashes; both forms are handled.
func SplitDropped(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		inWord  bool
	)
	flush := func() {
		if inWord {
			paths = append(paths, current.String())
			current.Reset()
			inWord = false
		}
	}

	for _, r := range strings.TrimSpace(text) {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	flush()
	return paths
}

// SourcesFromText turns pasted text into sources. The first path that cannot
// be read is reported; paths after the first are not inspected since only
// the first file of an event is used.
func SourcesFromText(text string) ([]Source, error) {
	paths := SplitDropped(text)
	if len(paths) == 0 {
		return nil, nil
	}
	first, err := FromPath(paths[0])
	if err != nil {
		return nil, err
	}
	sources := make([]Source, len(paths))
	sources[0] = first
	for i, p := range paths[1:] {
		sources[i+1] = Source{Name: p}
	}
	return sources, nil
}
