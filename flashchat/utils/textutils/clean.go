package textutils

import (
	"strings"
	"unicode"
)

const (
	// EmptyAnswer stands in when the response carries no candidate text.
	EmptyAnswer = "…"
	// FetchErrorAnswer is shown when the request or its decoding fails.
	FetchErrorAnswer = "_(Error while fetching response)_"
)

// CleanAnswer splits text on runs of newlines, trims every line, drops the
// empty ones and joins the rest with a single newline.
//
// This is lossy on purpose: blank-line paragraph breaks and code indentation
// are removed, and rendered output depends on exactly that.
func CleanAnswer(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimFunc(line, isSpace); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// isSpace matches the browser's trim set: Zs plus tab, the line
// terminators, vertical tab, form feed and the BOM. U+0085 is not included.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
