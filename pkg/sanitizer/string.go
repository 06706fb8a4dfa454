package sanitizer

import "strings"

// SanitizeName normalizes display names and listing titles: control
// characters out, whitespace collapsed.
func SanitizeName(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

// SanitizeCity keeps letters, spaces, hyphens and apostrophes only.
func SanitizeCity(input string) string {
	p := Pipeline{
		stripControl,
		func(s string) string { return reNonLetters.ReplaceAllString(s, "") },
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

// SanitizeFreeText cleans multi-line user text (booking messages,
// review comments, chat bodies) without flattening line breaks.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		func(s string) string { return strings.ReplaceAll(s, "\r\n", "\n") },
		stripControl,
		collapseSpaces,
		func(s string) string { return reBlankLines.ReplaceAllString(s, "\n\n") },
		trim,
	}
	return p.Apply(input)
}
