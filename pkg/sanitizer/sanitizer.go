package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reWhitespaceRuns = regexp.MustCompile(`[ \t]+`)
	reControlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	reBlankLines     = regexp.MustCompile(`\n{3,}`)
	reNonLetters     = regexp.MustCompile(`[^\p{L} \-']+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return reWhitespaceRuns.ReplaceAllString(s, " ")
}
