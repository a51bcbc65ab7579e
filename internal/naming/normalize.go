package naming

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Nomadcxx/fixnums/internal/config"
)

// Strip lowercases s, removes every strip token and turns the usual filename
// separators into single spaces. Tokens are matched against the lowercased
// text, so they must be lowercase themselves.
func Strip(s string, tokens []string) string {
	s = strings.ToLower(s)
	for _, t := range tokens {
		if t == "" {
			continue
		}
		s = strings.ReplaceAll(s, t, "")
	}

	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, ", ", " ")
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, " - ", " ")
	s = strings.ReplaceAll(s, "-", " ")

	return strings.TrimSpace(s)
}

// Capitalize joins the whitespace separated words of s with delim. With
// camelCase the first rune of every word is upper cased and the rest lower
// cased, so "2nd" stays "2nd" and "(us)" stays "(us)".
func Capitalize(s, delim string, camelCase bool) string {
	words := strings.Fields(s)
	if camelCase {
		upper := cases.Upper(language.Und)
		lower := cases.Lower(language.Und)
		for i, w := range words {
			_, size := utf8.DecodeRuneInString(w)
			words[i] = upper.String(w[:size]) + lower.String(w[size:])
		}
	}
	return strings.Join(words, delim)
}

// Normalize is Strip followed by Capitalize using the run configuration.
func Normalize(s string, cfg config.Config) string {
	return Capitalize(Strip(s, cfg.StripTokens), cfg.Delimiter, cfg.CamelCase)
}
