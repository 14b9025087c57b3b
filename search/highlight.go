package search

import (
	"regexp"
	"strings"
)

// Span is one piece of text annotated with whether it matched the query.
// A full Highlight result concatenates back to the original text.
type Span struct {
	Text  string
	Match bool
}

// Highlight splits text into spans around the given tokens, case-insensitively.
// Regexp metacharacters in tokens are quoted, so literal punctuation in a
// query cannot be misread as a pattern. Empty tokens are ignored; with no
// usable tokens the whole text comes back as a single non-match span.
func Highlight(text string, tokens []string) []Span {
	var quoted []string
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(tok))
	}
	if len(quoted) == 0 || text == "" {
		return []Span{{Text: text}}
	}

	re, err := regexp.Compile("(?i)" + strings.Join(quoted, "|"))
	if err != nil {
		return []Span{{Text: text}}
	}

	var spans []Span
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	if len(spans) == 0 {
		return []Span{{Text: text}}
	}
	return spans
}
