package notes

import (
	"strings"
)

const noItems = "No items found."

// Notes holds the matched sentences of each category in document order.
type Notes struct {
	Items map[Category][]string
}

// Get returns the sentences filed under c.
func (n Notes) Get(c Category) []string {
	return n.Items[c]
}

// Empty reports whether no sentence matched any category.
func (n Notes) Empty() bool {
	for _, c := range Categories {
		if len(n.Items[c]) > 0 {
			return false
		}
	}
	return true
}

type implExtractor struct {
	segmenter Segmenter
}

// New creates an Extractor on top of the given sentence segmenter
func New(segmenter Segmenter) Extractor {
	return &implExtractor{segmenter: segmenter}
}

// Extract files every sentence under each category it matches. Categories are
// independent, so one sentence can appear in several of them.
func (e *implExtractor) Extract(text string) Notes {
	n := Notes{Items: make(map[Category][]string, len(Categories))}

	for _, sent := range e.segmenter.Sentences(text) {
		lower := strings.ToLower(sent)
		for _, c := range Categories {
			if c.Matches(lower) {
				n.Items[c] = append(n.Items[c], sent)
			}
		}
	}

	return n
}

func (e *implExtractor) Summarize(text string) string {
	return Render(e.Extract(text))
}

// Render formats notes as four labelled sections in fixed order.
func Render(n Notes) string {
	var b strings.Builder

	for i, c := range Categories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.String())
		b.WriteString(":\n")
		b.WriteString(formatItems(n.Get(c)))
		b.WriteString("\n")
	}

	return b.String()
}

func formatItems(items []string) string {
	if len(items) == 0 {
		return noItems
	}

	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = "- " + strings.TrimSpace(s)
	}
	return strings.Join(lines, "\n")
}
