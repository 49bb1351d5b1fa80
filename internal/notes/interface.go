package notes

// Segmenter splits text into sentences, in document order.
type Segmenter interface {
	Sentences(text string) []string
}

// Extractor classifies transcript sentences into the summary categories.
type Extractor interface {
	Extract(text string) Notes
	Summarize(text string) string
}
