package notes

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

type punktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSegmenter builds the punkt sentence tokenizer for language.
// Only english ships with trained data.
func NewSegmenter(language string) (Segmenter, error) {
	if strings.ToLower(language) != "english" {
		return nil, fmt.Errorf("unsupported segmenter language: %s", language)
	}

	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english tokenizer: %w", err)
	}

	return &punktSegmenter{tokenizer: tokenizer}, nil
}

func (s *punktSegmenter) Sentences(text string) []string {
	var out []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
