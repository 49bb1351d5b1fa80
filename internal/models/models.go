package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/internal/notes"
	"github.com/nguyentantai21042004/meetnote/internal/transcriber"
	"github.com/nguyentantai21042004/meetnote/pkg/executor"
)

// Models holds the long-lived, read-only model handles shared by every job.
type Models struct {
	Transcriber transcriber.Transcriber
	Segmenter   notes.Segmenter
	Language    LanguageDetector
}

// LanguageDetector guesses the language of a transcript.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// Load builds every model once. Any error here should stop the process.
func Load(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) (*Models, error) {
	log.Info(ctx, "Loading %s transcriber (tier: %s)", cfg.Transcriber.Provider, cfg.Transcriber.Tier)
	tr, err := transcriber.New(cfg, exec, log)
	if err != nil {
		return nil, fmt.Errorf("load transcriber: %w", err)
	}

	log.Info(ctx, "Loading %s sentence segmenter", cfg.NLP.Language)
	seg, err := notes.NewSegmenter(cfg.NLP.Language)
	if err != nil {
		return nil, fmt.Errorf("load segmenter: %w", err)
	}

	return &Models{
		Transcriber: tr,
		Segmenter:   seg,
		Language:    NewLanguageDetector(),
	}, nil
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a lingua detector over the languages meetings
// are most often held in.
func NewLanguageDetector() LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.French,
			lingua.German,
			lingua.Spanish,
			lingua.Portuguese,
			lingua.Italian,
			lingua.Dutch,
			lingua.Vietnamese,
		).
		Build()
	return &linguaDetector{detector: detector}
}

// Detect returns the lower-case language name, or false when unsure.
func (d *linguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.String()), true
}
