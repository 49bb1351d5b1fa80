package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
)

const transcribePrompt = `Transcribe the speech in this audio recording verbatim.
Return only the transcript as plain text, with normal punctuation and no speaker labels, timestamps or commentary.`

type geminiTranscriber struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

func newGemini(cfg config.GeminiConfig, log logger.Logger) *geminiTranscriber {
	return &geminiTranscriber{
		apiKeys: cfg.APIKeys,
		model:   cfg.Model,
		logger:  log,
	}
}

func (g *geminiTranscriber) Name() string {
	return config.ProviderGemini
}

// Transcribe sends the WAV inline to Gemini. Rotates API keys on 429 / quota errors.
func (g *geminiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio, "audio/wav"),
			genai.NewPartFromText(transcribePrompt),
		}, genai.RoleUser),
	}

	var lastErr error
	for range len(g.apiKeys) {
		key := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Gemini key rate limited, rotating...")
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		text := responseText(result)
		if text == "" {
			g.logger.Warn(ctx, "Gemini returned no speech for %s", filepath.Base(audioPath))
			return "", nil
		}
		g.logger.Info(ctx, "Gemini transcription received: %d characters", len(text))
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

func (g *geminiTranscriber) key() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey]
}

func (g *geminiTranscriber) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}
