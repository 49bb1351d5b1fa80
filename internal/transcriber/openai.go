package transcriber

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
)

type openAITranscriber struct {
	client *openai.Client
	model  string
	logger logger.Logger
}

func newOpenAI(cfg config.OpenAIConfig, log logger.Logger) *openAITranscriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &openAITranscriber{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: log,
	}
}

func (o *openAITranscriber) Name() string {
	return config.ProviderOpenAI
}

func (o *openAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	o.logger.Info(ctx, "Calling OpenAI transcription with model %s: %s", o.model, audioPath)

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	o.logger.Info(ctx, "OpenAI transcription received: %d characters", len(text))
	return text, nil
}
