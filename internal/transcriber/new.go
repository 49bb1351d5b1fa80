package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/pkg/executor"
)

// New creates the Transcriber selected by cfg.Transcriber.Provider
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Transcriber.Provider {
	case config.ProviderWhisperCPP:
		return newWhisperCPP(cfg.Whisper, exec, log)
	case config.ProviderOpenAI:
		return newOpenAI(cfg.OpenAI, log), nil
	case config.ProviderGemini:
		return newGemini(cfg.Gemini, log), nil
	default:
		return nil, fmt.Errorf("unsupported transcriber provider: %s", cfg.Transcriber.Provider)
	}
}
