package transcriber

import "context"

// Transcriber turns an audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	// Name returns the provider name (e.g. "whisper_cpp", "openai")
	Name() string
}
