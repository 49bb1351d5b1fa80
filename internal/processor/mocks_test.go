package processor

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/meetnote/internal/mailer"
)

type mockExecutor struct {
	ExecuteFunc func(ctx context.Context, name string, args ...string) (string, error)
}

func (m *mockExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return m.ExecuteFunc(ctx, name, args...)
}

func (m *mockExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return m.ExecuteFunc(ctx, name, args...)
}

type mockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audioPath string) (string, error)
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return m.TranscribeFunc(ctx, audioPath)
}

func (m *mockTranscriber) Name() string { return "mock" }

type mockSender struct {
	mu       sync.Mutex
	SendFunc func(ctx context.Context, msg mailer.Message) mailer.Delivery
	sent     []mailer.Message
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) mailer.Delivery {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.SendFunc == nil {
		return mailer.Delivery{Sent: true}
	}
	return m.SendFunc(ctx, msg)
}

func (m *mockSender) calls() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type fixedLanguage string

func (f fixedLanguage) Detect(string) (string, bool) {
	return string(f), f != ""
}

// splitSegmenter splits on ". " and keeps the trailing period.
type splitSegmenter struct{}

func (splitSegmenter) Sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '.' {
			if s := trim(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := trim(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func trim(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\n') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\n') {
		s = s[:len(s)-1]
	}
	return s
}
