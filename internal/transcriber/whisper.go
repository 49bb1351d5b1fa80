package transcriber

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/pkg/executor"
)

type whisperCPP struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

func newWhisperCPP(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) (*whisperCPP, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("whisper model: %w", err)
	}
	bin, err := lookPath(cfg.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("whisper binary: %w", err)
	}

	// whisper runs inside each job's directory, so both paths must be absolute
	if cfg.ModelPath, err = filepath.Abs(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("whisper model: %w", err)
	}
	if cfg.BinaryPath, err = filepath.Abs(bin); err != nil {
		return nil, fmt.Errorf("whisper binary: %w", err)
	}

	return &whisperCPP{cfg: cfg, executor: exec, logger: log}, nil
}

func lookPath(bin string) (string, error) {
	if strings.ContainsRune(bin, filepath.Separator) {
		if _, err := os.Stat(bin); err != nil {
			return "", err
		}
		return bin, nil
	}
	return exec.LookPath(bin)
}

func (w *whisperCPP) Name() string {
	return config.ProviderWhisperCPP
}

// Transcribe runs whisper.cpp over a 16kHz mono WAV and returns the plain text
func (w *whisperCPP) Transcribe(ctx context.Context, audioPath string) (string, error) {
	// whisper.cpp appends .txt to the prefix; it runs in the audio's directory
	dir := filepath.Dir(audioPath)
	audioName := filepath.Base(audioPath)
	outputPrefix := strings.TrimSuffix(audioName, filepath.Ext(audioName))
	txtPath := filepath.Join(dir, outputPrefix+".txt")

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, audioPath)

	// -otxt: plain text output, -nt: no timestamps, -l: force language
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioName,
		"-otxt",
		"-nt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.ExecuteInDir(ctx, dir, w.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	defer os.Remove(txtPath)

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}

	text := joinLines(string(data))
	w.logger.Info(ctx, "Transcription completed: %d characters", len(text))
	return text, nil
}

// joinLines collapses whisper's one-segment-per-line output into running text.
func joinLines(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
