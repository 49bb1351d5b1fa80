package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var errNoAudioTrack = errors.New("video has no audio track")

// extractAudio extracts audio from video file and converts to 16kHz mono WAV
// next to the video. This format is what whisper expects.
func (p *implProcessor) extractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_audio.wav"

	p.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: drop video, -ar/-ac: sample rate and channels, pcm_s16le: 16-bit WAV
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(p.cfg.FFmpeg.SampleRate),
		"-ac", strconv.Itoa(p.cfg.FFmpeg.Channels),
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		if strings.Contains(err.Error(), "does not contain any stream") {
			return "", errNoAudioTrack
		}
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	p.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
