package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meetnote/internal/mailer"
	"github.com/nguyentantai21042004/meetnote/internal/notes"
)

// Process orchestrates the whole pipeline for one staged upload.
// A delivery failure is not an error: the result still carries transcript and summary.
func (p *implProcessor) Process(ctx context.Context, staged *Staged, req Request) (Result, error) {
	startTime := time.Now()

	p.logger.Info(ctx, "Processing %s (%s)", staged.Name, staged.Ext)

	// Step 1: Obtain transcript
	transcript, err := p.readTranscript(ctx, staged)
	if err != nil {
		p.logger.Warn(ctx, "Processing %s stopped: %v", staged.Name, err)
		return Failed(err), err
	}

	if strings.TrimSpace(transcript) == "" {
		p.logger.Warn(ctx, "No content found in %s", staged.Name)
		return Failed(ErrEmptyContent), ErrEmptyContent
	}

	res := Result{Transcript: transcript}
	if lang, ok := p.models.Language.Detect(transcript); ok {
		res.Language = lang
		if lang != "english" {
			p.logger.Warn(ctx, "Transcript looks %s; keyword lists are English only", lang)
		}
	}

	// Step 2: Extract notes
	res.Notes = p.extractor.Extract(transcript)
	res.Summary = notes.Render(res.Notes)
	if res.Notes.Empty() {
		p.logger.Info(ctx, "No keyword matched in %s; sending an empty summary", staged.Name)
	}

	// Step 3: Email summary
	msg := mailer.Message{
		From:     req.Sender,
		Password: req.Password,
		To:       req.Recipient,
		Subject:  p.cfg.SMTP.Subject,
		Body:     res.Summary,
	}
	if p.cfg.SMTP.AttachDocx {
		if path, err := p.writeSummaryDocx(staged, res.Notes); err != nil {
			p.logger.Warn(ctx, "Skipping docx attachment: %v", err)
		} else {
			msg.Attachments = append(msg.Attachments, path)
		}
	}

	delivery := p.sender.Send(ctx, msg)
	res.Delivery = &delivery
	res.Outcome = OutcomeDone
	if !delivery.Sent {
		res.Outcome = OutcomeDeliveryFailed
	}

	p.logger.Info(ctx, "Processed %s in %s: outcome=%s", staged.Name, time.Since(startTime), res.Outcome)
	return res, nil
}

// ProcessPath runs a file already on disk through the pipeline and archives it.
func (p *implProcessor) ProcessPath(ctx context.Context, path string, req Request) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		perr := &ProcessingError{Step: "open", Err: err}
		return Failed(perr), perr
	}

	staged, err := p.Stage(Upload{Filename: filepath.Base(path), Body: f})
	f.Close()
	if err != nil {
		return Failed(err), err
	}
	defer p.release(ctx, staged)

	res, err := p.Process(ctx, staged, req)

	if archErr := p.moveToArchived(ctx, path); archErr != nil {
		p.logger.Warn(ctx, "Failed to move %s to archived folder: %v", path, archErr)
	}

	return res, err
}

// readTranscript branches on the staged extension.
func (p *implProcessor) readTranscript(ctx context.Context, staged *Staged) (string, error) {
	switch staged.Ext {
	case ".mp4":
		return p.transcribeVideo(ctx, staged.Path)
	case ".txt":
		data, err := os.ReadFile(staged.Path)
		if err != nil {
			return "", &ProcessingError{Step: "read text", Err: err}
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, staged.Ext)
	}
}

func (p *implProcessor) transcribeVideo(ctx context.Context, videoPath string) (string, error) {
	audioPath, err := p.extractAudio(ctx, videoPath)
	if err != nil {
		return "", &ProcessingError{Step: "extract audio", Err: err}
	}
	defer p.cleanupTempFile(ctx, audioPath)

	text, err := p.models.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", &ProcessingError{Step: "transcribe", Err: err}
	}

	return text, nil
}

func (p *implProcessor) writeSummaryDocx(staged *Staged, n notes.Notes) (string, error) {
	path := filepath.Join(staged.Dir, "meeting-summary.docx")
	if err := notes.WriteDocx(p.cfg.SMTP.Subject, n, path); err != nil {
		return "", fmt.Errorf("write docx: %w", err)
	}
	return path, nil
}

// IsCancelled reports whether err came from a cancelled or timed out context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
