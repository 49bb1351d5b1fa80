package processor

import (
	"errors"
	"io"

	"github.com/nguyentantai21042004/meetnote/internal/mailer"
	"github.com/nguyentantai21042004/meetnote/internal/notes"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyContent    = errors.New("no content found")
)

// ProcessingError wraps any staging, decoding or transcription failure.
type ProcessingError struct {
	Step string
	Err  error
}

func (e *ProcessingError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Outcome is the terminal state of one submission.
type Outcome string

const (
	OutcomeDone            Outcome = "done"
	OutcomeUnsupportedType Outcome = "unsupported_type"
	OutcomeEmptyContent    Outcome = "empty_content"
	OutcomeProcessingError Outcome = "processing_error"
	OutcomeDeliveryFailed  Outcome = "delivery_failed"
)

// Success reports whether the summary was produced and delivered.
func (o Outcome) Success() bool {
	return o == OutcomeDone
}

// Upload is a file received from a user. Filename only supplies the extension.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Request carries the per-submission email settings.
type Request struct {
	Recipient string
	Sender    string
	Password  string
}

type Result struct {
	Outcome    Outcome          `json:"outcome"`
	Transcript string           `json:"transcript"`
	Summary    string           `json:"summary"`
	Notes      notes.Notes      `json:"-"`
	Delivery   *mailer.Delivery `json:"delivery,omitempty"`
	Language   string           `json:"language,omitempty"`
	Detail     string           `json:"detail,omitempty"`
}

// Message returns the single status line shown next to the result.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeDone, OutcomeDeliveryFailed:
		if r.Delivery != nil {
			return r.Delivery.Status()
		}
		return ""
	case OutcomeUnsupportedType:
		return "Unsupported file type."
	case OutcomeEmptyContent:
		return "No content found."
	case OutcomeProcessingError:
		return "Error: " + r.Detail
	default:
		return ""
	}
}

// Failed builds the result for an error returned by Process.
func Failed(err error) Result {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return Result{Outcome: OutcomeUnsupportedType, Detail: err.Error()}
	case errors.Is(err, ErrEmptyContent):
		return Result{Outcome: OutcomeEmptyContent}
	default:
		return Result{Outcome: OutcomeProcessingError, Detail: err.Error()}
	}
}
