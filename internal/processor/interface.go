package processor

import (
	"context"
)

// Processor runs one submission through transcription, note extraction and email delivery.
type Processor interface {
	// Stage copies an upload into its own temp directory. The caller owns the
	// returned Staged and must Release it.
	Stage(upload Upload) (*Staged, error)
	Process(ctx context.Context, staged *Staged, req Request) (Result, error)
	// ProcessPath stages and processes a file already on disk, then archives it.
	ProcessPath(ctx context.Context, path string, req Request) (Result, error)
}
