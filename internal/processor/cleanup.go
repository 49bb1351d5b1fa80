package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// moveToArchived moves a processed inbox file out of the watched folder
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}

	// Prefix with a timestamp so repeated uploads of the same name never clash
	destPath := filepath.Join(p.cfg.Paths.Archived,
		fmt.Sprintf("%s_%s", time.Now().Format("20060102-150405"), filepath.Base(path)))

	p.logger.Info(ctx, "Archiving: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}

	return nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

// release drops a staging directory, logs warning if fails
func (p *implProcessor) release(ctx context.Context, staged *Staged) {
	if err := staged.Release(); err != nil {
		p.logger.Warn(ctx, "Failed to remove staging dir %s: %v", staged.Dir, err)
	}
}
