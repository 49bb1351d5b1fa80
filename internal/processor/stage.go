package processor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Staged is an upload copied into a private temp directory.
// Everything derived from it (audio, whisper output, docx) lives in Dir.
type Staged struct {
	Dir  string
	Path string
	Ext  string
	Name string

	once sync.Once
}

// Release removes the staging directory. Safe to call more than once.
func (s *Staged) Release() error {
	var err error
	s.once.Do(func() {
		err = os.RemoveAll(s.Dir)
	})
	return err
}

func (p *implProcessor) Stage(upload Upload) (*Staged, error) {
	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return nil, &ProcessingError{Step: "stage", Err: fmt.Errorf("create temp root: %w", err)}
	}

	dir, err := os.MkdirTemp(p.cfg.Paths.Temp, "job-*")
	if err != nil {
		return nil, &ProcessingError{Step: "stage", Err: fmt.Errorf("create temp dir: %w", err)}
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	staged := &Staged{
		Dir:  dir,
		Path: filepath.Join(dir, "upload"+ext),
		Ext:  ext,
		Name: filepath.Base(upload.Filename),
	}

	if err := writeFile(staged.Path, upload.Body); err != nil {
		staged.Release()
		return nil, &ProcessingError{Step: "stage", Err: err}
	}

	return staged, nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write staged file: %w", err)
	}

	return out.Close()
}
