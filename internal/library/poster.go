package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WritePoster saves dir/poster.jpg from whatever write produces.
// Output goes to a temp file in dir that is renamed into place, so a failed
// or interrupted download never leaves a truncated poster behind.
func WritePoster(dir string, write func(io.Writer) (int64, error)) (int64, error) {
	tmp, err := os.CreateTemp(dir, ".poster-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }() // no-op after a successful rename

	size, err := write(tmp)
	if err != nil {
		_ = tmp.Close()
		return 0, err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, PosterName)); err != nil {
		return 0, fmt.Errorf("rename poster: %w", err)
	}

	return size, nil
}
