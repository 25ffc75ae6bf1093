package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ShouldPrune reports whether a file inside a title folder is clutter:
// any .txt file, or any .jpg other than exactly "poster.jpg".
// The extension check is case-insensitive; the poster name check is not.
func ShouldPrune(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".txt" || (ext == ".jpg" && name != PosterName)
}

func prunable(mode fs.FileMode) bool {
	return mode.IsRegular() || mode&fs.ModeSymlink != 0
}

// PruneStats summarizes a prune pass.
type PruneStats struct {
	Folders int
	Deleted int
	Failed  int
	Bytes   int64
}

// Pruner deletes clutter files from title folders.
type Pruner struct {
	log    *slog.Logger
	dryRun bool
}

// NewPruner creates a Pruner. With dryRun set, matching files are only logged.
func NewPruner(log *slog.Logger, dryRun bool) *Pruner {
	return &Pruner{
		log:    log.With("component", "prune"),
		dryRun: dryRun,
	}
}

// Prune cleans every title folder under root, one at a time.
// Only ErrRootNotFound (or an unreadable root) stops the run.
func (p *Pruner) Prune(ctx context.Context, root string) (PruneStats, error) {
	var stats PruneStats

	folders, err := Folders(root)
	if err != nil {
		return stats, err
	}

	p.log.Info("found folders", "root", root, "count", len(folders))

	for _, dir := range folders {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		folderStats := p.PruneFolder(root, dir)
		stats.Folders++
		stats.Deleted += folderStats.Deleted
		stats.Failed += folderStats.Failed
		stats.Bytes += folderStats.Bytes
	}

	return stats, nil
}

// PruneFolder deletes matching files directly inside dir (no recursion).
// Per-file failures are logged and counted, never returned.
func (p *Pruner) PruneFolder(root, dir string) PruneStats {
	var stats PruneStats

	entries, err := os.ReadDir(dir)
	if err != nil {
		p.log.Error("failed to read folder", "folder", dir, "error", err)
		stats.Failed++
		return stats
	}

	for _, e := range entries {
		// Symlinks are unlinked themselves; their targets are never touched
		if !prunable(e.Type()) || !ShouldPrune(e.Name()) {
			continue
		}

		path := filepath.Join(dir, e.Name())

		if err := checkWithin(root, path); err != nil {
			p.log.Warn("refusing to delete", "path", path, "root", root, "error", err)
			stats.Failed++
			continue
		}

		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}

		if p.dryRun {
			p.log.Info("would delete", "path", path, "bytes", size)
			stats.Deleted++
			stats.Bytes += size
			continue
		}

		if err := os.Remove(path); err != nil {
			p.log.Error("failed to delete file", "path", path, "error", err)
			stats.Failed++
			continue
		}

		p.log.Info("deleted", "path", path, "bytes", size)
		stats.Deleted++
		stats.Bytes += size
	}

	return stats
}

// String formats stats for a one-line summary.
func (s PruneStats) String() string {
	return fmt.Sprintf("%d folders, %d deleted, %d failed", s.Folders, s.Deleted, s.Failed)
}
