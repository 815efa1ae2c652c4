// Package pipeline provides concrete pipeline serializers for use outside a
// training process, where the checkpoint already exists on disk.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/miniDevOn/hubsync/domain"
)

const (
	copyDirMode  = 0o755
	copyFileMode = 0o644
)

// DirectorySnapshot is a pipeline whose checkpoint is a directory tree that
// gets copied into the working copy on save. Git state in the source is
// skipped. Saving onto the source directory itself is a no-op.
type DirectorySnapshot struct {
	src string
}

var _ domain.Pipeline = (*DirectorySnapshot)(nil)

// NewDirectorySnapshot creates a pipeline backed by the checkpoint tree at src.
func NewDirectorySnapshot(src string) *DirectorySnapshot {
	return &DirectorySnapshot{src: src}
}

// Save copies the checkpoint tree into dir.
func (p *DirectorySnapshot) Save(dir string) error {
	srcAbs, err := filepath.Abs(p.src)
	if err != nil {
		return fmt.Errorf("failed to resolve source %q: %w", p.src, err)
	}
	dstAbs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination %q: %w", dir, err)
	}
	if srcAbs == dstAbs {
		logger.Debugf("Checkpoint already lives in %s, nothing to copy", dir)
		return nil
	}

	return filepath.WalkDir(srcAbs, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(srcAbs, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return os.MkdirAll(dstAbs, copyDirMode)
		}

		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dstAbs, rel), copyDirMode)
		}

		return copyFile(path, filepath.Join(dstAbs, rel))
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, copyFileMode)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}

	if _, copyErr := io.Copy(out, in); copyErr != nil {
		out.Close()
		return fmt.Errorf("failed to copy %q: %w", src, copyErr)
	}
	return out.Close()
}
