package remediation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"hostmon/internal/model"
)

// Cleaner empties a scratch directory of regular files. Subdirectories, symlinks and
// the directory itself are never touched.
type Cleaner struct {
	fs afero.Fs
}

func NewCleaner(fs afero.Fs) *Cleaner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Cleaner{fs: fs}
}

// Prepare makes sure the scratch directory exists.
func (c *Cleaner) Prepare(target string) error {
	if err := c.fs.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create scratch dir %s: %w", target, err)
	}
	return nil
}

// Clean removes every regular file directly under target. A missing target is a normal
// steady state. Per-file failures are collected and never stop the pass.
func (c *Cleaner) Clean(target string) model.RemediationResult {
	res := model.RemediationResult{Target: target}

	info, err := c.fs.Stat(target)
	if errors.Is(err, os.ErrNotExist) {
		return res
	}
	if err != nil {
		res.Errors = append(res.Errors, model.FileError{Name: target, Err: err})
		return res
	}
	if !info.IsDir() {
		res.Errors = append(res.Errors, model.FileError{Name: target, Err: fmt.Errorf("not a directory")})
		return res
	}

	entries, err := afero.ReadDir(c.fs, target)
	if err != nil {
		res.Errors = append(res.Errors, model.FileError{Name: target, Err: fmt.Errorf("read dir: %w", err)})
		return res
	}
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		if err := c.fs.Remove(filepath.Join(target, entry.Name())); err != nil {
			res.Errors = append(res.Errors, model.FileError{Name: entry.Name(), Err: err})
			continue
		}
		res.Removed++
	}
	return res
}
