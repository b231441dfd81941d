// Package boardfiles reads drill files from disk into drill.Input values,
// applying the input-size guard.
package boardfiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/OpenTraceLab/drillmerge/pkg/drill"
	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

var (
	// ErrInputTooLarge is returned when a file exceeds the configured size limit
	ErrInputTooLarge = errors.New("input file too large")

	// ErrNoDrillFiles is returned when a directory holds no drill files
	ErrNoDrillFiles = errors.New("no drill files found")
)

// Loader reads drill files with an optional size limit
type Loader struct {
	MaxFileSize int64 // bytes, 0 disables the guard
}

// Dir returns every drill file directly inside dir, sorted by name
func (l Loader) Dir(dir string) ([]drill.Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !excellon.IsDrillFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoDrillFiles)
	}
	return l.Files(paths)
}

// Files reads the given paths in name order. Directories are expanded with Dir.
func (l Loader) Files(paths []string) ([]drill.Input, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var inputs []drill.Input
	for _, p := range sorted {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if info.IsDir() {
			more, err := l.Dir(p)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, more...)
			continue
		}

		if l.MaxFileSize > 0 && info.Size() > l.MaxFileSize {
			return nil, fmt.Errorf("%s is %d bytes, limit %d: %w",
				p, info.Size(), l.MaxFileSize, ErrInputTooLarge)
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		inputs = append(inputs, drill.Input{
			Name:    filepath.Base(p),
			Content: string(data),
		})
	}

	if len(inputs) == 0 {
		return nil, ErrNoDrillFiles
	}
	return inputs, nil
}

// WriteResult writes the PTH and NPTH programs of result into dir and returns the
// paths written. Outputs that are nil are skipped.
func WriteResult(dir string, result drill.Result, pthName, npthName string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, out := range []struct {
		name    string
		content *string
	}{
		{pthName, result.PTH},
		{npthName, result.NPTH},
	} {
		if out.content == nil {
			continue
		}
		path := filepath.Join(dir, out.name)
		if err := os.WriteFile(path, []byte(*out.content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
