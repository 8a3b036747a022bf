// Package assets stores temporary image files written during preview
// conversions and sweeps them once they age out.
package assets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Store persists asset bytes under a name and hands back the path a
// document can reference.
type Store interface {
	// Path returns the location name would be written to.
	Path(name string) string
	Exists(name string) (bool, error)
	Write(name string, data []byte) (string, error)
	// Sweep removes image files last modified before cutoff and returns how
	// many were removed. Files that cannot be inspected or removed are
	// skipped; only a failure to list the directory is returned.
	Sweep(cutoff time.Time) (int, error)
}

// SweptExtensions are the file extensions Sweep considers.
var SweptExtensions = map[string]bool{
	".jpg": true, ".gif": true, ".png": true, ".bmp": true,
	".jpe": true, ".jpeg": true, ".wmf": true, ".emf": true,
	".xbm": true, ".ico": true, ".eps": true, ".tif": true,
	".tiff": true, ".g01": true, ".g02": true, ".g03": true,
	".g04": true, ".g05": true, ".g06": true, ".g07": true,
	".g08": true,
}

// FSStore is a Store backed by a directory on an afero filesystem.
type FSStore struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

// NewStore returns a store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string, log *slog.Logger) *FSStore {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &FSStore{fs: fs, dir: dir, log: log.With("component", "assets")}
}

// NewTempStore returns a store in the OS temp directory.
func NewTempStore(log *slog.Logger) *FSStore {
	return NewStore(afero.NewOsFs(), os.TempDir(), log)
}

func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *FSStore) Exists(name string) (bool, error) {
	return afero.Exists(s.fs, s.Path(name))
}

func (s *FSStore) Write(name string, data []byte) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	path := s.Path(name)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return path, nil
}

func (s *FSStore) Sweep(cutoff time.Time) (int, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("list asset dir: %w", err)
	}

	removed := 0
	for _, fi := range entries {
		if fi.IsDir() || !SweptExtensions[strings.ToLower(filepath.Ext(fi.Name()))] {
			continue
		}
		if !fi.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, fi.Name())
		if err := s.fs.Remove(path); err != nil {
			s.log.Debug("skip asset", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
