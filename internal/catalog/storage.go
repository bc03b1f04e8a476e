package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadenza-audio/cadenza/internal/config"
	"github.com/cadenza-audio/cadenza/internal/logger"
)

// Storage resolves the relative paths stored on catalog rows into absolute
// filesystem paths under the configured roots. Every resolution re-derives
// the absolute path and verifies containment, so a row holding "../../etc/x"
// can never reach outside the root even if it somehow lands in the database.
type Storage struct {
	musicRoot string
	coverRoot string
}

// NewStorage creates the storage roots if needed and returns a Storage bound
// to their absolute paths.
func NewStorage(cfg config.StorageConfig) (*Storage, error) {
	musicRoot, err := ensureRoot(cfg.MusicDir)
	if err != nil {
		return nil, fmt.Errorf("music storage root: %w", err)
	}
	coverRoot, err := ensureRoot(cfg.CoverDir)
	if err != nil {
		return nil, fmt.Errorf("cover storage root: %w", err)
	}
	return &Storage{musicRoot: musicRoot, coverRoot: coverRoot}, nil
}

func ensureRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", abs, err)
	}
	return abs, nil
}

// MusicRoot returns the absolute music storage root.
func (s *Storage) MusicRoot() string {
	return s.musicRoot
}

// CoverRoot returns the absolute cover storage root.
func (s *Storage) CoverRoot() string {
	return s.coverRoot
}

// ResolveMusic maps a stored relative audio path to its absolute location,
// rejecting anything that escapes the music root.
func (s *Storage) ResolveMusic(rel string) (string, error) {
	return resolveWithin(s.musicRoot, rel)
}

// ResolveCover maps a stored relative cover path to its absolute location,
// rejecting anything that escapes the cover root.
func (s *Storage) ResolveCover(rel string) (string, error) {
	return resolveWithin(s.coverRoot, rel)
}

func resolveWithin(root, rel string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(root, rel))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return abs, nil
}

// RemoveMusic deletes a stored audio file. A missing file is not an error;
// the row is the source of truth and the blob may already be gone.
func (s *Storage) RemoveMusic(rel string) error {
	return removeWithin(s.musicRoot, rel)
}

// RemoveCover deletes a stored cover image, tolerating absence.
func (s *Storage) RemoveCover(rel string) error {
	return removeWithin(s.coverRoot, rel)
}

func removeWithin(root, rel string) error {
	abs, err := resolveWithin(root, rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", abs, err)
	}
	logger.Log.Debug().
		Str("path", abs).
		Msg("Stored file removed")
	return nil
}
