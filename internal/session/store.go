package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atomicstack/tmux-session-browser/internal/logging"
)

const fileExt = ".jsonl"

// Lister enumerates the sessions available for browsing.
type Lister interface {
	List(ctx context.Context) ([]Summary, error)
}

// FileStore reads sessions from a directory of JSONL files.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory the store reads from.
func (s *FileStore) Dir() string {
	return s.dir
}

// DefaultDir resolves the sessions directory from the environment, preferring
// $XDG_DATA_HOME and falling back to ~/.local/share.
func DefaultDir() (string, error) {
	if data := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); data != "" {
		return filepath.Join(data, "goose", "sessions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "goose", "sessions"), nil
}

// List returns a summary for every readable session file, newest first.
// Files whose metadata cannot be decoded are skipped and logged.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sessions directory: %w", err)
	}
	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		summary, err := s.summarize(entry)
		if err != nil {
			logging.Error(err)
			continue
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Modified.Equal(out[j].Modified) {
			return out[i].ID < out[j].ID
		}
		return out[i].Modified.After(out[j].Modified)
	})
	return out, nil
}

func (s *FileStore) summarize(entry fs.DirEntry) (Summary, error) {
	id := strings.TrimSuffix(entry.Name(), fileExt)
	path := filepath.Join(s.dir, entry.Name())
	info, err := entry.Info()
	if err != nil {
		return Summary{}, newLoadError(id, err, "stat session file")
	}
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, newLoadError(id, err, "open session file")
	}
	defer f.Close()
	meta, err := readMetadata(newLineScanner(f))
	if err != nil {
		return Summary{}, newLoadError(id, err, "invalid session metadata")
	}
	return Summary{ID: id, Path: path, Modified: info.ModTime(), Metadata: meta}, nil
}

// FetchSessionDetails loads the full session identified by id. Every failure
// is reported as a *LoadError.
func (s *FileStore) FetchSessionDetails(ctx context.Context, id string) (Details, error) {
	if err := validateID(id); err != nil {
		return Details{}, err
	}
	if err := ctx.Err(); err != nil {
		return Details{}, newLoadError(id, err, "load cancelled")
	}
	f, err := os.Open(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Details{}, newLoadError(id, ErrNotFound, "no session file")
		}
		return Details{}, newLoadError(id, err, "open session file")
	}
	defer f.Close()
	return parseDetails(id, f)
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

func validateID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return newLoadError(id, nil, "session id required")
	}
	if trimmed != id || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return newLoadError(id, nil, "invalid session id %q", id)
	}
	return nil
}
