package scores

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/tblock/pkg/errors"
)

// FileStore keeps the leaderboard in a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path. The parent directory is
// created if needed; the file itself appears on the first Add.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scores file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create scores dir")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Add(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	es, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(es, e))
}

func (s *FileStore) Top(ctx context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	es, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sortEntries(es)
	return limit(es, n), nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove scores file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read scores file")
	}
	var es []Entry
	if err := json.Unmarshal(data, &es); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse scores file %s", s.path)
	}
	return es, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileStore) write(es []Entry) error {
	data, err := json.MarshalIndent(es, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal scores")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".scores-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "write scores")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "replace scores file")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
