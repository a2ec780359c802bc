package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/pipeline"
)

// FileStore is a file-based report store for CLI use.
// Reports are stored as <id>.json files in a single directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create report dir")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the report files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, r *pipeline.Report) error {
	if err := prepare(r); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "marshal report")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".report-*")
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeStorage, err, "write report")
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write report")
	}
	if err := os.Rename(tmp.Name(), s.path(r.ID)); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "store report")
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*pipeline.Report, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.path(id), id)
}

func (s *FileStore) read(path, id string) (*pipeline.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read report")
	}
	var r pipeline.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "parse report %s", id)
	}
	return &r, nil
}

// List reads every report in the directory. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read report dir")
	}
	var out []Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := name[:len(name)-len(".json")]
		r, err := s.read(filepath.Join(s.dir, name), id)
		if err != nil {
			continue
		}
		out = append(out, Summarize(r))
	}
	slices.SortFunc(out, func(a, b Summary) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if limit = limitOrDefault(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeStorage, err, "remove report")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
