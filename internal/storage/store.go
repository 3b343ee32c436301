package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	assetExt      = ".json"
	quarantineExt = ".bad"
)

type Storer[T ValidatingSpec] interface {
	Save(string, T) error
	Get(string) (T, bool)
	Delete(string) error
	GetAll() map[string]T
}

// FileStore keeps one JSON asset per record in a flat directory and serves
// reads from memory. Files that cannot be loaded are renamed with a .bad
// suffix and skipped, so a damaged cache never stops the client starting.
type FileStore[T ValidatingSpec] struct {
	dir     string
	records map[string]T

	mu sync.RWMutex
}

func NewFileStore[T ValidatingSpec](dir string) (*FileStore[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	s := &FileStore[T]{
		dir:     dir,
		records: map[string]T{},
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading store directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != assetExt {
			continue
		}

		id := strings.TrimSuffix(name, assetExt)
		spec, err := readAsset[T](filepath.Join(s.dir, name), id)
		if err != nil {
			s.quarantine(name, err)
			continue
		}
		s.records[id] = spec
	}

	return nil
}

func (s *FileStore[T]) quarantine(name string, cause error) {
	path := filepath.Join(s.dir, name)
	slog.Warn("discarding unreadable asset", "path", path, "error", cause)

	if err := os.Rename(path, path+quarantineExt); err != nil {
		slog.Warn("moving unreadable asset aside", "path", path, "error", err)
	}
}

func readAsset[T ValidatingSpec](path, id string) (T, error) {
	var zero T

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	if err := json.Unmarshal(data, asset); err != nil {
		return zero, fmt.Errorf("unmarshalling asset: %w", err)
	}
	if err := asset.Validate(); err != nil {
		return zero, fmt.Errorf("validating asset: %w", err)
	}
	if asset.Identifier != id {
		return zero, fmt.Errorf("asset id %q does not match file name", asset.Identifier)
	}

	return asset.Spec, nil
}

func (s *FileStore[T]) Save(id string, spec T) error {
	asset := &Asset[T]{
		Version:    CurrentVersion,
		Identifier: id,
		Spec:       spec,
	}
	if err := asset.Validate(); err != nil {
		return fmt.Errorf("validating %s: %w", id, err)
	}

	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := replaceFile(s.pathFor(id), data); err != nil {
		return err
	}
	s.records[id] = spec
	return nil
}

// replaceFile swaps data into place through a temp file in the same
// directory, leaving the old contents intact if the write fails.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (s *FileStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, ok := s.records[id]
	return spec, ok
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *FileStore[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	if err := os.Remove(s.pathFor(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	return nil
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string]T, len(s.records))
	for id, spec := range s.records {
		all[id] = spec
	}
	return all
}

func (s *FileStore[T]) pathFor(id string) string {
	return filepath.Join(s.dir, id+assetExt)
}
