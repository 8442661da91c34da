package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FileStore keeps values in a YAML document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

// Ping checks the document can be read.
func (f *FileStore) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.load()
	return err
}

func (f *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: read %s", f.path)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, eris.Wrapf(err, "store: parse %s", f.path)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// save writes through a temp file so a crash never leaves a torn document.
func (f *FileStore) save(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return eris.Wrap(err, "store: encode settings")
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*.yaml")
	if err != nil {
		return eris.Wrap(err, "store: create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return eris.Wrap(err, "store: write temp file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return eris.Wrap(err, "store: chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "store: close temp file")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return eris.Wrapf(err, "store: replace %s", f.path)
	}
	return nil
}
