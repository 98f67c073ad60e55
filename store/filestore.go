package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File persists each (namespace, key) pair as its own JSON file on disk.
// Layout:
//
//	{baseDir}/{namespace}/{key}.json       — KV value
//	{baseDir}/{namespace}/{key}.list.json  — ordered list (JSON array)
//
// No two memory layers share a file. A missing or unparseable file reads
// as the empty value. Writes go through a temp file and rename so a crash
// mid-write never leaves a truncated file behind.
type File struct {
	mu      sync.Mutex
	baseDir string
}

// NewFile creates a file backend rooted at baseDir.
func NewFile(baseDir string) *File {
	return &File{baseDir: baseDir}
}

func (s *File) kvPath(namespace, key string) string {
	return filepath.Join(s.baseDir, sanitizeComponent(namespace), sanitizeComponent(key)+".json")
}

func (s *File) listPath(namespace, key string) string {
	return filepath.Join(s.baseDir, sanitizeComponent(namespace), sanitizeComponent(key)+".list.json")
}

// sanitizeComponent forces a namespace or key into a single path element.
// Separators are replaced so caller-supplied ids (session ids arrive here
// inside the namespace) can never climb out of the base directory or
// alias another store's file.
func sanitizeComponent(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

func (s *File) Get(namespace, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.kvPath(namespace, key))
	if err != nil {
		return "", nil
	}
	return string(data), nil
}

func (s *File) Set(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAtomic(s.kvPath(namespace, key), []byte(value))
}

func (s *File) Delete(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.kvPath(namespace, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *File) Append(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.readList(namespace, key)
	items = append(items, value)
	return s.writeList(namespace, key, items)
}

func (s *File) GetList(namespace, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readList(namespace, key), nil
}

func (s *File) TrimList(namespace, key string, maxSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.readList(namespace, key)
	if len(items) <= maxSize {
		return nil
	}
	return s.writeList(namespace, key, items[len(items)-maxSize:])
}

func (s *File) ClearList(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.listPath(namespace, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *File) ListLength(namespace, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readList(namespace, key)), nil
}

// readList loads the stored array, treating any read or parse failure as
// an empty list.
func (s *File) readList(namespace, key string) []string {
	data, err := os.ReadFile(s.listPath(namespace, key))
	if err != nil {
		return nil
	}
	var items []string
	if json.Unmarshal(data, &items) != nil {
		return nil
	}
	return items
}

func (s *File) writeList(namespace, key string, items []string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("store: marshal list %s/%s: %w", namespace, key, err)
	}
	return s.writeAtomic(s.listPath(namespace, key), data)
}

func (s *File) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: rename %s: %w", path, err)
	}
	return nil
}

var _ Backend = (*File)(nil)
