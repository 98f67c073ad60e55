package store

import "sync"

// Memory is a thread-safe in-memory Backend for tests and development.
// Data is lost on restart.
type Memory struct {
	mu    sync.RWMutex
	kv    map[string]map[string]string
	lists map[string]map[string][]string
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		kv:    make(map[string]map[string]string),
		lists: make(map[string]map[string][]string),
	}
}

func (s *Memory) Get(namespace, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.kv[namespace]; ok {
		return ns[key], nil
	}
	return "", nil
}

func (s *Memory) Set(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv[namespace] == nil {
		s.kv[namespace] = make(map[string]string)
	}
	s.kv[namespace][key] = value
	return nil
}

func (s *Memory) Delete(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.kv[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

func (s *Memory) Append(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lists[namespace] == nil {
		s.lists[namespace] = make(map[string][]string)
	}
	s.lists[namespace][key] = append(s.lists[namespace][key], value)
	return nil
}

func (s *Memory) GetList(namespace, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []string
	if ns, ok := s.lists[namespace]; ok {
		items = ns[key]
	}
	result := make([]string, len(items))
	copy(result, items)
	return result, nil
}

func (s *Memory) TrimList(namespace, key string, maxSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.lists[namespace]; ok {
		if lst, ok := ns[key]; ok && len(lst) > maxSize {
			ns[key] = lst[len(lst)-maxSize:]
		}
	}
	return nil
}

func (s *Memory) ClearList(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.lists[namespace]; ok {
		ns[key] = nil
	}
	return nil
}

func (s *Memory) ListLength(namespace, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.lists[namespace]; ok {
		return len(ns[key]), nil
	}
	return 0, nil
}

var _ Backend = (*Memory)(nil)
