package store

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	lastUsed time.Time
	inUse    int
}

// Sessions holds one value per session key, created on first use.
type Sessions[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	create  func(key string) (T, error)
	release func(T)
}

// NewSessions creates a session set. create builds the value for a new key;
// release, if non-nil, is called when a value is removed.
func NewSessions[T any](create func(key string) (T, error), release func(T)) *Sessions[T] {
	return &Sessions[T]{
		entries: make(map[string]*entry[T]),
		create:  create,
		release: release,
	}
}

// Get returns the value for key, creating it when absent. The boolean is
// true when the value was created by this call. A failed create leaves no
// entry behind.
func (s *Sessions[T]) Get(key string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.lastUsed = time.Now()
		return e.value, false, nil
	}
	v, err := s.create(key)
	if err != nil {
		var zero T
		return zero, false, err
	}
	s.entries[key] = &entry[T]{value: v, lastUsed: time.Now()}
	return v, true, nil
}

// Acquire is Get for work that outlives the call. The session is exempt from
// Evict until done is called; done marks it used at that moment and is safe
// to call more than once.
func (s *Sessions[T]) Acquire(key string) (T, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		v, err := s.create(key)
		if err != nil {
			var zero T
			return zero, func() {}, err
		}
		e = &entry[T]{value: v}
		s.entries[key] = e
	}
	e.lastUsed = time.Now()
	e.inUse++

	var once sync.Once
	done := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			e.inUse--
			e.lastUsed = time.Now()
		})
	}
	return e.value, done, nil
}

// Lookup returns the value for key without creating it.
func (s *Sessions[T]) Lookup(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Delete removes key and releases its value.
func (s *Sessions[T]) Delete(key string) error {
	s.mu.Lock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if !ok {
		return ErrKeyNotFound
	}
	if s.release != nil {
		s.release(e.value)
	}
	return nil
}

// Evict removes every session unused for longer than idle and returns how
// many were removed. Sessions held through Acquire are kept.
func (s *Sessions[T]) Evict(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	var stale []T

	s.mu.Lock()
	for k, e := range s.entries {
		if e.inUse == 0 && e.lastUsed.Before(cutoff) {
			stale = append(stale, e.value)
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()

	if s.release != nil {
		for _, v := range stale {
			s.release(v)
		}
	}
	return len(stale)
}

// Keys returns all session keys.
func (s *Sessions[T]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of sessions.
func (s *Sessions[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close releases and removes every session.
func (s *Sessions[T]) Close() {
	s.mu.Lock()
	all := s.entries
	s.entries = make(map[string]*entry[T])
	s.mu.Unlock()

	if s.release != nil {
		for _, e := range all {
			s.release(e.value)
		}
	}
}
