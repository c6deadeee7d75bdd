// Package memory provides an in-process DocumentStore used by tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Maxerns/moneymentor-sub000/internal/store"
)

type Store struct {
	mu   sync.Mutex
	docs map[string]map[string]any
}

func New() *Store {
	return &Store{docs: map[string]map[string]any{}}
}

func (s *Store) Get(ctx context.Context, path string, out any) error {
	s.mu.Lock()
	doc, ok := s.docs[path]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("get %s: %w", path, store.ErrNotExist)
	}
	return store.Decode(doc, out)
}

func (s *Store) Set(ctx context.Context, path string, doc any) error {
	m, err := store.Encode(doc)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	s.mu.Lock()
	s.docs[path] = m
	s.mu.Unlock()
	return nil
}

func (s *Store) Merge(ctx context.Context, path string, fields map[string]any) error {
	enc, err := store.Encode(fields)
	if err != nil {
		return fmt.Errorf("merge %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		doc = map[string]any{}
		s.docs[path] = doc
	}
	store.MergeFields(doc, enc)
	return nil
}

func (s *Store) Update(ctx context.Context, path string, updates []store.FieldUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return fmt.Errorf("update %s: %w", path, store.ErrNotExist)
	}
	for _, u := range updates {
		enc, err := store.Encode(map[string]any{"v": u.Value})
		if err != nil {
			return fmt.Errorf("update %s: %w", path, err)
		}
		store.SetField(doc, u.Path, enc["v"])
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }

// Len reports the number of stored documents. Test helper.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
