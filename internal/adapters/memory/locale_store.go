package memory

import (
	"context"
	"sync"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
)

// LocaleResourceStore keeps localized strings in memory
type LocaleResourceStore struct {
	mu        sync.RWMutex
	resources map[string]string
}

var _ ports.LocaleResourceStore = (*LocaleResourceStore)(nil)

// NewLocaleResourceStore creates an empty store
func NewLocaleResourceStore() *LocaleResourceStore {
	return &LocaleResourceStore{resources: make(map[string]string)}
}

func (s *LocaleResourceStore) AddOrUpdate(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[name] = value
	return nil
}

func (s *LocaleResourceStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resources, name)
	return nil
}

func (s *LocaleResourceStore) Get(ctx context.Context, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.resources[name]
	return v, ok, nil
}

// Len returns the number of stored resources
func (s *LocaleResourceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}
