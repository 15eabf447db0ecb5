package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps the latest notification in memory.
type Store struct {
	mu     sync.RWMutex
	latest *domain.Notification
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Set(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := n
	s.latest = &copy
	return nil
}

func (s *Store) Latest(_ context.Context) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, nil
	}
	copy := *s.latest
	return &copy, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = nil
	return nil
}
