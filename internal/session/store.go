package session

import (
	"context"

	"github.com/solargrid/solargrid-web/pkg/logger"
	"github.com/solargrid/solargrid-web/pkg/metrics"
)

// Store holds the Session of a single browser context.
//
// Save replaces the whole record and Clear removes it; neither is ever
// observable half-done. Current never fails: storage errors are logged and
// reported as "no session", which is the only negative signal callers get.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Current(ctx context.Context) (*Session, bool)
	Clear(ctx context.Context) error
}

// Repository persists Sessions for many browser contexts, keyed by context id.
// Get returns (nil, nil) when no Session is stored for id.
type Repository interface {
	Put(ctx context.Context, id string, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Named is implemented by repositories that report a backend name for metrics.
type Named interface {
	Name() string
}

// Bind returns the Store of browser context id backed by repo.
func Bind(repo Repository, id string) Store {
	return &boundStore{repo: repo, id: id}
}

type boundStore struct {
	repo Repository
	id   string
}

func (b *boundStore) Save(ctx context.Context, s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return b.repo.Put(ctx, b.id, s.Clone())
}

func (b *boundStore) Current(ctx context.Context) (*Session, bool) {
	s, err := b.repo.Get(ctx, b.id)
	if err != nil {
		logger.Warnf("session: read failed for context %s: %v", b.id, err)
		metrics.SessionStoreErrors.WithLabelValues(repoName(b.repo)).Inc()
		return nil, false
	}
	if s == nil {
		return nil, false
	}
	if err := s.Validate(); err != nil {
		logger.Warnf("session: discarding stored record for context %s: %v", b.id, err)
		return nil, false
	}
	return s.Clone(), true
}

func (b *boundStore) Clear(ctx context.Context) error {
	return b.repo.Delete(ctx, b.id)
}

func repoName(r Repository) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return "unknown"
}
