package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/pkg/logger"
)

const defaultPageSize = 20

// ErrNotLoggedIn is returned by profile operations without a Session.
var ErrNotLoggedIn = errors.New("not logged in")

// Service encapsulates user administration and the signed-in user's profile
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// List returns one page of users. Pages are zero-based.
func (s *Service) List(ctx context.Context, page, size int) (*apiclient.Page[models.User], error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	return s.repo.List(ctx, page, size)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, req models.ProfileRequest) (int64, error) {
	return s.repo.Update(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Profile loads the signed-in user.
func (s *Service) Profile(ctx context.Context, store session.Store) (*models.User, error) {
	sess, ok := store.Current(ctx)
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return s.repo.Get(ctx, sess.UserID)
}

// UpdateProfile changes the signed-in user's name and refreshes the display
// data kept in the Session. Roles and token are left as they are.
func (s *Service) UpdateProfile(ctx context.Context, store session.Store, req models.ProfileRequest) (int64, error) {
	sess, ok := store.Current(ctx)
	if !ok {
		return 0, ErrNotLoggedIn
	}
	req.ID = sess.UserID
	id, err := s.repo.UpdateProfile(ctx, req)
	if err != nil {
		return 0, err
	}
	sess.Profile.FirstName = req.FirstName
	sess.Profile.LastName = req.LastName
	if req.Email != "" {
		sess.Profile.Email = req.Email
	}
	if err := store.Save(ctx, sess); err != nil {
		return id, fmt.Errorf("profile updated but session refresh failed: %w", err)
	}
	logger.Debugf("users: profile of %d updated", sess.UserID)
	return id, nil
}
