package users

import (
	"context"
	"fmt"

	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/models"
)

const usersPath = "/api/v1/users"

// UserRepository defines the user operations offered by the backend
type UserRepository interface {
	List(ctx context.Context, page, size int) (*apiclient.Page[models.User], error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, req models.ProfileRequest) (int64, error)
	UpdateProfile(ctx context.Context, req models.ProfileRequest) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// APIUserRepository implements UserRepository over the authenticated client
type APIUserRepository struct {
	client *apiclient.Client
}

// NewAPIUserRepository uses c, which should already be bound to the caller's Store
func NewAPIUserRepository(c *apiclient.Client) *APIUserRepository {
	return &APIUserRepository{client: c}
}

func (r *APIUserRepository) List(ctx context.Context, page, size int) (*apiclient.Page[models.User], error) {
	var env apiclient.Envelope[apiclient.Page[models.User]]
	if err := r.client.Get(ctx, fmt.Sprintf("%s?page=%d&size=%d", usersPath, page, size), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (r *APIUserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	var env apiclient.Envelope[models.User]
	if err := r.client.Get(ctx, fmt.Sprintf("%s/%d", usersPath, id), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (r *APIUserRepository) Update(ctx context.Context, req models.ProfileRequest) (int64, error) {
	var env apiclient.Envelope[models.CommandResponse]
	if err := r.client.Put(ctx, usersPath, req, &env); err != nil {
		return 0, err
	}
	return env.Data.ID, nil
}

func (r *APIUserRepository) UpdateProfile(ctx context.Context, req models.ProfileRequest) (int64, error) {
	var env apiclient.Envelope[models.CommandResponse]
	if err := r.client.Put(ctx, usersPath+"/profile", req, &env); err != nil {
		return 0, err
	}
	return env.Data.ID, nil
}

func (r *APIUserRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, fmt.Sprintf("%s/%d", usersPath, id), nil)
}
