// Package solargrid wraps the backend's solar grid and simulator endpoints.
package solargrid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/models"
)

const (
	basePath      = "/api/v1/solar-grid"
	simulatorPath = "/api/v1/solar-simulator/load"
)

// Notices shown after successful commands.
const (
	NoticeCreated = "Solar Grid created successfully"
	NoticeUpdated = "Solar-grid updated successfully"
	NoticeDeleted = "Solar Grid deleted successfully"
)

// Service calls the backend with whatever Session the client is bound to.
type Service struct {
	client *apiclient.Client
}

func NewService(c *apiclient.Client) *Service {
	return &Service{client: c}
}

// ListByUser returns the grids of userID. The backend answers 404 when the
// user has none, which is reported as an empty list.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]models.SolarGrid, error) {
	var env apiclient.Envelope[apiclient.Page[models.SolarGrid]]
	err := s.client.Get(ctx, fmt.Sprintf("%s/user/%d", basePath, userID), &env)
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return []models.SolarGrid{}, nil
	}
	if err != nil {
		return nil, err
	}
	if env.Data.Content == nil {
		return []models.SolarGrid{}, nil
	}
	return env.Data.Content, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.SolarGrid, error) {
	var env apiclient.Envelope[models.SolarGrid]
	if err := s.client.Get(ctx, fmt.Sprintf("%s/%d", basePath, id), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (s *Service) Create(ctx context.Context, g models.SolarGrid) (int64, error) {
	g.ID = 0
	var env apiclient.Envelope[models.CommandResponse]
	if err := s.client.Post(ctx, basePath, g, &env); err != nil {
		return 0, err
	}
	return env.Data.ID, nil
}

// Update replaces the grid identified by g.ID.
func (s *Service) Update(ctx context.Context, g models.SolarGrid) (int64, error) {
	if g.ID == 0 {
		return 0, &apiclient.ValidationError{Status: http.StatusBadRequest, Fields: []apiclient.FieldError{{Field: "id", Message: "must not be null"}}}
	}
	var env apiclient.Envelope[models.CommandResponse]
	if err := s.client.Put(ctx, basePath, g, &env); err != nil {
		return 0, err
	}
	return env.Data.ID, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), nil)
}

// LoadSimulation sends a batch of grids to the simulator and returns its
// textual production report.
func (s *Service) LoadSimulation(ctx context.Context, grids []models.SimulationLoad) (string, error) {
	var env apiclient.Envelope[string]
	if err := s.client.Post(ctx, simulatorPath, grids, &env); err != nil {
		return "", err
	}
	return env.Data, nil
}
