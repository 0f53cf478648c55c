// Package auth turns backend login responses into Sessions and ends them again.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/pkg/logger"
)

const (
	LoginPath  = "/api/v1/auth/login"
	SignupPath = "/api/v1/auth/signup"
)

// ErrInvalidLoginResponse is returned when the backend accepted the
// credentials but the response cannot become a valid Session.
var ErrInvalidLoginResponse = errors.New("invalid login response")

// Service performs the anonymous auth calls. The Store is passed per call so
// one Service can serve every browser context.
type Service struct {
	client *apiclient.Client
}

func NewService(c *apiclient.Client) *Service {
	return &Service{client: c}
}

// roleList accepts ["ROLE_USER"] as well as [{"type":"ROLE_USER"}].
type roleList []string

func (r *roleList) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err == nil {
		*r = names
		return nil
	}
	var objs []struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &objs); err != nil {
		return err
	}
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		if o.Type != "" {
			out = append(out, o.Type)
		} else {
			out = append(out, o.Name)
		}
	}
	*r = out
	return nil
}

type jwtResponse struct {
	Token     string   `json:"token"`
	Type      string   `json:"type"`
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     roleList `json:"roles"`
}

// parseLoginResponse accepts the JWT response either bare or inside the
// standard {message, data} envelope.
func parseLoginResponse(raw json.RawMessage) (*jwtResponse, error) {
	var env apiclient.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && !bytes.Equal(d, []byte("null")) {
			raw = env.Data
		}
	}
	var jr jwtResponse
	if err := json.Unmarshal(raw, &jr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLoginResponse, err)
	}
	return &jr, nil
}

// Login posts the credentials and, on success, saves the new Session to store,
// replacing any previous one. A failed login leaves store untouched.
func (s *Service) Login(ctx context.Context, store session.Store, req models.LoginRequest) (*session.Session, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, &apiclient.ValidationError{Status: http.StatusBadRequest, Fields: missingCredentials(req)}
	}

	var raw json.RawMessage
	if err := s.client.RequestAnonymous(ctx, http.MethodPost, LoginPath, req, &raw); err != nil {
		logger.Infof("auth: login failed for %q: %v", req.Username, err)
		return nil, err
	}
	jr, err := parseLoginResponse(raw)
	if err != nil {
		return nil, err
	}
	if jr.Username == "" {
		jr.Username = req.Username
	}
	sess, err := session.New(jr.Token, jr.ID, jr.Roles, session.Profile{
		Username:  jr.Username,
		Email:     jr.Email,
		FirstName: jr.FirstName,
		LastName:  jr.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLoginResponse, err)
	}
	if err := store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	logger.Infof("auth: %s logged in with roles %v", sess.Profile.Username, []string(sess.Roles))
	return sess, nil
}

func missingCredentials(req models.LoginRequest) []apiclient.FieldError {
	var out []apiclient.FieldError
	if req.Username == "" {
		out = append(out, apiclient.FieldError{Field: "username", Message: "must not be blank"})
	}
	if req.Password == "" {
		out = append(out, apiclient.FieldError{Field: "password", Message: "must not be blank"})
	}
	return out
}

// Signup registers an account. It does not log the user in.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.CommandResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	var env apiclient.Envelope[models.CommandResponse]
	if err := s.client.RequestAnonymous(ctx, http.MethodPost, SignupPath, req, &env); err != nil {
		return nil, err
	}
	logger.Infof("auth: signed up %q (id=%d)", req.Username, env.Data.ID)
	return &env.Data, nil
}

// Logout clears the Session. There is no server-side revocation call.
func (s *Service) Logout(ctx context.Context, store session.Store) error {
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
