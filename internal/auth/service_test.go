package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backend(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	got := &http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestLogin_PersistsSession(t *testing.T) {
	srv, got := backend(t, http.StatusOK, `{"token":"jwt-1","type":"Bearer","id":11,"username":"alice","email":"a@example.com","roles":["ROLE_USER"]}`)
	store := session.NewMemoryStore()

	sess, err := NewService(apiclient.New(srv.URL)).Login(context.Background(), store, models.LoginRequest{Username: " alice ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, LoginPath, got.URL.Path)
	assert.Empty(t, got.Header.Get("Authorization"))

	cur, ok := store.Current(context.Background())
	require.True(t, ok)
	assert.Equal(t, sess, cur)
	assert.Equal(t, "jwt-1", cur.Token)
	assert.Equal(t, int64(11), cur.UserID)
	assert.Equal(t, session.RoleSet{session.RoleUser}, cur.Roles)
	assert.Equal(t, "a@example.com", cur.Profile.Email)
}

func TestLogin_EnvelopeAndRoleObjects(t *testing.T) {
	srv, _ := backend(t, http.StatusOK, `{"message":"Success","data":{"token":"jwt-2","id":3,"username":"root","roles":[{"id":2,"type":"ROLE_ADMIN"},{"id":1,"type":"ROLE_USER"}]}}`)
	store := session.NewMemoryStore()

	sess, err := NewService(apiclient.New(srv.URL)).Login(context.Background(), store, models.LoginRequest{Username: "root", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, session.RoleSet{session.RoleAdmin, session.RoleUser}, sess.Roles)
	assert.Equal(t, "jwt-2", sess.Token)
}

func TestLogin_NoRolesIsNotPersisted(t *testing.T) {
	srv, _ := backend(t, http.StatusOK, `{"token":"jwt","id":1,"username":"x","roles":[]}`)
	store := session.NewMemoryStore()

	_, err := NewService(apiclient.New(srv.URL)).Login(context.Background(), store, models.LoginRequest{Username: "x", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidLoginResponse)
	_, ok := store.Current(context.Background())
	assert.False(t, ok)
}

func TestLogin_BadCredentialsKeepsPreviousState(t *testing.T) {
	srv, _ := backend(t, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
	store := session.NewMemoryStore()

	_, err := NewService(apiclient.New(srv.URL)).Login(context.Background(), store, models.LoginRequest{Username: "x", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, []string{"Bad credentials"}, apiclient.Notices(err))
	_, ok := store.Current(context.Background())
	assert.False(t, ok)
}

func TestLogin_BlankCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	_, err := NewService(apiclient.New(srv.URL)).Login(context.Background(), session.NewMemoryStore(), models.LoginRequest{Username: "  "})
	var verr *apiclient.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"username must not be blank", "password must not be blank"}, apiclient.Notices(err))
	assert.False(t, called)
}

func TestSignup(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, SignupPath, r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&sent)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Success","data":{"id":42}}`))
	}))
	defer srv.Close()

	res, err := NewService(apiclient.New(srv.URL)).Signup(context.Background(), models.SignupRequest{Username: "bob", Email: "b@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.ID)
	assert.Equal(t, "bob", sent["username"])
}

func TestSignup_Validation(t *testing.T) {
	srv, _ := backend(t, http.StatusBadRequest, `{"message":"Validation error. Check 'errors' field for details","errors":[{"field":"email","message":"must be a well-formed email address"}]}`)
	_, err := NewService(apiclient.New(srv.URL)).Signup(context.Background(), models.SignupRequest{Username: "bob"})
	assert.Equal(t, []string{"email must be a well-formed email address"}, apiclient.Notices(err))
}

func TestLogout(t *testing.T) {
	store := session.NewMemoryStore()
	s, _ := session.New("tok", 1, []string{session.RoleUser}, session.Profile{})
	require.NoError(t, store.Save(context.Background(), s))

	svc := NewService(apiclient.New("http://unused.invalid"))
	require.NoError(t, svc.Logout(context.Background(), store))
	_, ok := store.Current(context.Background())
	assert.False(t, ok)
	require.NoError(t, svc.Logout(context.Background(), store))
}
