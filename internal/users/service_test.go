package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/session"
)

type fakeRepo struct {
	listPage, listSize int
	lastProfile        *models.ProfileRequest
	profileErr         error
	users              map[int64]models.User
}

func (f *fakeRepo) List(ctx context.Context, page, size int) (*apiclient.Page[models.User], error) {
	f.listPage, f.listSize = page, size
	return &apiclient.Page[models.User]{Content: []models.User{{ID: 1, Username: "a"}}, TotalElements: 1}, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, &apiclient.MessageError{Status: http.StatusNotFound, Message: "Requested user is not found"}
	}
	return &u, nil
}

func (f *fakeRepo) Update(ctx context.Context, req models.ProfileRequest) (int64, error) {
	return req.ID, nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, req models.ProfileRequest) (int64, error) {
	f.lastProfile = &req
	return req.ID, f.profileErr
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error { return nil }

func loggedInStore(t *testing.T) session.Store {
	t.Helper()
	store := session.NewMemoryStore()
	s, err := session.New("tok", 12, []string{session.RoleUser}, session.Profile{Username: "alice"})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	if err := store.Save(context.Background(), s); err != nil {
		t.Fatalf("save: %v", err)
	}
	return store
}

func TestList_DefaultsPaging(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	page, err := svc.List(context.Background(), -3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listPage != 0 || repo.listSize != defaultPageSize {
		t.Fatalf("unexpected paging: page=%d size=%d", repo.listPage, repo.listSize)
	}
	if len(page.Content) != 1 {
		t.Fatalf("expected one user, got %d", len(page.Content))
	}
}

func TestUpdateProfile_RefreshesSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	store := loggedInStore(t)
	ctx := context.Background()

	// the id in the request is ignored in favor of the session's user
	id, err := svc.UpdateProfile(ctx, store, models.ProfileRequest{ID: 999, FirstName: "Alice", LastName: "Liddell"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 12 || repo.lastProfile.ID != 12 {
		t.Fatalf("expected update for user 12, got id=%d req=%+v", id, repo.lastProfile)
	}
	sess, ok := store.Current(ctx)
	if !ok {
		t.Fatal("session disappeared")
	}
	if got := sess.Profile.DisplayName(); got != "Alice Liddell" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if sess.Token != "tok" || !sess.Roles.Has(session.RoleUser) {
		t.Fatalf("token or roles changed: %+v", sess)
	}
}

func TestUpdateProfile_BackendErrorLeavesSession(t *testing.T) {
	repo := &fakeRepo{profileErr: &apiclient.ValidationError{Status: 400, Fields: []apiclient.FieldError{{Field: "firstName", Message: "must not be blank"}}}}
	svc := NewService(repo)
	store := loggedInStore(t)

	_, err := svc.UpdateProfile(context.Background(), store, models.ProfileRequest{})
	var verr *apiclient.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	sess, _ := store.Current(context.Background())
	if sess.Profile.FirstName != "" {
		t.Fatalf("profile should be unchanged, got %+v", sess.Profile)
	}
}

func TestProfile_RequiresSession(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.Profile(context.Background(), session.NewMemoryStore()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), session.NewMemoryStore(), models.ProfileRequest{}); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestProfile_LoadsSignedInUser(t *testing.T) {
	svc := NewService(&fakeRepo{users: map[int64]models.User{12: {ID: 12, Username: "alice"}}})
	u, err := svc.Profile(context.Background(), loggedInStore(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAPIUserRepository(t *testing.T) {
	var lastPath, lastQuery, lastMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath, lastQuery, lastMethod = r.URL.Path, r.URL.RawQuery, r.Method
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users":
			_, _ = w.Write([]byte(`{"message":"Success","data":{"content":[{"id":1,"username":"a","fullName":"A B"}],"totalElements":1,"totalPages":1}}`))
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"message":"Success","data":{"id":1}}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Access is denied"}`))
		}
	}))
	defer srv.Close()

	repo := NewAPIUserRepository(apiclient.New(srv.URL).Bind(loggedInStore(t)))
	ctx := context.Background()

	page, err := repo.List(ctx, 2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if lastQuery != "page=2&size=10" || page.Content[0].DisplayName() != "A B" {
		t.Fatalf("unexpected list result: query=%q page=%+v", lastQuery, page)
	}

	if _, err := repo.UpdateProfile(ctx, models.ProfileRequest{ID: 1, FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if lastPath != "/api/v1/users/profile" || lastMethod != http.MethodPut {
		t.Fatalf("unexpected request %s %s", lastMethod, lastPath)
	}

	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = repo.Get(ctx, 1)
	if got := apiclient.Notices(err); len(got) != 1 || got[0] != "Access is denied" {
		t.Fatalf("unexpected notices: %v", got)
	}
}
