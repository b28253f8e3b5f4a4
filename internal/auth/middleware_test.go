package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
)

// fakeUserStore implements the subset of repository.UserRepository the
// middleware touches. getErr, when set, fails every GetByID the way a
// store outage would.
type fakeUserStore struct {
	users  map[string]*model.User
	getErr error
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	return false, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserStore) UpdatePasswordHash(ctx context.Context, id, hash string) error { return nil }

func newGuardedMux(t *testing.T, users *fakeUserStore) (*TokenService, http.Handler) {
	t.Helper()

	ts := newTestTokenService(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("handler ran without a user in context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(user.ID))
	})

	return ts, RequireAuth(ts, users, logger)(handler)
}

func request(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_ValidToken(t *testing.T) {
	users := &fakeUserStore{users: map[string]*model.User{
		"user-1": {ID: "user-1", Username: "mina", IsActive: true},
	}}
	ts, handler := newGuardedMux(t, users)

	token, _ := ts.Issue("user-1")
	rec := request(handler, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("handler saw user %q, want %q", rec.Body.String(), "user-1")
	}
}

func TestRequireAuth_SchemeIsCaseInsensitive(t *testing.T) {
	users := &fakeUserStore{users: map[string]*model.User{
		"user-1": {ID: "user-1", IsActive: true},
	}}
	ts, handler := newGuardedMux(t, users)

	token, _ := ts.Issue("user-1")
	rec := request(handler, "bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for lowercase scheme", rec.Code)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	_, handler := newGuardedMux(t, &fakeUserStore{users: map[string]*model.User{}})

	rec := request(handler, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	ts, handler := newGuardedMux(t, &fakeUserStore{users: map[string]*model.User{}})

	token, _ := ts.Issue("user-1")
	rec := request(handler, "Basic "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for non-Bearer scheme", rec.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	_, handler := newGuardedMux(t, &fakeUserStore{users: map[string]*model.User{}})

	rec := request(handler, "Bearer not-a-real-token")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	users := &fakeUserStore{users: map[string]*model.User{
		"user-1": {ID: "user-1", IsActive: true},
	}}
	ts, handler := newGuardedMux(t, users)

	token, _ := ts.IssueWithDuration("user-1", -1*time.Second)
	rec := request(handler, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for expired token", rec.Code)
	}
}

func TestRequireAuth_UnknownSubject(t *testing.T) {
	ts, handler := newGuardedMux(t, &fakeUserStore{users: map[string]*model.User{}})

	// Valid signature, but the subject maps to no stored user. The
	// response must be the same 401 as a bad token.
	token, _ := ts.Issue("ghost-user")
	rec := request(handler, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for unknown subject", rec.Code)
	}
}

func TestRequireAuth_StoreFailure(t *testing.T) {
	users := &fakeUserStore{getErr: context.DeadlineExceeded}
	ts, handler := newGuardedMux(t, users)

	// The token is perfectly valid; only the store is down. That must not
	// read as an identity failure.
	token, _ := ts.Issue("user-1")
	rec := request(handler, "Bearer "+token)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when the user lookup fails", rec.Code)
	}
}

func TestRequireAuth_InactiveUser(t *testing.T) {
	users := &fakeUserStore{users: map[string]*model.User{
		"user-1": {ID: "user-1", IsActive: false},
	}}
	ts, handler := newGuardedMux(t, users)

	token, _ := ts.Issue("user-1")
	rec := request(handler, "Bearer "+token)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for deactivated user", rec.Code)
	}
}

func TestUserFromContext_Anonymous(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("UserFromContext() on an empty context should report no user")
	}
}
