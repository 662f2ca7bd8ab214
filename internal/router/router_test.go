package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-center/internal/config"
	"user-center/internal/database"
	"user-center/internal/dto"
	"user-center/internal/middleware"
	"user-center/internal/repository"
	"user-center/internal/service"
	"user-center/internal/uow"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "router-test-secret"

type harness struct {
	e     *echo.Echo
	store *repository.FakeUserRepository
	units *uow.FakeFactory
	deps  service.Deps
	db    *database.FakeDB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	var cfg config.Config
	cfg.App.Name = "User Center"
	cfg.App.Version = "0.1.0"
	cfg.Server.CORSOrigins = "*"

	codec, err := service.NewTokenCodec(testSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)

	store := repository.NewFakeUserRepository()
	units := uow.NewFakeFactory(store)
	deps := service.Deps{Hasher: service.NewBcryptHasher(bcrypt.MinCost), Tokens: codec, Logger: zap.NewNop()}
	db := &database.FakeDB{PingFn: func(context.Context) error { return nil }}

	e := New(Deps{Config: cfg, DB: db, Units: units, Services: deps, Logger: zap.NewNop()})
	return &harness{e: e, store: store, units: units, deps: deps, db: db}
}

func (h *harness) seed(t *testing.T, username, password string, active bool) string {
	t.Helper()
	var id string
	err := uow.Run(context.Background(), h.units, func(ctx context.Context, w uow.UnitOfWork) error {
		created, err := h.deps.Users(w).Create(ctx, dto.CreateUserRequest{Username: username, Name: username, Password: password})
		if err != nil {
			return err
		}
		id = created.ID
		if !active {
			_, err = h.deps.Users(w).ToggleActive(ctx, id)
		}
		return err
	})
	require.NoError(t, err)
	return id
}

func (h *harness) token(t *testing.T, username string) string {
	t.Helper()
	tok, err := h.deps.Tokens.Sign(username)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Code    int             `json:"code"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (h *harness) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
		require.Equal(t, rec.Code, env.Code)
	}
	return rec, env
}

func message(env envelope) string {
	if env.Message == nil {
		return ""
	}
	return *env.Message
}

func TestSetupRoutes(t *testing.T) {
	h := newHarness(t)

	got := map[string]struct{}{}
	for _, r := range h.e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /",
		http.MethodGet + " /health",
		http.MethodGet + " /swagger/*",
		http.MethodPost + " /api/v1/auth/login",
		http.MethodPost + " /api/v1/auth/logout",
		http.MethodGet + " /api/v1/auth/me",
		http.MethodGet + " /api/v1/users/me",
		http.MethodGet + " /api/v1/users",
		http.MethodPost + " /api/v1/users",
		http.MethodGet + " /api/v1/users/:id",
		http.MethodPut + " /api/v1/users/:id",
		http.MethodDelete + " /api/v1/users/:id",
		http.MethodPatch + " /api/v1/users/:id/toggle-active",
	}
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

func TestRootAndHealth(t *testing.T) {
	h := newHarness(t)

	rec, env := h.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"name":"User Center","version":"0.1.0"}`, string(env.Data))
	require.NotEmpty(t, rec.Header().Get(middleware.HeaderProcessTime))

	rec, env = h.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","database":"ok"}`, string(env.Data))

	h.db.PingFn = func(context.Context) error { return errors.New("down") }
	rec, env = h.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"status":"degraded","database":"unavailable"}`, string(env.Data))
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	rec, env := h.do(t, http.MethodGet, "/api/v1/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "null", string(env.Data))
	require.NotEmpty(t, rec.Header().Get(middleware.HeaderProcessTime))
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "alice", "secret1", true)
	h.seed(t, "bob", "secret2", false)

	rec, env := h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Login successful", message(env))

	var tok struct {
		AccessToken  string  `json:"access_token"`
		TokenType    string  `json:"token_type"`
		ExpiresIn    int     `json:"expires_in"`
		RefreshToken *string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.Equal(t, "bearer", strings.ToLower(tok.TokenType))
	require.Equal(t, 1800, tok.ExpiresIn)
	require.Nil(t, tok.RefreshToken)

	claims, err := h.deps.Tokens.Verify(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)

	rec, env = h.do(t, http.MethodGet, "/api/v1/auth/me", tok.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"username":"alice"`)

	_, unknown := h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"ghost","password":"secret1"}`)
	rec, wrong := h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"alice","password":"nope12"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, message(unknown), message(wrong))

	rec, env = h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"bob","password":"secret2"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "User account is disabled", message(env))

	rec, _ = h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"alice"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "alice", "secret1", true)

	rec, env := h.do(t, http.MethodPost, "/api/v1/auth/logout", h.token(t, "alice"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logout successful", message(env))
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	h := newHarness(t)
	id := h.seed(t, "alice", "secret1", true)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/" + id},
		{http.MethodPut, "/api/v1/users/" + id},
		{http.MethodDelete, "/api/v1/users/" + id},
		{http.MethodPatch, "/api/v1/users/" + id + "/toggle-active"},
	}
	headers := map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"garbage":   "Bearer not-a-jwt",
		"expired":   "Bearer " + expired,
		"forged":    "Bearer " + forged,
	}

	for _, r := range routes {
		for name, header := range headers {
			req := httptest.NewRequest(r.method, r.path, nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			h.e.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s (%s)", r.method, r.path, name)
			require.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			require.Contains(t, rec.Body.String(), "Could not validate credentials")
		}
	}
	require.Equal(t, 1, h.store.Len())
}

func TestTokenForDeletedUser(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "admin", "secret1", true)
	victim := h.seed(t, "temp", "secret1", true)
	victimToken := h.token(t, "temp")

	rec, env := h.do(t, http.MethodDelete, "/api/v1/users/"+victim, h.token(t, "admin"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User deleted", message(env))

	rec, _ = h.do(t, http.MethodGet, "/api/v1/users/me", victimToken, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = h.do(t, http.MethodGet, "/api/v1/users/"+victim, h.token(t, "admin"), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "User not found", message(env))

	rec, _ = h.do(t, http.MethodDelete, "/api/v1/users/"+victim, h.token(t, "admin"), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAndGetUser(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "admin", "secret1", true)
	tok := h.token(t, "admin")

	rec, env := h.do(t, http.MethodPost, "/api/v1/users", tok,
		`{"username":"carol","name":"Carol","password":"secret9","avatar":"https://x/c.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "User created", message(env))
	require.NotContains(t, string(env.Data), "password")

	var created struct {
		ID       string   `json:"id"`
		IsActive bool     `json:"is_active"`
		Roles    []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.True(t, created.IsActive)
	require.NotNil(t, created.Roles)
	require.Empty(t, created.Roles)

	rec, got := h.do(t, http.MethodGet, "/api/v1/users/"+created.ID, tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, string(env.Data), string(got.Data))
	require.Contains(t, string(got.Data), `"roles":[]`)

	// the new account can log in
	rec, _ = h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"carol","password":"secret9"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateDuplicateUsername(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "admin", "secret1", true)
	tok := h.token(t, "admin")

	rec, first := h.do(t, http.MethodPost, "/api/v1/users", tok, `{"username":"dave","name":"Dave","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := h.do(t, http.MethodPost, "/api/v1/users", tok, `{"username":"dave","name":"Impostor","password":"secret2"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Username already exists", message(env))
	require.Equal(t, 2, h.store.Len())

	var u struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(first.Data, &u))
	_, got := h.do(t, http.MethodGet, "/api/v1/users/"+u.ID, tok, "")
	require.Contains(t, string(got.Data), `"name":"Dave"`)
}

func TestCreateUserValidation(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "admin", "secret1", true)
	tok := h.token(t, "admin")

	rec, env := h.do(t, http.MethodPost, "/api/v1/users", tok, `{"username":"ab","password":"123"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, message(env), "username: must be at least 3 characters")
	require.Contains(t, message(env), "name: field required")
	require.Contains(t, message(env), "password: must be at least 6 characters")

	rec, _ = h.do(t, http.MethodPost, "/api/v1/users", tok, `not json`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, 1, h.store.Len())
}

func TestUpdateUserPartial(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "admin", "secret1", true)
	tok := h.token(t, "admin")

	rec, env := h.do(t, http.MethodPost, "/api/v1/users", tok,
		`{"username":"erin","name":"Erin","password":"secret1","avatar":"a.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var u struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &u))
	path := "/api/v1/users/" + u.ID

	rec, env = h.do(t, http.MethodPut, path, tok, `{"name":"Erin B"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"name":"Erin B"`)
	require.Contains(t, string(env.Data), `"avatar":"a.png"`)

	rec, env = h.do(t, http.MethodPut, path, tok, `{"avatar":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"avatar":null`)
	require.Contains(t, string(env.Data), `"name":"Erin B"`)

	rec, _ = h.do(t, http.MethodPut, path, tok, `{"name":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = h.do(t, http.MethodPut, path, tok, `{"name":null}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = h.do(t, http.MethodPut, "/api/v1/users/missing", tok, `{"name":"X"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleActiveTwice(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "admin", "secret1", true)
	id := h.seed(t, "frank", "secret1", true)
	tok := h.token(t, "admin")
	path := "/api/v1/users/" + id + "/toggle-active"

	rec, env := h.do(t, http.MethodPatch, path, tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"is_active":false`)

	rec, _ = h.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"frank","password":"secret1"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = h.do(t, http.MethodPatch, path, tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"is_active":true`)
}

func TestListUsersPagination(t *testing.T) {
	h := newHarness(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	h.store.Clock = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	for i := 0; i < 150; i++ {
		h.seed(t, fmt.Sprintf("user%03d", i), "secret1", i%3 != 0)
	}
	// user001 is active and was never toggled
	tok := h.token(t, "user001")

	type page struct {
		Items []struct {
			Username string `json:"username"`
		} `json:"items"`
		Total int `json:"total"`
		Skip  int `json:"skip"`
		Limit int `json:"limit"`
	}

	rec, env := h.do(t, http.MethodGet, "/api/v1/users?skip=100&limit=100", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p page
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, 150, p.Total)
	require.Len(t, p.Items, 50)
	require.Equal(t, 100, p.Skip)
	require.Equal(t, 100, p.Limit)

	_, env = h.do(t, http.MethodGet, "/api/v1/users", tok, "")
	p = page{}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Len(t, p.Items, 100)
	require.Equal(t, "user149", p.Items[0].Username)

	_, env = h.do(t, http.MethodGet, "/api/v1/users?is_active=false&limit=5", tok, "")
	p = page{}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, 50, p.Total)
	require.Len(t, p.Items, 5)

	_, env = h.do(t, http.MethodGet, "/api/v1/users?skip=500", tok, "")
	require.Contains(t, string(env.Data), `"items":[]`)

	for _, q := range []string{"limit=0", "limit=1001", "skip=-1", "skip=abc", "is_active=maybe"} {
		rec, _ := h.do(t, http.MethodGet, "/api/v1/users?"+q, tok, "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, q)
	}

	rec, env = h.do(t, http.MethodGet, "/api/v1/users?skip=x&limit=y&is_active=maybe", tok, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "skip: must be an integer; limit: must be an integer; is_active: must be a boolean", message(env))
}

func TestUsersMe(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "alice", "secret1", true)

	rec, env := h.do(t, http.MethodGet, "/api/v1/users/me", h.token(t, "alice"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"username":"alice"`)
	require.NotContains(t, string(env.Data), "password")
}

func TestFailedMutationIsNotPersisted(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "admin", "secret1", true)
	tok := h.token(t, "admin")

	h.store.FailOn = map[string]error{"Create": errors.New("insert refused")}
	rec, env := h.do(t, http.MethodPost, "/api/v1/users", tok, `{"username":"gina","name":"Gina","password":"secret1"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal server error", message(env))
	require.Equal(t, 1, h.store.Len())
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestUsersGroupUnknownMethod(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "alice", "secret1", true)

	rec, _ := h.do(t, http.MethodPatch, "/api/v1/users", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = h.do(t, http.MethodPatch, "/api/v1/users", h.token(t, "alice"), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateThenToggleInOneUnit(t *testing.T) {
	h := newHarness(t)
	id := h.seed(t, "zed", "secret1", false)

	stored, err := h.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.False(t, stored.IsActive)
	require.Len(t, h.units.Units(), 1)
	require.True(t, h.units.Units()[0].Committed)
}
