package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-center/internal/apperror"
	"user-center/internal/middleware"
	"user-center/internal/model"
	"user-center/internal/repository"
	"user-center/internal/service"
	"user-center/internal/uow"
	"user-center/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type errBinder struct{}

func (errBinder) Bind(any, echo.Context) error { return errors.New("bind") }

func testDeps(t *testing.T) service.Deps {
	t.Helper()
	codec, err := service.NewTokenCodec("secret", "HS256", 30*time.Minute)
	require.NoError(t, err)
	return service.Deps{Hasher: service.NewBcryptHasher(bcrypt.MinCost), Tokens: codec, Logger: zap.NewNop()}
}

// newLoginCtx builds a context with a unit of work over store already attached.
func newLoginCtx(t *testing.T, e *echo.Echo, store *repository.FakeUserRepository, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	w, err := uow.NewFakeFactory(store).Begin(context.Background())
	require.NoError(t, err)
	c.Set(middleware.ContextUnitOfWorkKey, w)
	return c, rec
}

func seedUser(t *testing.T, deps service.Deps, store *repository.FakeUserRepository, username, password string, active bool) {
	t.Helper()
	digest, err := deps.Hasher.Hash(password)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), &model.User{
		Username: username, Name: username, PasswordHash: digest, IsActive: active,
	}))
}

func TestLoginHandler(t *testing.T) {
	deps := testDeps(t)
	e := echo.New()
	e.Validator = validation.New()

	store := repository.NewFakeUserRepository()
	seedUser(t, deps, store, "alice", "secret1", true)
	seedUser(t, deps, store, "bob", "secret1", false)

	t.Run("bind error", func(t *testing.T) {
		e2 := echo.New()
		e2.Binder = errBinder{}
		e2.Validator = validation.New()
		c, _ := newLoginCtx(t, e2, store, `{}`)
		err := LoginHandler(deps)(c)
		require.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("validation error", func(t *testing.T) {
		c, _ := newLoginCtx(t, e, store, `{"username":"alice"}`)
		err := LoginHandler(deps)(c)
		require.True(t, apperror.IsKind(err, apperror.KindValidation))
		require.Contains(t, err.Error(), "password: field required")
	})

	t.Run("wrong password", func(t *testing.T) {
		c, _ := newLoginCtx(t, e, store, `{"username":"alice","password":"nope"}`)
		err := LoginHandler(deps)(c)
		require.True(t, apperror.IsKind(err, apperror.KindAuthentication))
	})

	t.Run("disabled", func(t *testing.T) {
		c, _ := newLoginCtx(t, e, store, `{"username":"bob","password":"secret1"}`)
		err := LoginHandler(deps)(c)
		require.True(t, apperror.IsKind(err, apperror.KindAuthorization))
	})

	t.Run("success", func(t *testing.T) {
		c, rec := newLoginCtx(t, e, store, `{"username":"alice","password":"secret1"}`)
		require.NoError(t, LoginHandler(deps)(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"message":"Login successful"`)
		require.Contains(t, rec.Body.String(), `"expires_in":1800`)
		require.Contains(t, rec.Body.String(), `"refresh_token":null`)
	})
}

func TestLogoutHandler(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), rec)
	require.NoError(t, LogoutHandler()(c))
	require.JSONEq(t, `{"code":200,"message":"Logout successful","data":null}`, rec.Body.String())
}

func TestMeHandler(t *testing.T) {
	e := echo.New()

	t.Run("no user", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		err := MeHandler()(c)
		require.True(t, apperror.IsKind(err, apperror.KindAuthentication))
		appErr, _ := apperror.As(err)
		require.Equal(t, middleware.MsgInvalidCredentials, appErr.Message)
	})

	t.Run("user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set(middleware.ContextUserKey, &model.User{ID: "u1", Username: "alice", Name: "Alice", PasswordHash: "digest", IsActive: true})
		require.NoError(t, MeHandler()(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"username":"alice"`)
		require.Contains(t, rec.Body.String(), `"roles":[]`)
		require.NotContains(t, rec.Body.String(), "digest")
	})
}
