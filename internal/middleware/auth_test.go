package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"accounts/internal/model"
	"accounts/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func issue(t *testing.T, issuer *service.TokenIssuer, role model.Role) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	tok, _, err := issuer.Issue(id, role)
	require.NoError(t, err)
	return id, tok
}

func TestBearerToken(t *testing.T) {
	for _, h := range []string{"", "BadHeader", "Basic abc", "Bearer ", "Bearer    "} {
		ctx, _ := newContext(h)
		_, err := bearerToken(ctx)
		require.ErrorIs(t, err, model.ErrInvalidToken, h)
	}

	ctx, _ := newContext("bearer abc.def")
	tok, err := bearerToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc.def", tok)
}

func TestRequireAuth(t *testing.T) {
	issuer := service.NewTokenIssuer("secret", time.Minute)
	id, tok := issue(t, issuer, model.RoleUser)

	ctx, rec := newContext("Bearer " + tok)
	require.NoError(t, RequireAuth(issuer)(okHandler)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	got, ok := IdentityFrom(ctx)
	require.True(t, ok)
	require.Equal(t, id, got.UserID)

	ctx, _ = newContext("Bearer invalid")
	require.ErrorIs(t, RequireAuth(issuer)(okHandler)(ctx), model.ErrInvalidToken)

	other := service.NewTokenIssuer("other", time.Minute)
	_, foreign := issue(t, other, model.RoleUser)
	ctx, _ = newContext("Bearer " + foreign)
	require.ErrorIs(t, RequireAuth(issuer)(okHandler)(ctx), model.ErrInvalidToken)
}

func TestRequireRole(t *testing.T) {
	issuer := service.NewTokenIssuer("secret", time.Minute)
	_, userTok := issue(t, issuer, model.RoleUser)
	_, adminTok := issue(t, issuer, model.RoleAdmin)

	cases := []struct {
		name   string
		auth   string
		roles  []model.Role
		expect error
	}{
		{"no token", "", []model.Role{model.RoleUser}, model.ErrInvalidToken},
		{"user on user route", "Bearer " + userTok, []model.Role{model.RoleUser}, nil},
		{"admin on admin route", "Bearer " + adminTok, []model.Role{model.RoleAdmin}, nil},
		{"user on admin route", "Bearer " + userTok, []model.Role{model.RoleAdmin}, model.ErrAccessDenied},
		{"admin on user route", "Bearer " + adminTok, []model.Role{model.RoleUser}, model.ErrAccessDenied},
		{"admin on shared route", "Bearer " + adminTok, []model.Role{model.RoleUser, model.RoleAdmin}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, rec := newContext(tc.auth)
			called := false
			err := RequireRole(issuer, tc.roles...)(func(c echo.Context) error {
				called = true
				return okHandler(c)
			})(ctx)
			if tc.expect == nil {
				require.NoError(t, err)
				require.True(t, called)
				require.Equal(t, http.StatusOK, rec.Code)
				return
			}
			require.ErrorIs(t, err, tc.expect)
			require.False(t, called)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	issuer := service.NewTokenIssuer("secret", time.Minute)
	id, tok := issue(t, issuer, model.RoleAdmin)

	for _, h := range []string{"", "Bearer junk", "garbage"} {
		ctx, _ := newContext(h)
		require.NoError(t, OptionalAuth(issuer)(okHandler)(ctx))
		_, ok := IdentityFrom(ctx)
		require.False(t, ok)
	}

	ctx, _ := newContext("Bearer " + tok)
	require.NoError(t, OptionalAuth(issuer)(okHandler)(ctx))
	got, ok := IdentityFrom(ctx)
	require.True(t, ok)
	require.Equal(t, model.Identity{UserID: id, Role: model.RoleAdmin}, got)
}
