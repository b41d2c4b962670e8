package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

func TestCtxClaims(t *testing.T) {
	e := echo.New()

	t.Run("complete claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := authedContext(e, req, httptest.NewRecorder(), testAdminClaims())

		claims, err := ctxClaims(c)
		if err != nil {
			t.Fatalf("ctxClaims returned error: %v", err)
		}
		if claims.UserID != "adm-1" || claims.Role != domain.RoleAdmin {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	})

	t.Run("missing claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		_, err := ctxClaims(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 HTTPError, got %v", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("user_id", "u-1")
		c.Set("role", "manager")

		_, err := ctxClaims(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 HTTPError, got %v", err)
		}
	})
}
