package handler

import (
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// authedContext builds a context carrying the claims the Auth middleware
// would have injected.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, claims domain.Claims) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("role", string(claims.Role))
	c.Set("email", claims.Email)
	return c
}

func testAdminClaims() domain.Claims {
	return domain.Claims{UserID: "adm-1", Username: "admin1", Role: domain.RoleAdmin, Email: "admin1@example.com"}
}

func testKaryakartaClaims() domain.Claims {
	return domain.Claims{UserID: "k-1", Username: "field1", Role: domain.RoleKaryakarta, Email: "field1@example.com"}
}
