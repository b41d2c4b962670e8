package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: user id and role must
// both be present, and the role must be one of the known tiers. A token that
// parses but lacks either is structurally valid yet operationally unusable.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if !domain.Role(role).Valid() {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "unknown role in token")
	}

	username, _ := c.Get("username").(string)
	email, _ := c.Get("email").(string)

	return domain.Claims{
		UserID:   userID,
		Username: username,
		Role:     domain.Role(role),
		Email:    email,
	}, nil
}
