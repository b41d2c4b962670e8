package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/ports"
)

// DashboardHandler serves the role-specific aggregate views.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Karyakarta handles GET /v1/dashboard/karyakarta.
//
// @Summary      Field worker dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.KaryakartaDashboard
// @Router       /v1/dashboard/karyakarta [get]
func (h *DashboardHandler) Karyakarta(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	dash, err := h.service.Karyakarta(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

// Admin handles GET /v1/dashboard/admin.
//
// @Summary      Admin team dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AdminDashboard
// @Router       /v1/dashboard/admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	dash, err := h.service.Admin(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

// SuperAdmin handles GET /v1/dashboard/super-admin.
//
// @Summary      Global dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.SuperAdminDashboard
// @Router       /v1/dashboard/super-admin [get]
func (h *DashboardHandler) SuperAdmin(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	dash, err := h.service.SuperAdmin(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}
