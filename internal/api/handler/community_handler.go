package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

// CommunityHandler covers families, influencers, and issues.
type CommunityHandler struct {
	service ports.CommunityService
}

func NewCommunityHandler(service ports.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

type createInfluencerRequest struct {
	Name           string   `json:"name"            validate:"required"`
	VoterID        string   `json:"voter_id"`
	Area           string   `json:"area"            validate:"required"`
	NetworkSize    int      `json:"network_size"    validate:"omitempty,gte=0"`
	InfluenceLevel int      `json:"influence_level" validate:"omitempty,gte=1,lte=5"`
	LinkedVoters   []string `json:"linked_voters"`
	Notes          string   `json:"notes"`
	ContactInfo    string   `json:"contact_info"`
}

type createIssueRequest struct {
	VoterID     string `json:"voter_id"    validate:"required"`
	IssueType   string `json:"issue_type"  validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    int    `json:"priority"    validate:"omitempty,gte=1,lte=5"`
}

// GetFamily handles GET /v1/families/:family_id.
//
// @Summary      Get a family by its family id
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        family_id  path  string  true  "Family id"
// @Success      200  {object}  domain.Family
// @Failure      404  {object}  map[string]string
// @Router       /v1/families/{family_id} [get]
func (h *CommunityHandler) GetFamily(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	family, err := h.service.GetFamily(c.Request().Context(), c.Param("family_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, family)
}

// ListFamilies handles GET /v1/families, optionally filtered by ?area=.
//
// @Summary      List families
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        area  query  string  false  "Filter by area"
// @Success      200  {array}  domain.Family
// @Router       /v1/families [get]
func (h *CommunityHandler) ListFamilies(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	families, err := h.service.ListFamilies(c.Request().Context(), c.QueryParam("area"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, families)
}

// CreateInfluencer handles POST /v1/influencers.
//
// @Summary      Create an influencer record
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInfluencerRequest  true  "Influencer details"
// @Success      201   {object}  domain.Influencer
// @Failure      400   {object}  map[string]string
// @Router       /v1/influencers [post]
func (h *CommunityHandler) CreateInfluencer(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createInfluencerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	influencer, err := h.service.CreateInfluencer(c.Request().Context(), claims, ports.CreateInfluencerInput{
		Name:           req.Name,
		VoterID:        req.VoterID,
		Area:           req.Area,
		NetworkSize:    req.NetworkSize,
		InfluenceLevel: req.InfluenceLevel,
		LinkedVoters:   req.LinkedVoters,
		Notes:          req.Notes,
		ContactInfo:    req.ContactInfo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, influencer)
}

// ListInfluencers handles GET /v1/influencers, optionally filtered by ?area=.
//
// @Summary      List influencers
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        area  query  string  false  "Filter by area"
// @Success      200  {array}  domain.Influencer
// @Router       /v1/influencers [get]
func (h *CommunityHandler) ListInfluencers(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	influencers, err := h.service.ListInfluencers(c.Request().Context(), c.QueryParam("area"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, influencers)
}

// CreateIssue handles POST /v1/issues.
//
// @Summary      Report a voter-linked issue
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIssueRequest  true  "Issue details"
// @Success      201   {object}  domain.Issue
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/issues [post]
func (h *CommunityHandler) CreateIssue(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	issue, err := h.service.CreateIssue(c.Request().Context(), claims, ports.CreateIssueInput{
		VoterID:     req.VoterID,
		IssueType:   req.IssueType,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, issue)
}

// ListIssues handles GET /v1/issues, optionally filtered by ?status=.
//
// @Summary      List issues
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Filter by status (open/resolved)"
// @Success      200  {array}  domain.Issue
// @Router       /v1/issues [get]
func (h *CommunityHandler) ListIssues(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	issues, err := h.service.ListIssues(c.Request().Context(), domain.IssueStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issues)
}

// ResolveIssue handles PUT /v1/issues/:id/resolve.
//
// @Summary      Resolve an issue
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Issue id"
// @Success      200  {object}  domain.Issue
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/issues/{id}/resolve [put]
func (h *CommunityHandler) ResolveIssue(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	issue, err := h.service.ResolveIssue(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issue)
}
