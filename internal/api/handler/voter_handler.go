package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

// VoterHandler handles HTTP requests for the voter directory.
type VoterHandler struct {
	service ports.VoterService
}

func NewVoterHandler(service ports.VoterService) *VoterHandler {
	return &VoterHandler{service: service}
}

// Create handles POST /v1/voters.
//
// @Summary      Create a voter
// @Tags         voters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      voterRequest  true  "Voter details"
// @Success      201   {object}  domain.Voter
// @Failure      400   {object}  map[string]string
// @Router       /v1/voters [post]
func (h *VoterHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req voterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	voter, err := h.service.Create(c.Request().Context(), claims, voterInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, voter)
}

// Get handles GET /v1/voters/:id.
//
// @Summary      Get a voter
// @Tags         voters
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Voter id"
// @Success      200  {object}  domain.Voter
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/voters/{id} [get]
func (h *VoterHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	voter, err := h.service.Get(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, voter)
}

// Update handles PUT /v1/voters/:id.
//
// @Summary      Update a voter
// @Tags         voters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Voter id"
// @Param        body  body      updateVoterRequest  true  "Voter fields"
// @Success      200   {object}  domain.Voter
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/voters/{id} [put]
func (h *VoterHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateVoterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateVoterInput{
		VoterID:     req.VoterID,
		Name:        req.Name,
		Surname:     req.Surname,
		FullName:    req.FullName,
		Age:         req.Age,
		DateOfBirth: req.DateOfBirth,
		Caste:       req.Caste,
		Religion:    req.Religion,
		Area:        req.Area,
		Ward:        req.Ward,
		BoothNumber: req.BoothNumber,
		BoothName:   req.BoothName,
		Address:     req.Address,
		Pincode:     req.Pincode,
		Phone:       req.Phone,
		Email:       req.Email,
		FamilyID:    req.FamilyID,
	}
	if req.Gender != nil {
		gender := domain.Gender(*req.Gender)
		in.Gender = &gender
	}

	voter, err := h.service.Update(c.Request().Context(), claims, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, voter)
}

// Delete handles DELETE /v1/voters/:id.
//
// @Summary      Delete a voter
// @Tags         voters
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Voter id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/voters/{id} [delete]
func (h *VoterHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "voter deleted"})
}

// List handles GET /v1/voters with filter, search, and pagination params.
//
// @Summary      List voters
// @Tags         voters
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (1-based)"
// @Param        limit   query     int     false  "Page size"
// @Param        search  query     string  false  "Full-text search"
// @Success      200     {object}  listVotersResponse
// @Router       /v1/voters [get]
func (h *VoterHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), claims, ports.ListVotersInput{
		Filter: voterFilterFromQuery(c),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listVotersResponse{
		Items: result.Items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
		Pages: result.Pages,
	})
}

// Assign handles POST /v1/voters/assign.
//
// @Summary      Assign voters to a karyakarta
// @Tags         voters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      assignVotersRequest  true  "Assignment"
// @Success      200   {object}  assignVotersResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/voters/assign [post]
func (h *VoterHandler) Assign(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req assignVotersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Assign(c.Request().Context(), claims, req.VoterIDs, req.KaryakartaID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignVotersResponse{ModifiedCount: result.ModifiedCount})
}

// BulkUpdate handles PUT /v1/voters/bulk-update.
//
// @Summary      Bulk-update voters
// @Tags         voters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkUpdateRequest  true  "Ids and field updates"
// @Success      200   {object}  bulkUpdateResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/voters/bulk-update [put]
func (h *VoterHandler) BulkUpdate(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req bulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	modified, err := h.service.BulkUpdate(c.Request().Context(), claims, req.VoterIDs, req.Updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkUpdateResponse{ModifiedCount: modified})
}

// MarkVisited handles PUT /v1/voters/:id/visited.
//
// @Summary      Mark a voter visited
// @Tags         voters
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Voter id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/voters/{id}/visited [put]
func (h *VoterHandler) MarkVisited(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkVisited(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "voter marked visited"})
}

// MarkVoted handles PUT /v1/voters/:id/voted.
//
// @Summary      Mark a voter as having voted
// @Tags         voters
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Voter id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/voters/{id}/voted [put]
func (h *VoterHandler) MarkVoted(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkVoted(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "voter marked voted"})
}

// Stats handles GET /v1/voters/statistics.
//
// @Summary      Scoped voter statistics
// @Tags         voters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.VoterStats
// @Router       /v1/voters/statistics [get]
func (h *VoterHandler) Stats(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// exportHeader is the fixed column order of the CSV export.
var exportHeader = []string{
	"voter_id", "name", "surname", "full_name", "gender", "age",
	"area", "ward", "booth_number", "caste", "phone", "address",
	"favor_score", "favor_category", "visited", "voted", "assigned_to",
}

// Export handles GET /v1/voters/export, streaming the scoped voters as CSV.
//
// @Summary      Export voters as CSV
// @Tags         voters
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /v1/voters/export [get]
func (h *VoterHandler) Export(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	voters, err := h.service.Export(c.Request().Context(), claims, voterFilterFromQuery(c))
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("voters_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for _, v := range voters {
		record := []string{
			v.VoterID,
			v.Name,
			v.Surname,
			v.FullName,
			string(v.Gender),
			strconv.Itoa(v.Age),
			v.Area,
			v.Ward,
			v.BoothNumber,
			v.Caste,
			v.Phone,
			v.Address,
			strconv.FormatFloat(v.FavorScore, 'f', 1, 64),
			string(v.FavorCategory),
			strconv.FormatBool(v.VisitedStatus),
			strconv.FormatBool(v.VotedStatus),
			v.AssignedTo,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func voterInputFromRequest(req voterRequest) ports.CreateVoterInput {
	return ports.CreateVoterInput{
		VoterID:     req.VoterID,
		Name:        strings.TrimSpace(req.Name),
		Surname:     strings.TrimSpace(req.Surname),
		FullName:    strings.TrimSpace(req.FullName),
		Gender:      domain.Gender(req.Gender),
		Age:         req.Age,
		DateOfBirth: req.DateOfBirth,
		Caste:       req.Caste,
		Religion:    req.Religion,
		Area:        strings.TrimSpace(req.Area),
		Ward:        req.Ward,
		BoothNumber: req.BoothNumber,
		BoothName:   req.BoothName,
		Address:     req.Address,
		Pincode:     req.Pincode,
		Phone:       req.Phone,
		Email:       req.Email,
		FamilyID:    req.FamilyID,
	}
}
