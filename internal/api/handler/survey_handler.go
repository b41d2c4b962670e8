package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

// SurveyHandler handles HTTP requests for survey templates and submissions.
type SurveyHandler struct {
	service ports.SurveyService
}

func NewSurveyHandler(service ports.SurveyService) *SurveyHandler {
	return &SurveyHandler{service: service}
}

type createTemplateRequest struct {
	TemplateName    string                  `json:"template_name"    validate:"required"`
	Questions       []domain.SurveyQuestion `json:"questions"        validate:"required,min=1"`
	ConsentQuestion string                  `json:"consent_question"`
	IsDefault       bool                    `json:"is_default"`
}

type submitSurveyRequest struct {
	VoterID     string                 `json:"voter_id"     validate:"required"`
	TemplateID  string                 `json:"template_id"  validate:"required"`
	Responses   []domain.SurveyAnswer  `json:"responses"    validate:"required,min=1"`
	GPSLocation *domain.GPSCoordinates `json:"gps_location"`
	DeviceID    string                 `json:"device_id"`
}

// CreateTemplate handles POST /v1/surveys/templates.
//
// @Summary      Create a survey template
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTemplateRequest  true  "Template details"
// @Success      201   {object}  domain.SurveyTemplate
// @Failure      400   {object}  map[string]string
// @Router       /v1/surveys/templates [post]
func (h *SurveyHandler) CreateTemplate(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	template, err := h.service.CreateTemplate(c.Request().Context(), claims, ports.CreateTemplateInput{
		TemplateName:    req.TemplateName,
		Questions:       req.Questions,
		ConsentQuestion: req.ConsentQuestion,
		IsDefault:       req.IsDefault,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, template)
}

// GetTemplate handles GET /v1/surveys/templates/:id.
//
// @Summary      Get a survey template
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Template id"
// @Success      200  {object}  domain.SurveyTemplate
// @Failure      404  {object}  map[string]string
// @Router       /v1/surveys/templates/{id} [get]
func (h *SurveyHandler) GetTemplate(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	template, err := h.service.GetTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, template)
}

// ListTemplates handles GET /v1/surveys/templates.
//
// @Summary      List visible survey templates
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.SurveyTemplate
// @Router       /v1/surveys/templates [get]
func (h *SurveyHandler) ListTemplates(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	templates, err := h.service.ListTemplates(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, templates)
}

// Submit handles POST /v1/surveys/submit.
//
// @Summary      Submit a completed survey
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitSurveyRequest  true  "Completed survey"
// @Success      201   {object}  domain.Survey
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/surveys/submit [post]
func (h *SurveyHandler) Submit(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req submitSurveyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	survey, err := h.service.Submit(c.Request().Context(), claims, ports.SubmitSurveyInput{
		VoterID:     req.VoterID,
		TemplateID:  req.TemplateID,
		Responses:   req.Responses,
		GPSLocation: req.GPSLocation,
		DeviceID:    req.DeviceID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, survey)
}

// VoterSurveys handles GET /v1/surveys/voter/:voter_id.
//
// @Summary      List surveys for a voter
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Param        voter_id  path  string  true  "Voter id"
// @Success      200  {array}  domain.Survey
// @Router       /v1/surveys/voter/{voter_id} [get]
func (h *SurveyHandler) VoterSurveys(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	surveys, err := h.service.VoterSurveys(c.Request().Context(), c.Param("voter_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, surveys)
}

// MySurveys handles GET /v1/surveys/my-surveys.
//
// @Summary      List the requester's submitted surveys
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Survey
// @Router       /v1/surveys/my-surveys [get]
func (h *SurveyHandler) MySurveys(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	surveys, err := h.service.MySurveys(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, surveys)
}

// Statistics handles GET /v1/surveys/statistics.
//
// @Summary      Survey statistics
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.SurveyStatistics
// @Router       /v1/surveys/statistics [get]
func (h *SurveyHandler) Statistics(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Statistics(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
