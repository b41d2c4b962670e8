package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

// ImportHandler drives the two-phase bulk-import workflow: upload a CSV or
// Excel file, inspect the returned columns and preview, then commit with a
// column mapping.
type ImportHandler struct {
	service        ports.ImportService
	maxUploadBytes int64
}

func NewImportHandler(service ports.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{service: service, maxUploadBytes: maxUploadBytes}
}

type uploadResponse struct {
	SessionID string             `json:"session_id"`
	Columns   []string           `json:"columns"`
	Preview   []domain.ImportRow `json:"preview"`
	TotalRows int                `json:"total_rows"`
}

type commitRequest struct {
	SessionID     string               `json:"session_id"     validate:"required"`
	ColumnMapping domain.ColumnMapping `json:"column_mapping" validate:"required,min=1"`
	AdminID       string               `json:"admin_id"       validate:"required"`
}

type commitResponse struct {
	ImportedCount int               `json:"imported_count"`
	ErrorCount    int               `json:"error_count"`
	Errors        []domain.RowError `json:"errors"`
}

// Upload handles POST /v1/import/upload (multipart field "file").
//
// @Summary      Upload a voter file
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV or Excel file"
// @Success      200   {object}  uploadResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/import/upload [post]
func (h *ImportHandler) Upload(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	result, err := h.service.Upload(c.Request().Context(), claims.UserID, fileHeader.Filename, src)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, uploadResponse{
		SessionID: result.SessionID,
		Columns:   result.Columns,
		Preview:   result.Preview,
		TotalRows: result.TotalRows,
	})
}

// Commit handles POST /v1/import/map-columns: applies the column mapping to
// the pending session's rows and imports them. Row-level failures are
// reported as data, never as a request failure.
//
// @Summary      Commit an import with a column mapping
// @Tags         import
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      commitRequest  true  "Session and mapping"
// @Success      200   {object}  commitResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/import/map-columns [post]
func (h *ImportHandler) Commit(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	var req commitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Commit(c.Request().Context(), ports.CommitInput{
		SessionID:     req.SessionID,
		ColumnMapping: req.ColumnMapping,
		AdminID:       req.AdminID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, commitResponse{
		ImportedCount: result.ImportedCount,
		ErrorCount:    result.ErrorCount,
		Errors:        result.Errors,
	})
}

// Sessions handles GET /v1/import/sessions.
//
// @Summary      List recent import sessions
// @Tags         import
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ImportSession
// @Router       /v1/import/sessions [get]
func (h *ImportHandler) Sessions(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	sessions, err := h.service.Sessions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}
