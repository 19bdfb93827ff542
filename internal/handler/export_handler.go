package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KentHall303/ct-dispatch-api/internal/service"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
	"github.com/KentHall303/ct-dispatch-api/pkg/response"
)

// ExportHandler serves day-sheet generation and signed downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

type generateExportRequest struct {
	Date             string   `json:"date" binding:"required"`
	Format           string   `json:"format" binding:"required"`
	SubcontractorIDs []string `json:"subcontractor_ids"`
}

// Generate godoc
// @Summary Generate a day sheet
// @Description Renders the appointments of one board day into a downloadable csv or pdf
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body generateExportRequest true "Export parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/daysheet [post]
func (h *ExportHandler) Generate(c *gin.Context) {
	var req generateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	res, err := h.service.GenerateDaySheet(c.Request.Context(), req.Date, strings.ToLower(req.Format), req.SubcontractorIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Download godoc
// @Summary Download a day sheet via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}

	_, relPath, _, err := h.service.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, "invalid or expired download token"))
		return
	}

	f, err := h.service.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file not found"))
		return
	}
	defer f.Close()

	c.FileAttachment(f.Name(), filepath.Base(relPath))
}
