package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	"github.com/KentHall303/ct-dispatch-api/internal/service"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
	"github.com/KentHall303/ct-dispatch-api/pkg/response"
)

// SubcontractorHandler exposes board row owner endpoints.
type SubcontractorHandler struct {
	service *service.SubcontractorService
}

// NewSubcontractorHandler creates a new handler.
func NewSubcontractorHandler(svc *service.SubcontractorService) *SubcontractorHandler {
	return &SubcontractorHandler{service: svc}
}

// List godoc
// @Summary List subcontractors with board colors
// @Tags Subcontractors
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /subcontractors [get]
func (h *SubcontractorHandler) List(c *gin.Context) {
	filter := models.SubcontractorFilter{Search: c.Query("search")}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be a boolean"))
			return
		}
		filter.Active = &active
	}

	rows, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows, nil)
}

// Get godoc
// @Summary Get one subcontractor
// @Tags Subcontractors
// @Produce json
// @Param id path string true "Subcontractor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subcontractors/{id} [get]
func (h *SubcontractorHandler) Get(c *gin.Context) {
	sub, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// Create godoc
// @Summary Register a subcontractor
// @Tags Subcontractors
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubcontractorRequest true "Subcontractor"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /subcontractors [post]
func (h *SubcontractorHandler) Create(c *gin.Context) {
	var req dto.CreateSubcontractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subcontractor payload"))
		return
	}

	sub, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, sub)
}

// Update godoc
// @Summary Patch a subcontractor
// @Tags Subcontractors
// @Accept json
// @Produce json
// @Param id path string true "Subcontractor ID"
// @Param payload body dto.UpdateSubcontractorRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /subcontractors/{id} [patch]
func (h *SubcontractorHandler) Update(c *gin.Context) {
	var req dto.UpdateSubcontractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subcontractor payload"))
		return
	}

	sub, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sub, nil)
}
