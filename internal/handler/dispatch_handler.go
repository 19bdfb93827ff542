package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KentHall303/ct-dispatch-api/internal/dto"
	"github.com/KentHall303/ct-dispatch-api/internal/service"
	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
	"github.com/KentHall303/ct-dispatch-api/pkg/response"
)

// DispatchHandler commits board gestures: drag-and-drop and resize.
type DispatchHandler struct {
	service *service.DispatchService
}

// NewDispatchHandler creates a new handler.
func NewDispatchHandler(svc *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{service: svc}
}

// Drop godoc
// @Summary Commit a drag-and-drop reschedule
// @Description Moves an appointment to a new row and start cell, preserving its duration
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.DropRequest true "Drop target"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /dispatch/appointments/{id}/drop [post]
func (h *DispatchHandler) Drop(c *gin.Context) {
	var req dto.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop payload"))
		return
	}

	appt, err := h.service.Drop(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, appt, nil)
}

// Resize godoc
// @Summary Commit a trailing-edge resize
// @Description Adjusts an appointment's end time by a pointer delta, snapped to the grid increment
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.ResizeRequest true "Resize gesture"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /dispatch/appointments/{id}/resize [post]
func (h *DispatchHandler) Resize(c *gin.Context) {
	var req dto.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resize payload"))
		return
	}

	appt, err := h.service.Resize(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, appt, nil)
}
