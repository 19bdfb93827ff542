package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KentHall303/ct-dispatch-api/internal/middleware"
	"github.com/KentHall303/ct-dispatch-api/internal/service"
	"github.com/KentHall303/ct-dispatch-api/pkg/response"
)

// BoardHandler serves the daily dispatch board render model.
type BoardHandler struct {
	service *service.BoardService
}

// NewBoardHandler creates a new handler.
func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{service: svc}
}

// GetDay godoc
// @Summary Dispatch board for one day
// @Description Returns rows, positioned events, layers and row heights for the requested date
// @Tags Dispatch
// @Produce json
// @Param date query string false "Board date (YYYY-MM-DD), defaults to today"
// @Param subcontractor_ids query string false "Comma-separated row filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /dispatch/board [get]
func (h *BoardHandler) GetDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	var subIDs []string
	if raw := c.Query("subcontractor_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				subIDs = append(subIDs, id)
			}
		}
	}

	board, cacheHit, err := h.service.BuildDay(c.Request.Context(), date, subIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	middleware.SetBoardDate(c, date)
	response.JSON(c, http.StatusOK, board, nil, middleware.ExtractMeta(c))
}
