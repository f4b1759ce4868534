package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/middleware"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary Admin dashboard summary
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, meta)
}
