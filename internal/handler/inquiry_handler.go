package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/middleware"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

type inquiryService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateInquiryRequest) (*models.Inquiry, error)
	List(ctx context.Context, filter dto.InquiryFilter) ([]models.Inquiry, error)
	Resolve(ctx context.Context, actor *models.JWTClaims, id int64) (*models.Inquiry, error)
}

// InquiryHandler serves the public contact form and its admin console.
type InquiryHandler struct {
	service inquiryService
}

// NewInquiryHandler constructs the handler.
func NewInquiryHandler(svc inquiryService) *InquiryHandler {
	return &InquiryHandler{service: svc}
}

// Create godoc
// @Summary Submit a contact inquiry
// @Tags Inquiries
// @Accept json
// @Produce json
// @Description A bearer token is optional; when valid the inquiry is linked to the caller.
// @Param payload body dto.CreateInquiryRequest true "Inquiry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /inquiries [post]
func (h *InquiryHandler) Create(c *gin.Context) {
	var req dto.CreateInquiryRequest
	if !bindJSON(c, &req, "invalid inquiry payload") {
		return
	}
	inquiry, err := h.service.Create(c.Request.Context(), middleware.Claims(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inquiry)
}

// List godoc
// @Summary List inquiries
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param resolved query bool false "Filter by resolution state"
// @Success 200 {object} response.Envelope
// @Router /admin/inquiries [get]
func (h *InquiryHandler) List(c *gin.Context) {
	var filter dto.InquiryFilter
	if raw := strings.TrimSpace(c.Query("resolved")); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "resolved must be a boolean"))
			return
		}
		filter.Resolved = &resolved
	}
	inquiries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inquiries, map[string]interface{}{"count": len(inquiries)})
}

// Resolve godoc
// @Summary Mark an inquiry resolved
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Inquiry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/inquiries/{id}/resolve [patch]
func (h *InquiryHandler) Resolve(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	inquiry, err := h.service.Resolve(c.Request.Context(), claims, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inquiry)
}
