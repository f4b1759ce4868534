package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/service"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

type bookingService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateBookingRequest) (*models.Booking, error)
	ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.BookingWithLesson, error)
	UpdateStatus(ctx context.Context, actor *models.JWTClaims, id int64, req dto.UpdateBookingStatusRequest) (*models.Booking, error)
	Export(ctx context.Context, format string) (*service.ExportFile, error)
}

// BookingHandler handles lesson bookings and their admin export.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(svc bookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Create godoc
// @Summary Book a lesson
// @Description The booking is always made for the authenticated user.
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateBookingRequest true "Booking"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req, "invalid booking payload") {
		return
	}
	booking, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// Mine godoc
// @Summary Bookings of the current user
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bookings/me [get]
func (h *BookingHandler) Mine(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	bookings, err := h.service.ListMine(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, map[string]interface{}{"count": len(bookings)})
}

// UpdateStatus godoc
// @Summary Change a booking status
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param payload body dto.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookingStatusRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	booking, err := h.service.UpdateStatus(c.Request.Context(), claims, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking)
}

// Export godoc
// @Summary Export all bookings
// @Tags Admin
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /admin/bookings/export [get]
func (h *BookingHandler) Export(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", service.ExportFormatCSV)))
	file, err := h.service.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
