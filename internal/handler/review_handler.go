package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

type reviewService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateReviewRequest) (*models.Review, error)
}

// ReviewHandler accepts lesson reviews.
type ReviewHandler struct {
	service reviewService
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(svc reviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// Create godoc
// @Summary Review a lesson
// @Description Recomputes the rating and review count of the lesson's coach.
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateReviewRequest true "Review"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req, "invalid review payload") {
		return
	}
	review, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}
