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

type coachService interface {
	Get(ctx context.Context, id int64) (*models.CoachWithUser, error)
	Search(ctx context.Context, filter models.CoachFilter) ([]models.CoachWithUser, error)
	Top(ctx context.Context, limit int) ([]models.CoachWithUser, bool, error)
	Lessons(ctx context.Context, coachID int64) ([]models.LessonWithDetails, error)
	Reviews(ctx context.Context, coachID int64) ([]models.ReviewWithUser, error)
	Schedules(ctx context.Context, coachID int64) ([]models.Schedule, error)
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateCoachRequest) (*models.CoachWithUser, error)
	Update(ctx context.Context, actor *models.JWTClaims, id int64, req dto.UpdateCoachRequest) (*models.CoachWithUser, error)
	AddSchedule(ctx context.Context, actor *models.JWTClaims, coachID int64, req dto.CreateScheduleRequest) (*models.Schedule, error)
}

// CoachHandler exposes coach browsing and coach profile management.
type CoachHandler struct {
	service coachService
}

// NewCoachHandler constructs the handler.
func NewCoachHandler(svc coachService) *CoachHandler {
	return &CoachHandler{service: svc}
}

// Search godoc
// @Summary Browse coaches
// @Tags Coaches
// @Produce json
// @Param location query string false "Substring of the coach location"
// @Param specialization query string false "Exact specialization"
// @Success 200 {object} response.Envelope
// @Router /coaches [get]
func (h *CoachHandler) Search(c *gin.Context) {
	coaches, err := h.service.Search(c.Request.Context(), models.CoachFilter{
		Location:       strings.TrimSpace(c.Query("location")),
		Specialization: strings.TrimSpace(c.Query("specialization")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coaches, map[string]interface{}{"count": len(coaches)})
}

// Top godoc
// @Summary Highest rated coaches
// @Tags Coaches
// @Produce json
// @Param limit query int false "Number of coaches (default 4)"
// @Success 200 {object} response.Envelope
// @Router /coaches/top [get]
func (h *CoachHandler) Top(c *gin.Context) {
	limit, ok := limitQuery(c, service.DefaultTopCoachesLimit)
	if !ok {
		return
	}
	coaches, hit, err := h.service.Top(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coaches, listingMeta(c, hit, len(coaches)))
}

// Get godoc
// @Summary Coach detail
// @Tags Coaches
// @Produce json
// @Param id path int true "Coach ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /coaches/{id} [get]
func (h *CoachHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	coach, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coach)
}

// Lessons godoc
// @Summary Lessons offered by a coach
// @Tags Coaches
// @Produce json
// @Param id path int true "Coach ID"
// @Success 200 {object} response.Envelope
// @Router /coaches/{id}/lessons [get]
func (h *CoachHandler) Lessons(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	lessons, err := h.service.Lessons(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons)
}

// Reviews godoc
// @Summary Reviews across all of a coach's lessons
// @Tags Coaches
// @Produce json
// @Param id path int true "Coach ID"
// @Success 200 {object} response.Envelope
// @Router /coaches/{id}/reviews [get]
func (h *CoachHandler) Reviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.service.Reviews(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews)
}

// Schedules godoc
// @Summary Weekly availability of a coach
// @Tags Coaches
// @Produce json
// @Param id path int true "Coach ID"
// @Success 200 {object} response.Envelope
// @Router /coaches/{id}/schedules [get]
func (h *CoachHandler) Schedules(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	schedules, err := h.service.Schedules(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules)
}

// Create godoc
// @Summary Become a coach
// @Tags Coaches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateCoachRequest true "Coach profile"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /coaches [post]
func (h *CoachHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateCoachRequest
	if !bindJSON(c, &req, "invalid coach payload") {
		return
	}
	coach, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, coach)
}

// Update godoc
// @Summary Update a coach profile
// @Tags Coaches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Coach ID"
// @Param payload body dto.UpdateCoachRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /coaches/{id} [put]
func (h *CoachHandler) Update(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCoachRequest
	if !bindJSON(c, &req, "invalid coach payload") {
		return
	}
	coach, err := h.service.Update(c.Request.Context(), claims, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coach)
}

// AddSchedule godoc
// @Summary Add an availability slot
// @Tags Coaches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Coach ID"
// @Param payload body dto.CreateScheduleRequest true "Slot"
// @Success 201 {object} response.Envelope
// @Router /coaches/{id}/schedules [post]
func (h *CoachHandler) AddSchedule(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateScheduleRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	slot, err := h.service.AddSchedule(c.Request.Context(), claims, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}
