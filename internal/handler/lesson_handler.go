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

type lessonService interface {
	Get(ctx context.Context, id int64) (*models.LessonWithDetails, error)
	Search(ctx context.Context, filter models.LessonFilter) ([]models.LessonWithDetails, error)
	Recommended(ctx context.Context, limit int) ([]models.LessonWithDetails, bool, error)
	Reviews(ctx context.Context, lessonID int64) ([]models.ReviewWithUser, error)
	LessonTypes(ctx context.Context) ([]models.LessonType, error)
	SkillLevels(ctx context.Context) ([]models.SkillLevel, error)
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateLessonRequest) (*models.LessonWithDetails, error)
}

// LessonHandler exposes lesson browsing and publishing.
type LessonHandler struct {
	service lessonService
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(svc lessonService) *LessonHandler {
	return &LessonHandler{service: svc}
}

// Search godoc
// @Summary Search lessons
// @Description All filters are optional and combined with AND.
// @Tags Lessons
// @Produce json
// @Param location query string false "Substring of the lesson location"
// @Param lessonTypeId query int false "Lesson type"
// @Param skillLevelId query int false "Skill level"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) Search(c *gin.Context) {
	typeID, ok := optionalIDQuery(c, "lessonTypeId")
	if !ok {
		return
	}
	levelID, ok := optionalIDQuery(c, "skillLevelId")
	if !ok {
		return
	}
	lessons, err := h.service.Search(c.Request.Context(), models.LessonFilter{
		Location:     strings.TrimSpace(c.Query("location")),
		LessonTypeID: typeID,
		SkillLevelID: levelID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, map[string]interface{}{"count": len(lessons)})
}

// Recommended godoc
// @Summary Recommended lessons
// @Tags Lessons
// @Produce json
// @Param limit query int false "Number of lessons (default 6)"
// @Success 200 {object} response.Envelope
// @Router /lessons/recommended [get]
func (h *LessonHandler) Recommended(c *gin.Context) {
	limit, ok := limitQuery(c, service.DefaultRecommendedLimit)
	if !ok {
		return
	}
	lessons, hit, err := h.service.Recommended(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, listingMeta(c, hit, len(lessons)))
}

// Get godoc
// @Summary Lesson detail
// @Tags Lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	lesson, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}

// Reviews godoc
// @Summary Reviews of a lesson
// @Tags Lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id}/reviews [get]
func (h *LessonHandler) Reviews(c *gin.Context) {
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

// Create godoc
// @Summary Publish a lesson
// @Tags Lessons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonRequest true "Lesson"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateLessonRequest
	if !bindJSON(c, &req, "invalid lesson payload") {
		return
	}
	lesson, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// LessonTypes godoc
// @Summary Lesson types
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lesson-types [get]
func (h *LessonHandler) LessonTypes(c *gin.Context) {
	types, err := h.service.LessonTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types)
}

// SkillLevels godoc
// @Summary Skill levels
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /skill-levels [get]
func (h *LessonHandler) SkillLevels(c *gin.Context) {
	levels, err := h.service.SkillLevels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels)
}
