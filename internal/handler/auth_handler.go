package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	SocialLogin(ctx context.Context, req models.SocialLoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Register godoc
// @Summary Register a local account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// SocialLogin godoc
// @Summary Sign in with a social provider
// @Description The provider token is not verified; the identity in the payload is trusted.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param provider path string true "kakao, naver or google"
// @Param payload body models.SocialLoginRequest true "Social identity"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/social/{provider} [post]
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req models.SocialLoginRequest
	if !bindJSON(c, &req, "invalid social login payload") {
		return
	}
	req.Provider = c.Param("provider")
	res, err := h.service.SocialLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Me godoc
// @Summary Current user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	user, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}
