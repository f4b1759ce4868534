package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/middleware"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// requireClaims writes 401 and returns nil when the request is anonymous.
func requireClaims(c *gin.Context) *models.JWTClaims {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
	}
	return claims
}

// idParam parses a positive integer path parameter, writing 400 on failure.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name))
		return 0, false
	}
	return id, true
}

// optionalIDQuery parses an optional positive integer query parameter. A
// missing or empty value yields 0.
func optionalIDQuery(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name))
		return 0, false
	}
	return id, true
}

// limitQuery reads ?limit=, falling back to def when absent.
func limitQuery(c *gin.Context, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer"))
		return 0, false
	}
	return limit, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Invalid(err, message))
		return false
	}
	return true
}

func listingMeta(c *gin.Context, hit bool, count int) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	meta := middleware.ExtractMeta(c)
	meta["count"] = count
	return meta
}
