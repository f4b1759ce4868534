package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
	"github.com/noah-isme/kickoff-coach-api/pkg/response"
)

// CoachProfiles resolves the coach profile owned by a user.
type CoachProfiles interface {
	GetCoachByUserID(ctx context.Context, userID int64) (*models.Coach, error)
}

// RequireAdmin lets only administrators through. It must run after JWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.IsAdmin {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "administrator access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCoach lets coaches and administrators through. It must run after JWT.
// Tokens issued before the caller became a coach still carry is_coach=false,
// so a non-coach claim is checked against profiles before being refused.
func RequireCoach(profiles CoachProfiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.IsCoach || claims.IsAdmin {
			c.Next()
			return
		}
		if profiles != nil {
			coach, err := profiles.GetCoachByUserID(c.Request.Context(), claims.UserID)
			if err != nil {
				response.Error(c, appErrors.Internal(err, "failed to load coach profile"))
				c.Abort()
				return
			}
			if coach != nil {
				upgraded := *claims
				upgraded.IsCoach = true
				setClaims(c, &upgraded)
				c.Next()
				return
			}
		}
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "coach access required"))
		c.Abort()
	}
}
