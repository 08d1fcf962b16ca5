package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/meditrack/internal/handler"
	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

const contextResident = "resident"

// ResidentLookup resolves the resident record of a user.
type ResidentLookup interface {
	Lookup(ctx context.Context, userID int64) (*model.Resident, error)
}

// RequireResident loads the caller's resident record. Callers without one are
// sent back to landingPath with 303 See Other on every resident route.
func RequireResident(lookup ResidentLookup, landingPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
			return
		}

		resident, err := lookup.Lookup(c.Request.Context(), principal.UserID)
		if err != nil {
			if appErr, ok := apperrors.As(err); ok && appErr.Code == apperrors.ErrNotFound {
				log.Warn().
					Int64("user_id", principal.UserID).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("Authenticated user has no resident record")
				c.Header("Location", landingPath)
				c.AbortWithStatusJSON(http.StatusSeeOther, handler.NewErrorResponse("resident profile not found"))
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		SetResident(c, resident)
		c.Next()
	}
}

func SetResident(c *gin.Context, r *model.Resident) {
	c.Set(contextResident, r)
}

// CurrentResident returns the resident loaded by RequireResident.
func CurrentResident(c *gin.Context) (*model.Resident, bool) {
	v, ok := c.Get(contextResident)
	if !ok {
		return nil, false
	}
	r, ok := v.(*model.Resident)
	return r, ok && r != nil
}
