package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/meditrack/internal/handler"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

// ErrorHandler renders the last error attached with c.Error. Only the public
// message of an AppError reaches the client; everything else is logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		status := 500
		if appErr, ok := apperrors.As(lastErr); ok {
			status = appErr.StatusCode()
		}

		c.JSON(status, handler.NewErrorResponse(apperrors.PublicMessage(lastErr)))
	}
}
