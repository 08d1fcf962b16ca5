package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/meditrack/internal/handler"
	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

// Service authenticates users.
type Service interface {
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
}

// CookieConfig describes the session cookie written on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	svc    Service
	cookie CookieConfig
}

func NewHandler(svc Service, cookie CookieConfig) *Handler {
	return &Handler{svc: svc, cookie: cookie}
}

// RegisterRoutes adds the public auth routes. Me is registered separately
// behind authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("invalid login request", err))
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, tokens.AccessToken, int(tokens.ExpiresIn), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}

// Me returns the authenticated principal.
func (h *Handler) Me(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(nil))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(principal))
}
