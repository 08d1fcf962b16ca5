package announcement

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/meditrack/internal/handler"
	"github.com/jwalitptl/meditrack/internal/model"
)

type Service interface {
	List(ctx context.Context) []*model.AnnouncementView
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/announcements", h.List)
}

// List returns current and upcoming announcements with their status text and
// calendar fields. A read failure yields an empty list.
func (h *Handler) List(c *gin.Context) {
	views := h.svc.List(c.Request.Context())
	if views == nil {
		views = []*model.AnnouncementView{}
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views))
}
