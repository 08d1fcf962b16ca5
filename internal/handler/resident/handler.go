package resident

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/meditrack/internal/handler"
	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

type ProfileService interface {
	Profile(ctx context.Context, residentID int64) (*model.ResidentProfile, error)
	FamilyMembers(ctx context.Context, residentID int64) ([]*model.FamilyMember, error)
}

type StatsService interface {
	Stats(ctx context.Context, residentID int64) model.RequestStats
}

type AnnouncementService interface {
	List(ctx context.Context) []*model.AnnouncementView
}

type Handler struct {
	profiles      ProfileService
	stats         StatsService
	announcements AnnouncementService
}

func NewHandler(profiles ProfileService, stats StatsService, announcements AnnouncementService) *Handler {
	return &Handler{
		profiles:      profiles,
		stats:         stats,
		announcements: announcements,
	}
}

// RegisterRoutes expects r to be behind RequireResident.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
	r.GET("/dashboard", h.GetDashboard)
	r.GET("/family-members", h.ListFamilyMembers)
}

// Dashboard is the resident landing page payload.
type Dashboard struct {
	Profile       *model.ResidentProfile    `json:"profile"`
	Stats         model.RequestStats        `json:"stats"`
	Announcements []*model.AnnouncementView `json:"announcements"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	resident, ok := middleware.CurrentResident(c)
	if !ok {
		_ = c.Error(apperrors.Internal(nil))
		return
	}

	profile, err := h.profiles.Profile(c.Request.Context(), resident.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) GetDashboard(c *gin.Context) {
	resident, ok := middleware.CurrentResident(c)
	if !ok {
		_ = c.Error(apperrors.Internal(nil))
		return
	}
	ctx := c.Request.Context()

	profile, err := h.profiles.Profile(ctx, resident.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// Stats and announcements degrade to zeros and an empty list on their own.
	c.JSON(http.StatusOK, handler.NewSuccessResponse(Dashboard{
		Profile:       profile,
		Stats:         h.stats.Stats(ctx, resident.ID),
		Announcements: h.announcements.List(ctx),
	}))
}

func (h *Handler) ListFamilyMembers(c *gin.Context) {
	resident, ok := middleware.CurrentResident(c)
	if !ok {
		_ = c.Error(apperrors.Internal(nil))
		return
	}

	members, err := h.profiles.FamilyMembers(c.Request.Context(), resident.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if members == nil {
		members = []*model.FamilyMember{}
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(members))
}
