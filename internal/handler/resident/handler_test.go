package resident

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) Profile(ctx context.Context, residentID int64) (*model.ResidentProfile, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResidentProfile), args.Error(1)
}

func (m *mockProfiles) FamilyMembers(ctx context.Context, residentID int64) ([]*model.FamilyMember, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FamilyMember), args.Error(1)
}

type stubStats struct{ stats model.RequestStats }

func (s stubStats) Stats(context.Context, int64) model.RequestStats { return s.stats }

type stubAnnouncements struct{ views []*model.AnnouncementView }

func (s stubAnnouncements) List(context.Context) []*model.AnnouncementView { return s.views }

var testResident = &model.Resident{ID: 7, UserID: 70}

func setup(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	g := r.Group("/api/v1/resident")
	g.Use(func(c *gin.Context) {
		middleware.SetResident(c, testResident)
		c.Next()
	})
	h.RegisterRoutes(g)
	return r
}

func TestGetProfile(t *testing.T) {
	age := 64
	profiles := new(mockProfiles)
	profiles.On("Profile", mock.Anything, int64(7)).Return(&model.ResidentProfile{
		Resident:  *testResident,
		FirstName: "Ana",
		LastName:  "Reyes",
		Age:       &age,
		IsSenior:  true,
	}, nil)
	r := setup(NewHandler(profiles, stubStats{}, stubAnnouncements{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resident/profile", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_senior":true`)
	assert.Contains(t, w.Body.String(), `"age":64`)
}

func TestGetProfileNotFound(t *testing.T) {
	profiles := new(mockProfiles)
	profiles.On("Profile", mock.Anything, int64(7)).Return(nil, apperrors.NotFound("resident", nil))
	r := setup(NewHandler(profiles, stubStats{}, stubAnnouncements{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resident/profile", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"resident not found"}`, w.Body.String())
}

func TestGetDashboard(t *testing.T) {
	profiles := new(mockProfiles)
	profiles.On("Profile", mock.Anything, int64(7)).Return(&model.ResidentProfile{Resident: *testResident}, nil)
	stats := stubStats{stats: model.RequestStats{Total: 4, Pending: 1, Approved: 3, AvailableMedicines: 12, SuccessRate: 75}}
	announcements := stubAnnouncements{views: []*model.AnnouncementView{{
		Announcement: model.Announcement{ID: 1, Title: "Free checkup"},
		State:        model.AnnouncementOngoing,
		StatusText:   "Ongoing",
	}}}
	r := setup(NewHandler(profiles, stats, announcements))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resident/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data Dashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, stats.stats, resp.Data.Stats)
	require.Len(t, resp.Data.Announcements, 1)
	assert.Equal(t, "Ongoing", resp.Data.Announcements[0].StatusText)
}

func TestListFamilyMembers(t *testing.T) {
	profiles := new(mockProfiles)
	profiles.On("FamilyMembers", mock.Anything, int64(7)).Return(nil, nil)
	r := setup(NewHandler(profiles, stubStats{}, stubAnnouncements{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resident/family-members", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":[]}`, w.Body.String())
}
