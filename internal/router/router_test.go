package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
	"github.com/jwalitptl/meditrack/pkg/metrics"
)

type tokens map[string]*model.Principal

func (t tokens) ValidateToken(token string) (*model.Principal, error) {
	if p, ok := t[token]; ok {
		return p, nil
	}
	return nil, errors.New("invalid")
}

type residents map[int64]*model.Resident

func (r residents) Lookup(_ context.Context, userID int64) (*model.Resident, error) {
	if res, ok := r[userID]; ok {
		return res, nil
	}
	return nil, apperrors.NotFound("resident", nil)
}

type routes func(*gin.RouterGroup)

func (f routes) RegisterRoutes(g *gin.RouterGroup) { f(g) }

type authRoutes struct{ routes }

func (authRoutes) Me(c *gin.Context) { c.Status(http.StatusOK) }

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func newTestRouter() *gin.Engine {
	noop := routes(func(*gin.RouterGroup) {})
	r := NewRouter(
		middleware.NewAuthMiddleware(tokens{
			"resident": {UserID: 1, Role: model.RoleResident},
			"orphan":   {UserID: 2, Role: model.RoleResident},
			"bhw":      {UserID: 3, Role: model.RoleBHW},
		}, "meditrack_session"),
		residents{1: {ID: 10, UserID: 1}},
		Handlers{
			Health:  routes(func(g *gin.RouterGroup) { g.GET("/health/live", ok) }),
			Metrics: noop,
			Auth:    authRoutes{routes(func(g *gin.RouterGroup) { g.POST("/auth/login", ok) })},
			Resident: routes(func(g *gin.RouterGroup) {
				g.GET("/dashboard", ok)
			}),
			Announcement: noop,
			Request: routes(func(g *gin.RouterGroup) {
				g.POST("/requests", ok)
			}),
		},
		metrics.NewNop(),
		Config{
			Mode:        gin.TestMode,
			RateLimit:   rate.Inf,
			CORS:        middleware.DefaultCORSConfig(),
			LandingPath: "/login",
		},
	)
	r.Setup()
	return r.Engine()
}

func TestRoutes(t *testing.T) {
	engine := newTestRouter()

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		status   int
		location string
	}{
		{"health is public", http.MethodGet, "/api/v1/health/live", "", http.StatusOK, ""},
		{"login is public", http.MethodPost, "/api/v1/auth/login", "", http.StatusOK, ""},
		{"me needs auth", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized, ""},
		{"dashboard needs auth", http.MethodGet, "/api/v1/resident/dashboard", "", http.StatusUnauthorized, ""},
		{"resident dashboard", http.MethodGet, "/api/v1/resident/dashboard", "resident", http.StatusOK, ""},
		{"health worker is forbidden", http.MethodGet, "/api/v1/resident/dashboard", "bhw", http.StatusForbidden, ""},
		{"orphan redirected from dashboard", http.MethodGet, "/api/v1/resident/dashboard", "orphan", http.StatusSeeOther, "/login"},
		{"orphan redirected from submission", http.MethodPost, "/api/v1/resident/requests", "orphan", http.StatusSeeOther, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestProtectedResponsesAreNotCached(t *testing.T) {
	engine := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resident/dashboard", nil)
	req.Header.Set("Authorization", "Bearer resident")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}
