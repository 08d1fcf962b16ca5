package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

type lookupFunc func(ctx context.Context, userID int64) (*model.Resident, error)

func (f lookupFunc) Lookup(ctx context.Context, userID int64) (*model.Resident, error) {
	return f(ctx, userID)
}

func residentRouter(lookup ResidentLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		SetPrincipal(c, &model.Principal{UserID: 70, Role: model.RoleResident})
		c.Next()
	})
	g := r.Group("/resident", RequireResident(lookup, "/login"))
	handler := func(c *gin.Context) {
		res, ok := CurrentResident(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resident_id": res.ID})
	}
	g.GET("/dashboard", handler)
	g.POST("/requests", handler)
	return r
}

func TestRequireResident(t *testing.T) {
	found := lookupFunc(func(_ context.Context, userID int64) (*model.Resident, error) {
		return &model.Resident{ID: 7, UserID: userID}, nil
	})
	missing := lookupFunc(func(context.Context, int64) (*model.Resident, error) {
		return nil, apperrors.NotFound("resident", nil)
	})
	broken := lookupFunc(func(context.Context, int64) (*model.Resident, error) {
		return nil, apperrors.Internal(errors.New("connection reset"))
	})

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		residentRouter(found).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resident/dashboard", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"resident_id":7}`, w.Body.String())
	})

	// Same policy on read pages and on the submission endpoint.
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		path := "/resident/dashboard"
		if method == http.MethodPost {
			path = "/resident/requests"
		}
		t.Run("missing "+method, func(t *testing.T) {
			w := httptest.NewRecorder()
			residentRouter(missing).ServeHTTP(w, httptest.NewRequest(method, path, nil))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
			assert.Contains(t, w.Body.String(), "resident profile not found")
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		residentRouter(broken).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resident/dashboard", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}
