package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenResponse), args.Error(1)
}

func setup(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.Validation(middleware.DefaultValidationConfig()))
	NewHandler(svc, CookieConfig{Name: "meditrack_session"}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestLogin(t *testing.T) {
	svc := new(mockService)
	svc.On("Login", mock.Anything, "ana@example.com", "correct-horse").
		Return(&model.TokenResponse{AccessToken: "tok", ExpiresIn: 3600, Role: model.RoleResident}, nil)
	r := setup(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"correct-horse"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "meditrack_session", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	svc.AssertExpectations(t)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := new(mockService)
	svc.On("Login", mock.Anything, "ana@example.com", "wrong-pass").
		Return(nil, apperrors.Unauthorized(nil))
	r := setup(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"wrong-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginValidation(t *testing.T) {
	svc := new(mockService)
	r := setup(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"email"`)
	svc.AssertNumberOfCalls(t, "Login", 0)
}

func TestLogoutClearsCookie(t *testing.T) {
	r := setup(new(mockService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
