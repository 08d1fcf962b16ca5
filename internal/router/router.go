package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AuthHandler also serves the authenticated "who am I" route.
type AuthHandler interface {
	Handler
	Me(*gin.Context)
}

type Handlers struct {
	Health       Handler
	Metrics      Handler
	Auth         AuthHandler
	Resident     Handler
	Announcement Handler
	Request      Handler
}

type Config struct {
	Mode           string
	RateLimit      rate.Limit
	RateBurst      int
	RateClientTTL  time.Duration
	RateEnabled    bool
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	LandingPath    string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	resident middleware.ResidentLookup
	handlers Handlers
	config   Config
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	resident middleware.ResidentLookup,
	handlers Handlers,
	m *metrics.Metrics,
	config Config,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		resident: resident,
		handlers: handlers,
		config:   config,
	}

	// Outermost first. ErrorHandler must wrap Validation so validation
	// failures are rendered before the generic error envelope.
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(m),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORS),
		middleware.ErrorHandler(),
		middleware.Validation(middleware.DefaultValidationConfig()),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
	)

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = config.MaxBodyBytes
	}
	engine.Use(middleware.SizeLimit(sizeLimit))

	if config.RateEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:      config.RateLimit,
			Burst:     config.RateBurst,
			ClientTTL: config.RateClientTTL,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.handlers.Health.RegisterRoutes(api)
	r.handlers.Metrics.RegisterRoutes(api)

	// Public routes
	r.handlers.Auth.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate(), middleware.Cache(middleware.PrivateNoStore()))
	protected.GET("/auth/me", r.handlers.Auth.Me)

	resident := protected.Group("/resident")
	resident.Use(
		middleware.RequireRole(model.RoleResident),
		middleware.RequireResident(r.resident, r.config.LandingPath),
	)
	r.handlers.Resident.RegisterRoutes(resident)
	r.handlers.Announcement.RegisterRoutes(resident)
	r.handlers.Request.RegisterRoutes(resident)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
