package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/top20pulse/internal/middleware"
)

// DefaultRequestTimeout bounds one pipeline run triggered over HTTP.
const DefaultRequestTimeout = 60 * time.Second

// RouterOptions carries the ambient dependencies of the router.
type RouterOptions struct {
	Log                zerolog.Logger
	RateLimitPerMinute int
	RequestTimeout     time.Duration // zero means DefaultRequestTimeout
	Metrics            http.Handler  // served on /metrics when set
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Bounds each request context (60 seconds by default).
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Routes GET / to the snapshot run.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	timeout := opts.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(opts.Log),
		middleware.RecoveryMiddleware(opts.Log),
		middleware.ErrorHandler,
		middleware.RateLimiter(opts.RateLimitPerMinute),
		middleware.Timeout(timeout),
	)

	// ─── Docs & metrics ───────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	// ─── Snapshot ─────────────────────────────────
	router.GET("/", handler.Run)

	return router
}
