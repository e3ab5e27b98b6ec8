package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"rhai/internal/config"
	"rhai/internal/handler"
	"rhai/internal/logger"
	"rhai/internal/metrics"
	"rhai/internal/middleware"
	"rhai/internal/service"
)

// Deps carries the collaborators the router wires into handlers.
// Metrics, Gatherer and Redis are optional.
type Deps struct {
	RelayService service.RelayService
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	Redis        *redis.Client
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()

	// Forwarding headers only count when the peer is a configured proxy.
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warnf("invalid trusted proxies %v, trusting none: %v", cfg.Server.TrustedProxies, err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	healthH := handler.NewHealthHandler()
	docH := handler.NewDocumentHandler(deps.RelayService)

	routes := []string{"GET /", "POST /generate-document"}

	r.GET("/", healthH.Liveness)

	generate := []gin.HandlerFunc{}
	if cfg.Auth.Enabled() {
		generate = append(generate, middleware.JWTAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	}
	if cfg.RateLimit.Enabled {
		generate = append(generate, rateLimit(cfg, deps))
	}
	generate = append(generate, docH.Generate)
	r.POST("/generate-document", generate...)

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
		routes = append(routes, http.MethodGet+" "+cfg.Metrics.Path)
	}

	notFound := handler.NewNotFoundHandler(routes)
	r.NoRoute(notFound.NotFound)
	r.NoMethod(notFound.NotFound)

	return r
}

// rateLimit picks the Redis fixed-window limiter when a client is available,
// otherwise the in-memory token bucket.
func rateLimit(cfg *config.Config, deps Deps) gin.HandlerFunc {
	rl := cfg.RateLimit
	if deps.Redis != nil {
		return middleware.NewRedisRateLimiter(deps.Redis, rl.RPS, rl.Burst, rl.Window, deps.Metrics).Middleware()
	}
	return middleware.NewRateLimiter(rl.RPS, rl.Burst, deps.Metrics).Middleware()
}
