package router

import (
	"context"
	"net/http"
	"time"

	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const healthTimeout = 2 * time.Second

// New builds the gin engine from app and wraps it with the dispatcher, which
// must see every request before gin routes it.
func New(app *apphttp.App) http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.SecurityHeaders())

	var skip httpkit.SkipFunc
	var locales []string
	if app.Dispatcher != nil {
		skip = app.Dispatcher.Routes().Ignored
		locales = app.Dispatcher.Locales()
	}
	engine.Use(httpkit.RequestLogger(app.Logger, skip))

	api := engine.Group("/api")
	api.Use(cors.New(corsConfig(app.Config)))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/ready", func(c *gin.Context) {
		if app.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := app.Health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := httpkit.NewIPRateLimiter(rate.Limit(10), 20, app.Logger)
	v1 := api.Group("/v1")
	v1.Use(limiter.RateLimit())
	protected := v1.Group("")
	protected.Use(httpkit.RequireSession())

	routerCtx := &apphttp.RouterContext{
		Engine:      engine,
		API:         api,
		V1:          v1,
		Protected:   protected,
		Locales:     locales,
		RateLimiter: limiter,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	if app.Dispatcher == nil {
		return engine
	}
	return app.Dispatcher.Handler(engine)
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID, "X-Webhook-Signature"},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}
