package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/bazaarlane/admin-backend/internal/http/handlers"
	httpMW "github.com/bazaarlane/admin-backend/internal/http/middleware"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AdminGate         *httpMW.AdminGate
	SessionMiddleware *httpMW.SessionMiddleware

	PageHandler         *httpH.PageHandler
	AuthHandler         *httpH.AuthHandler
	AddressHandler      *httpH.AddressHandler
	ProductHandler      *httpH.ProductHandler
	NotificationHandler *httpH.NotificationHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if observability.OtelEnabled() {
		r.Use(otelgin.Middleware("bazaarlane-admin"))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLog(cfg.Log))
	}
	r.Use(httpMW.ObserveRequests(cfg.Metrics))

	// The gate runs on everything; its matcher decides what passes
	// unauthenticated. API routes below carry their own session check.
	if cfg.AdminGate != nil {
		r.Use(cfg.AdminGate.Handler())
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// Dashboard pages (gated).
	if cfg.PageHandler != nil {
		r.GET("/", cfg.PageHandler.Dashboard)
		r.GET("/orders", cfg.PageHandler.Orders)
		r.GET("/products", cfg.PageHandler.Products)
		r.GET("/users", cfg.PageHandler.Users)
		r.GET("/settings", cfg.PageHandler.Settings)
		r.GET("/login", cfg.PageHandler.Login)
		r.GET("/setup", cfg.PageHandler.Setup)
	}

	api := r.Group("/api")
	{
		// Public
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/logout", cfg.AuthHandler.Logout)
			api.POST("/setup", cfg.AuthHandler.Setup)
			api.POST("/generate-token", cfg.AuthHandler.GenerateToken)
		}
	}

	protected := api.Group("/")
	{
		if cfg.SessionMiddleware != nil {
			protected.Use(cfg.SessionMiddleware.RequireSession())
		}

		if cfg.AuthHandler != nil {
			protected.GET("/profile", cfg.AuthHandler.Profile)
		}

		if cfg.AddressHandler != nil {
			protected.GET("/addresses", cfg.AddressHandler.List)
			protected.POST("/addresses", cfg.AddressHandler.Create)
			protected.PUT("/addresses/:id", cfg.AddressHandler.Update)
			protected.DELETE("/addresses/:id", cfg.AddressHandler.Delete)
		}

		if cfg.ProductHandler != nil {
			protected.POST("/products", cfg.ProductHandler.Create)
		}

		if cfg.NotificationHandler != nil {
			protected.PATCH("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		}
	}

	return r
}
