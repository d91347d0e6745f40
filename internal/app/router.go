package app

import (
	httpx "github.com/bazaarlane/admin-backend/internal/http"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, metrics *observability.Metrics, handlers Handlers, mw Middleware) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		Log:     log,
		Metrics: metrics,

		AdminGate:         mw.AdminGate,
		SessionMiddleware: mw.Session,

		PageHandler:         handlers.Pages,
		AuthHandler:         handlers.Auth,
		AddressHandler:      handlers.Address,
		ProductHandler:      handlers.Product,
		NotificationHandler: handlers.Notification,
		HealthHandler:       handlers.Health,
	})
}
