package app

import (
	httpH "github.com/bazaarlane/admin-backend/internal/http/handlers"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Pages        *httpH.PageHandler
	Auth         *httpH.AuthHandler
	Address      *httpH.AddressHandler
	Product      *httpH.ProductHandler
	Notification *httpH.NotificationHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Pages:        httpH.NewPageHandler(),
		Auth:         httpH.NewAuthHandler(services.Auth),
		Address:      httpH.NewAddressHandler(services.Address),
		Product:      httpH.NewProductHandler(services.Product),
		Notification: httpH.NewNotificationHandler(services.Notification),
	}
}
