package app

import (
	"gorm.io/gorm"

	"github.com/bazaarlane/admin-backend/internal/clients/redis"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
	"github.com/bazaarlane/admin-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Address      services.AddressService
	Product      services.ProductService
	Notification services.NotificationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	// The storefront cache is optional infrastructure for the admin side:
	// without it, writes still succeed and the storefront serves stale data
	// until its own TTLs expire.
	var cache redis.Cache
	if cfg.RedisAddr != "" {
		c, err := redis.NewCache(log)
		if err != nil {
			log.Warn("redis cache unavailable, catalog writes will not purge", "error", err)
		} else {
			cache = c
		}
	}

	return Services{
		Auth:         services.NewAuthService(db, log, repos.User, repos.Session, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Address:      services.NewAddressService(db, log, repos.Address, repos.DefaultCoordinator, metrics),
		Product:      services.NewProductService(db, log, repos.Product, cache, metrics),
		Notification: services.NewNotificationService(db, log, repos.Notification),
	}
}
