package app

import (
	"gorm.io/gorm"

	addressrepo "github.com/bazaarlane/admin-backend/internal/data/repos/address"
	notificationrepo "github.com/bazaarlane/admin-backend/internal/data/repos/notification"
	productrepo "github.com/bazaarlane/admin-backend/internal/data/repos/product"
	sessionrepo "github.com/bazaarlane/admin-backend/internal/data/repos/session"
	userrepo "github.com/bazaarlane/admin-backend/internal/data/repos/user"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type Repos struct {
	User               userrepo.UserRepo
	Session            sessionrepo.SessionRepo
	Address            addressrepo.AddressRepo
	DefaultCoordinator addressrepo.DefaultCoordinator
	Product            productrepo.ProductRepo
	Notification       notificationrepo.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               userrepo.NewUserRepo(db, log),
		Session:            sessionrepo.NewSessionRepo(db, log),
		Address:            addressrepo.NewAddressRepo(db, log),
		DefaultCoordinator: addressrepo.NewDefaultCoordinator(db, log),
		Product:            productrepo.NewProductRepo(db, log),
		Notification:       notificationrepo.NewNotificationRepo(db, log),
	}
}
