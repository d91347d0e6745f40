package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bazaarlane/admin-backend/internal/auth"
	httpMW "github.com/bazaarlane/admin-backend/internal/http/middleware"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type Middleware struct {
	AdminGate *httpMW.AdminGate
	Session   *httpMW.SessionMiddleware
}

func wireMiddleware(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, metrics *observability.Metrics) (Middleware, error) {
	log.Info("Wiring middleware...")

	matcher, err := httpMW.PathMatcherFromFile(cfg.GateExemptFile)
	if err != nil {
		return Middleware{}, fmt.Errorf("load gate exempt paths: %w", err)
	}

	verifier := auth.NewSessionVerifier(db, log, repos.User, repos.Session, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	return Middleware{
		AdminGate: httpMW.NewAdminGate(log, verifier, auth.AdminOnly{}, matcher, metrics),
		Session:   httpMW.NewSessionMiddleware(log, verifier),
	}, nil
}
