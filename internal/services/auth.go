package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	sessionrepo "github.com/bazaarlane/admin-backend/internal/data/repos/session"
	userrepo "github.com/bazaarlane/admin-backend/internal/data/repos/user"
	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/auth"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*types.User, []*http.Cookie, error)
	Logout(ctx context.Context, accessToken string) ([]*http.Cookie, error)
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)
	BootstrapAdmin(ctx context.Context, email, password, fullName string) (*types.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    userrepo.UserRepo
	sessionRepo sessionrepo.SessionRepo
	secret      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo userrepo.UserRepo,
	sessionRepo sessionrepo.SessionRepo,
	secret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      secret,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

var errInvalidCredentials = apierr.New(http.StatusUnauthorized, "auth/invalid_credentials", errors.New("invalid email or password"))

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, []*http.Cookie, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, errInvalidCredentials
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, nil, apierr.ServiceError(fmt.Errorf("user lookup: %w", err))
	}
	if len(users) == 0 {
		return nil, nil, errInvalidCredentials
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, errInvalidCredentials
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tok, genErr := auth.MintAccessToken(as.secret, user, as.accessTTL)
		if genErr != nil {
			return fmt.Errorf("mint access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		session := types.Session{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.sessionRepo.Create(ctx, tx, []*types.Session{&session}); cErr != nil {
			return fmt.Errorf("create session: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return nil, nil, apierr.ServiceError(err)
	}

	return user, auth.SessionCookies(accessToken, refreshToken, as.accessTTL, as.refreshTTL), nil
}

func (as *authService) Logout(ctx context.Context, accessToken string) ([]*http.Cookie, error) {
	if accessToken != "" {
		sessions, err := as.sessionRepo.GetByAccessTokens(ctx, nil, []string{accessToken})
		if err != nil {
			return nil, apierr.ServiceError(fmt.Errorf("session lookup: %w", err))
		}
		if len(sessions) > 0 {
			if err := as.sessionRepo.Delete(ctx, nil, sessions); err != nil {
				return nil, apierr.ServiceError(fmt.Errorf("delete session: %w", err))
			}
		}
	}
	return auth.ClearedSessionCookies(), nil
}

// GenerateToken mints a scoped API JWT for an existing user, for
// server-to-server callers that already hold a verified user id.
func (as *authService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return "", apierr.ServiceError(fmt.Errorf("user lookup: %w", err))
	}
	if len(users) == 0 {
		return "", apierr.NotFound(errors.New("user not found"))
	}
	return auth.MintAccessToken(as.secret, users[0], as.accessTTL)
}

func (as *authService) Profile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.ServiceError(fmt.Errorf("user lookup: %w", err))
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(errors.New("user not found"))
	}
	return users[0], nil
}

// BootstrapAdmin creates the first super_admin. It refuses to run once any
// privileged user exists, which is what makes the unauthenticated setup
// page safe to exempt from the gate.
func (as *authService) BootstrapAdmin(ctx context.Context, email, password, fullName string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apierr.Validation(errors.New("email is required"))
	}
	if len(password) < 8 {
		return nil, apierr.Validation(errors.New("password must be at least 8 characters"))
	}

	var created *types.User
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&types.User{}).
			Where("role IN ?", []string{types.RoleAdmin, types.RoleSuperAdmin}).
			Count(&count).Error; err != nil {
			return apierr.ServiceError(fmt.Errorf("admin count: %w", err))
		}
		if count > 0 {
			return apierr.New(http.StatusConflict, "auth/already_bootstrapped", errors.New("an admin account already exists"))
		}

		hash, hErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hErr != nil {
			return apierr.ServiceError(fmt.Errorf("hash password: %w", hErr))
		}
		user := &types.User{
			ID:       uuid.New(),
			Email:    email,
			Password: string(hash),
			FullName: strings.TrimSpace(fullName),
			Role:     types.RoleSuperAdmin,
		}
		if _, cErr := as.userRepo.Create(ctx, tx, []*types.User{user}); cErr != nil {
			return apierr.ServiceError(fmt.Errorf("create admin: %w", cErr))
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("bootstrap admin created", "user_id", created.ID.String())
	return created, nil
}
