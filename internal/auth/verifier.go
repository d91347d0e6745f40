package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionrepo "github.com/bazaarlane/admin-backend/internal/data/repos/session"
	userrepo "github.com/bazaarlane/admin-backend/internal/data/repos/user"
	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// Verifier resolves the caller's identity from the session cookie pair.
//
// Outcomes:
//   - identity, no cookies: the access token was valid as presented.
//   - identity, refreshed cookies: the access token was stale but the
//     refresh token was live; the session was rotated as a side effect and
//     the new cookie pair MUST be attached to the outgoing response.
//   - error tagged apierr.CodeSessionMissing: the expected "not logged in"
//     state (no/invalid/expired credentials, revoked session).
//   - any other error: an infrastructure failure. Callers must treat it as
//     fatal for the request, never as a login prompt.
type Verifier interface {
	Verify(ctx context.Context, access, refresh string) (*Identity, []*http.Cookie, error)
}

type sessionVerifier struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    userrepo.UserRepo
	sessionRepo sessionrepo.SessionRepo
	secret      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewSessionVerifier(
	db *gorm.DB,
	log *logger.Logger,
	userRepo userrepo.UserRepo,
	sessionRepo sessionrepo.SessionRepo,
	secret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) Verifier {
	return &sessionVerifier{
		db:          db,
		log:         log.With("component", "SessionVerifier"),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      secret,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

func errSessionMissing() error {
	// The message deliberately contains "session missing" so callers that
	// only see a flattened error string can still classify it.
	return apierr.SessionMissing(errors.New("auth session missing"))
}

func (sv *sessionVerifier) Verify(ctx context.Context, access, refresh string) (*Identity, []*http.Cookie, error) {
	if access == "" && refresh == "" {
		return nil, nil, errSessionMissing()
	}

	if access != "" {
		claims, err := ParseAccessToken(sv.secret, access)
		switch {
		case err == nil:
			return sv.verifyLive(ctx, access, refresh, claims)
		case errors.Is(err, jwt.ErrTokenExpired):
			// Stale credential with a possibly live refresh token; fall
			// through to rotation.
		default:
			// Malformed or mis-signed token is a bad credential, not an
			// outage.
			return nil, nil, errSessionMissing()
		}
	}

	return sv.rotate(ctx, refresh)
}

// verifyLive checks a syntactically valid, unexpired access token against
// the session store so revoked sessions die even before the JWT expires.
func (sv *sessionVerifier) verifyLive(ctx context.Context, access, refresh string, claims *Claims) (*Identity, []*http.Cookie, error) {
	sessions, err := sv.sessionRepo.GetByAccessTokens(ctx, nil, []string{access})
	if err != nil {
		return nil, nil, apierr.ServiceError(fmt.Errorf("session lookup: %w", err))
	}
	if len(sessions) == 0 {
		// Revoked (logged out elsewhere). A live refresh token can still
		// resurrect the session.
		if refresh != "" {
			return sv.rotate(ctx, refresh)
		}
		return nil, nil, errSessionMissing()
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, errSessionMissing()
	}
	return &Identity{UserID: userID, Email: claims.Email, Role: claims.Role}, nil, nil
}

// rotate exchanges a live refresh token for a fresh session. The new cookie
// pair is returned explicitly; the old session row is gone once this
// commits.
func (sv *sessionVerifier) rotate(ctx context.Context, refresh string) (*Identity, []*http.Cookie, error) {
	if refresh == "" {
		return nil, nil, errSessionMissing()
	}

	sessions, err := sv.sessionRepo.GetByRefreshTokens(ctx, nil, []string{refresh})
	if err != nil {
		return nil, nil, apierr.ServiceError(fmt.Errorf("refresh lookup: %w", err))
	}
	if len(sessions) == 0 {
		return nil, nil, errSessionMissing()
	}
	existing := sessions[0]
	if existing.Expired(time.Now()) {
		if dErr := sv.sessionRepo.Delete(ctx, nil, []*types.Session{existing}); dErr != nil {
			sv.log.Warn("failed to prune expired session", "error", dErr, "session_id", existing.ID.String())
		}
		return nil, nil, errSessionMissing()
	}

	users, err := sv.userRepo.GetByIDs(ctx, nil, []uuid.UUID{existing.UserID})
	if err != nil {
		return nil, nil, apierr.ServiceError(fmt.Errorf("user lookup for refresh: %w", err))
	}
	if len(users) == 0 {
		return nil, nil, errSessionMissing()
	}
	user := users[0]

	var newAccess, newRefresh string
	err = sv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tok, genErr := MintAccessToken(sv.secret, user, sv.accessTTL)
		if genErr != nil {
			return fmt.Errorf("mint access token: %w", genErr)
		}
		newAccess = tok
		newRefresh = uuid.New().String()
		newSession := types.Session{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  newAccess,
			RefreshToken: newRefresh,
			ExpiresAt:    time.Now().Add(sv.refreshTTL),
		}
		if _, cErr := sv.sessionRepo.Create(ctx, tx, []*types.Session{&newSession}); cErr != nil {
			return fmt.Errorf("create rotated session: %w", cErr)
		}
		if dErr := sv.sessionRepo.Delete(ctx, tx, []*types.Session{existing}); dErr != nil {
			return fmt.Errorf("delete rotated-out session: %w", dErr)
		}
		return nil
	})
	if err != nil {
		return nil, nil, apierr.ServiceError(fmt.Errorf("session rotation: %w", err))
	}

	identity := &Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	return identity, SessionCookies(newAccess, newRefresh, sv.accessTTL, sv.refreshTTL), nil
}

// IsSessionMissing classifies err as the expected "no authenticated user"
// outcome. The code check is primary; the substring fallback covers errors
// that crossed a boundary that flattened them to strings.
func IsSessionMissing(err error) bool {
	if err == nil {
		return false
	}
	if apierr.HasCode(err, apierr.CodeSessionMissing) {
		return true
	}
	return strings.Contains(err.Error(), "session missing")
}
