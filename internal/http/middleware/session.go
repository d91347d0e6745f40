package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazaarlane/admin-backend/internal/auth"
	"github.com/bazaarlane/admin-backend/internal/http/response"
	"github.com/bazaarlane/admin-backend/internal/platform/ctxutil"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

// SessionMiddleware authenticates JSON API requests. Unlike the page gate
// it never redirects: a missing session is a 401 envelope the client is
// expected to handle.
type SessionMiddleware struct {
	log      *logger.Logger
	verifier auth.Verifier
}

func NewSessionMiddleware(log *logger.Logger, verifier auth.Verifier) *SessionMiddleware {
	return &SessionMiddleware{log: log.With("middleware", "SessionMiddleware"), verifier: verifier}
}

func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		access := cookieValue(c, auth.SessionCookieName)
		refresh := cookieValue(c, auth.RefreshCookieName)

		identity, refreshed, err := sm.verifier.Verify(c.Request.Context(), access, refresh)
		if err != nil {
			if auth.IsSessionMissing(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{"message": "Authentication required", "code": "unauthorized"},
				})
				return
			}
			sm.log.Error("session verification failed", "error", err, "path", c.Request.URL.Path)
			response.RespondError(c, http.StatusInternalServerError, "auth_service_error", errors.New("authentication service unavailable"))
			c.Abort()
			return
		}
		if identity == nil {
			sm.log.Error("session verifier returned no identity and no error", "path", c.Request.URL.Path)
			response.RespondError(c, http.StatusInternalServerError, "auth_service_error", errors.New("authentication service unavailable"))
			c.Abort()
			return
		}

		attachCookies(c, refreshed)
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			UserID: identity.UserID,
			Email:  identity.Email,
			Role:   identity.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
