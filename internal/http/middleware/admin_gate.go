package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/bazaarlane/admin-backend/internal/auth"
	"github.com/bazaarlane/admin-backend/internal/http/response"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/ctxutil"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

// AdminGate guards every dashboard page. Requests land in one of four
// buckets: exempt (pass through untouched), unauthenticated (redirect to
// login with a return path), authenticated but under-privileged (redirect
// with an error marker), or verification failure (500 — a storage outage
// must read as an outage, not as "please log in").
type AdminGate struct {
	log      *logger.Logger
	verifier auth.Verifier
	policy   auth.RolePolicy
	matcher  *PathMatcher
	metrics  *observability.Metrics
}

func NewAdminGate(
	log *logger.Logger,
	verifier auth.Verifier,
	policy auth.RolePolicy,
	matcher *PathMatcher,
	metrics *observability.Metrics,
) *AdminGate {
	gateLog := log.With("middleware", "AdminGate")
	if matcher == nil {
		matcher = DefaultPathMatcher()
	}
	return &AdminGate{log: gateLog, verifier: verifier, policy: policy, matcher: matcher, metrics: metrics}
}

func (g *AdminGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if g.matcher.Exempt(path) {
			c.Next()
			return
		}

		access := cookieValue(c, auth.SessionCookieName)
		refresh := cookieValue(c, auth.RefreshCookieName)

		identity, refreshed, err := g.verifier.Verify(c.Request.Context(), access, refresh)
		if err != nil {
			if auth.IsSessionMissing(err) {
				g.metrics.IncAuthDenied("session_missing")
				g.redirectToLogin(c, path, false)
				return
			}
			g.metrics.IncAuthDenied("service_error")
			g.log.Error("session verification failed", "error", err, "path", path)
			response.RespondError(c, http.StatusInternalServerError, "auth_service_error", errors.New("authentication service unavailable"))
			c.Abort()
			return
		}
		if identity == nil {
			g.metrics.IncAuthDenied("service_error")
			g.log.Error("session verifier returned no identity and no error", "path", path)
			response.RespondError(c, http.StatusInternalServerError, "auth_service_error", errors.New("authentication service unavailable"))
			c.Abort()
			return
		}

		// Rotated cookies ride along on every outcome decided after this
		// point, the denial redirect included: the session itself is valid.
		attachCookies(c, refreshed)
		if len(refreshed) > 0 {
			g.metrics.IncSessionRotation()
		}

		if !g.policy.Allow(identity.Role) {
			g.metrics.IncAuthDenied("role_denied")
			g.log.Warn("non-admin user denied dashboard access",
				"user_id", identity.UserID.String(),
				"role", identity.Role,
				"path", path,
			)
			g.redirectToLogin(c, path, true)
			return
		}

		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			UserID: identity.UserID,
			Email:  identity.Email,
			Role:   identity.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (g *AdminGate) redirectToLogin(c *gin.Context, path string, unauthorized bool) {
	target := "/login?redirect=" + url.QueryEscape(path)
	if unauthorized {
		target += "&error=unauthorized"
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

func cookieValue(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}

func attachCookies(c *gin.Context, cookies []*http.Cookie) {
	for _, ck := range cookies {
		http.SetCookie(c.Writer, ck)
	}
}
