package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bazaarlane/admin-backend/internal/auth"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
	"github.com/bazaarlane/admin-backend/internal/platform/ctxutil"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type fakeVerifier struct {
	identity *auth.Identity
	cookies  []*http.Cookie
	err      error
	calls    int
}

func (f *fakeVerifier) Verify(ctx context.Context, access, refresh string) (*auth.Identity, []*http.Cookie, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.identity, f.cookies, nil
}

func gateRouter(t *testing.T, v auth.Verifier) (*gin.Engine, *[]*ctxutil.RequestData) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	var seen []*ctxutil.RequestData
	r := gin.New()
	gate := NewAdminGate(log, v, auth.AdminOnly{}, DefaultPathMatcher(), nil)
	r.Use(gate.Handler())
	record := func(c *gin.Context) {
		seen = append(seen, ctxutil.GetRequestData(c.Request.Context()))
		c.String(http.StatusOK, "page")
	}
	r.GET("/", record)
	r.GET("/orders", record)
	r.GET("/login", record)
	r.GET("/api/ping", record)
	return r, &seen
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	r, _ := gateRouter(t, &fakeVerifier{err: apierr.SessionMissing(errors.New("auth session missing"))})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login?redirect=%2Forders" {
		t.Fatalf("unexpected redirect target: %q", got)
	}
}

func TestGateRoleDenied(t *testing.T) {
	v := &fakeVerifier{identity: &auth.Identity{UserID: uuid.New(), Email: "c@x.test", Role: "customer"}}
	r, seen := gateRouter(t, v)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login?redirect=%2Forders&error=unauthorized" {
		t.Fatalf("unexpected redirect target: %q", got)
	}
	if len(*seen) != 0 {
		t.Fatal("handler must not run for a denied role")
	}
}

func TestGateRoleDeniedStillPropagatesRefreshedCookies(t *testing.T) {
	v := &fakeVerifier{
		identity: &auth.Identity{UserID: uuid.New(), Role: "customer"},
		cookies:  auth.SessionCookies("new-access", "new-refresh", time.Minute, time.Hour),
	}
	r, _ := gateRouter(t, v)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("refreshed session cookies must survive the denial redirect, got %d", len(cookies))
	}
}

func TestGateServiceErrorIs500(t *testing.T) {
	r, _ := gateRouter(t, &fakeVerifier{err: apierr.ServiceError(errors.New("connection refused"))})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("a verification outage must surface as 500, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Fatalf("must not redirect on service failure, got %q", loc)
	}
}

// A verifier that returns neither identity nor error is broken; the gate
// treats it like an outage instead of panicking.
func TestGateNilIdentityIs500(t *testing.T) {
	r, seen := gateRouter(t, &fakeVerifier{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a nil identity, got %d", rec.Code)
	}
	if len(*seen) != 0 {
		t.Fatal("handler must not run without an identity")
	}
}

func TestGateAllowsAdminAndSetsIdentity(t *testing.T) {
	id := uuid.New()
	for _, role := range []string{"admin", "super_admin"} {
		v := &fakeVerifier{identity: &auth.Identity{UserID: id, Email: "a@x.test", Role: role}}
		r, seen := gateRouter(t, v)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200, got %d", role, rec.Code)
		}
		if len(*seen) != 1 || (*seen)[0] == nil || (*seen)[0].UserID != id {
			t.Fatalf("role %s: request identity not attached", role)
		}
	}
}

func TestGateAllowAttachesRefreshedCookies(t *testing.T) {
	v := &fakeVerifier{
		identity: &auth.Identity{UserID: uuid.New(), Role: "admin"},
		cookies:  auth.SessionCookies("rotated-access", "rotated-refresh", time.Minute, time.Hour),
	}
	r, _ := gateRouter(t, v)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var gotAccess, gotRefresh bool
	for _, ck := range rec.Result().Cookies() {
		switch ck.Name {
		case auth.SessionCookieName:
			gotAccess = ck.Value == "rotated-access"
		case auth.RefreshCookieName:
			gotRefresh = ck.Value == "rotated-refresh"
		}
	}
	if !gotAccess || !gotRefresh {
		t.Fatal("rotated cookie pair missing from response")
	}
}

func TestGateSkipsExemptPaths(t *testing.T) {
	v := &fakeVerifier{err: apierr.ServiceError(errors.New("must not be called"))}
	r, _ := gateRouter(t, v)

	for _, path := range []string{"/login", "/api/ping"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
	if v.calls != 0 {
		t.Fatalf("verifier must not run on exempt paths, ran %d times", v.calls)
	}
}
