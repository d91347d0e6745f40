package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarlane/admin-backend/internal/data/repos/session"
	"github.com/bazaarlane/admin-backend/internal/data/repos/testutil"
	"github.com/bazaarlane/admin-backend/internal/data/repos/user"
	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
)

const testSecret = "verifier-test-secret"

type fakeSessionRepo struct {
	byAccess  map[string]*types.Session
	byRefresh map[string]*types.Session
	err       error
	deleted   []uuid.UUID
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return sessions, nil
}

func (f *fakeSessionRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.Session
	for _, t := range accessTokens {
		if s, ok := f.byAccess[t]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.Session
	for _, t := range refreshTokens {
		if s, ok := f.byRefresh[t]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Session, error) {
	return nil, f.err
}

func (f *fakeSessionRepo) Delete(ctx context.Context, tx *gorm.DB, sessions []*types.Session) error {
	for _, s := range sessions {
		f.deleted = append(f.deleted, s.ID)
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpiredBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return 0, f.err
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
	err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	return users, f.err
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	return nil, f.err
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
	return false, f.err
}

func newTestVerifier(t *testing.T, users *fakeUserRepo, sessions *fakeSessionRepo) Verifier {
	t.Helper()
	return NewSessionVerifier(nil, testutil.Logger(t), users, sessions, testSecret, 15*time.Minute, 24*time.Hour)
}

func TestVerifyNoCookies(t *testing.T) {
	v := newTestVerifier(t, &fakeUserRepo{}, &fakeSessionRepo{})
	identity, cookies, err := v.Verify(context.Background(), "", "")
	if identity != nil || cookies != nil {
		t.Fatalf("expected no identity, got %+v / %+v", identity, cookies)
	}
	if !IsSessionMissing(err) {
		t.Fatalf("expected session-missing error, got %v", err)
	}
}

func TestVerifyMalformedAccessToken(t *testing.T) {
	v := newTestVerifier(t, &fakeUserRepo{}, &fakeSessionRepo{})
	_, _, err := v.Verify(context.Background(), "not-a-jwt", "")
	if !IsSessionMissing(err) {
		t.Fatalf("expected session-missing error, got %v", err)
	}
}

func TestVerifyWrongSignature(t *testing.T) {
	u := &types.User{ID: uuid.New(), Email: "a@b.test", Role: types.RoleAdmin}
	tok, err := MintAccessToken("some-other-secret", u, time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	v := newTestVerifier(t, &fakeUserRepo{}, &fakeSessionRepo{})
	_, _, vErr := v.Verify(context.Background(), tok, "")
	if !IsSessionMissing(vErr) {
		t.Fatalf("expected session-missing error, got %v", vErr)
	}
}

func TestVerifyValidAccessToken(t *testing.T) {
	u := &types.User{ID: uuid.New(), Email: "admin@bazaarlane.test", Role: types.RoleAdmin}
	tok, err := MintAccessToken(testSecret, u, time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	sessions := &fakeSessionRepo{byAccess: map[string]*types.Session{
		tok: {ID: uuid.New(), UserID: u.ID, AccessToken: tok, ExpiresAt: time.Now().Add(time.Hour)},
	}}

	v := newTestVerifier(t, &fakeUserRepo{}, sessions)
	identity, cookies, err := v.Verify(context.Background(), tok, "")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity == nil || identity.UserID != u.ID || identity.Role != types.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if cookies != nil {
		t.Fatalf("expected no refreshed cookies for a live token, got %d", len(cookies))
	}
}

func TestVerifyRevokedAccessNoRefresh(t *testing.T) {
	u := &types.User{ID: uuid.New(), Email: "admin@bazaarlane.test", Role: types.RoleAdmin}
	tok, err := MintAccessToken(testSecret, u, time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	// Token is cryptographically fine but the session row is gone.
	v := newTestVerifier(t, &fakeUserRepo{}, &fakeSessionRepo{})
	_, _, vErr := v.Verify(context.Background(), tok, "")
	if !IsSessionMissing(vErr) {
		t.Fatalf("expected session-missing error, got %v", vErr)
	}
}

func TestVerifyStoreErrorIsNotSessionMissing(t *testing.T) {
	u := &types.User{ID: uuid.New(), Email: "admin@bazaarlane.test", Role: types.RoleAdmin}
	tok, err := MintAccessToken(testSecret, u, time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	sessions := &fakeSessionRepo{err: errors.New("connection refused")}

	v := newTestVerifier(t, &fakeUserRepo{}, sessions)
	_, _, vErr := v.Verify(context.Background(), tok, "")
	if vErr == nil {
		t.Fatal("expected error")
	}
	if IsSessionMissing(vErr) {
		t.Fatalf("store failure must not classify as session-missing: %v", vErr)
	}
	if got := apierr.StatusOf(vErr); got != 500 {
		t.Fatalf("expected status 500, got %d", got)
	}
	if got := apierr.CodeOf(vErr); got != apierr.CodeServiceError {
		t.Fatalf("expected code %q, got %q", apierr.CodeServiceError, got)
	}
}

func TestVerifyExpiredRefreshToken(t *testing.T) {
	u := &types.User{ID: uuid.New(), Email: "admin@bazaarlane.test", Role: types.RoleAdmin}
	staleAccess, err := MintAccessToken(testSecret, u, -time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	dead := &types.Session{
		ID:           uuid.New(),
		UserID:       u.ID,
		RefreshToken: "dead-refresh",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	sessions := &fakeSessionRepo{byRefresh: map[string]*types.Session{"dead-refresh": dead}}

	v := newTestVerifier(t, &fakeUserRepo{users: map[uuid.UUID]*types.User{u.ID: u}}, sessions)
	_, _, vErr := v.Verify(context.Background(), staleAccess, "dead-refresh")
	if !IsSessionMissing(vErr) {
		t.Fatalf("expected session-missing error, got %v", vErr)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != dead.ID {
		t.Fatalf("expected expired session to be pruned, deleted=%v", sessions.deleted)
	}
}

func TestVerifyRotation(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := user.NewUserRepo(db, log)
	sessionRepo := session.NewSessionRepo(db, log)

	owner := testutil.SeedUser(t, ctx, db, "rotate@bazaarlane.test", types.RoleAdmin)
	staleAccess, err := MintAccessToken(testSecret, owner, -time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	old := &types.Session{
		ID:           uuid.New(),
		UserID:       owner.ID,
		AccessToken:  staleAccess,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if _, err := sessionRepo.Create(ctx, nil, []*types.Session{old}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	t.Cleanup(func() {
		db.Where("user_id = ?", owner.ID).Delete(&types.Session{})
		db.Unscoped().Where("id = ?", owner.ID).Delete(&types.User{})
	})

	v := NewSessionVerifier(db, log, userRepo, sessionRepo, testSecret, 15*time.Minute, 24*time.Hour)
	identity, cookies, err := v.Verify(ctx, staleAccess, old.RefreshToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity == nil || identity.UserID != owner.ID {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected refreshed cookie pair, got %d", len(cookies))
	}
	var haveSession, haveRefresh bool
	for _, c := range cookies {
		switch c.Name {
		case SessionCookieName:
			haveSession = c.Value != "" && c.Value != staleAccess
		case RefreshCookieName:
			haveRefresh = c.Value != "" && c.Value != old.RefreshToken
		}
	}
	if !haveSession || !haveRefresh {
		t.Fatalf("rotated cookies must carry fresh values: %+v", cookies)
	}

	// The rotated-out refresh token is gone.
	stale, err := sessionRepo.GetByRefreshTokens(ctx, nil, []string{old.RefreshToken})
	if err != nil {
		t.Fatalf("lookup old refresh: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("old session should have been deleted, found %d", len(stale))
	}
}
