package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	types "github.com/bazaarlane/admin-backend/internal/domain"
)

// Session cookie names. The access cookie carries a short-lived JWT; the
// refresh cookie carries the opaque rotation token.
const (
	SessionCookieName = "bl_session"
	RefreshCookieName = "bl_refresh"
)

type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func MintAccessToken(secret string, user *types.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseAccessToken(secret, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// SessionCookies builds the cookie pair for an issued session. The caller
// attaches them to whatever response terminates the request; nothing here
// writes to shared state.
func SessionCookies(access, refresh string, accessTTL, refreshTTL time.Duration) []*http.Cookie {
	return []*http.Cookie{
		{
			Name:     SessionCookieName,
			Value:    access,
			Path:     "/",
			MaxAge:   int(accessTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		{
			Name:     RefreshCookieName,
			Value:    refresh,
			Path:     "/",
			MaxAge:   int(refreshTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// ClearedSessionCookies expires both session cookies (logout).
func ClearedSessionCookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: SessionCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode},
		{Name: RefreshCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode},
	}
}
