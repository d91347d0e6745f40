package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Only HS256 is ever minted, so the parser pins the algorithm: a token
// that names any other method is rejected even when its signature would
// verify against the shared secret.
func TestParseAccessTokenPinsSigningMethod(t *testing.T) {
	const secret = "tokens-test-secret"
	claims := jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, err := ParseAccessToken(secret, hs512); err == nil {
		t.Fatal("HS512 token signed with the shared secret must be rejected")
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseAccessToken(secret, unsigned); err == nil {
		t.Fatal("unsigned token must be rejected")
	}
}
