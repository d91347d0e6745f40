package identity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one issued credential pair: a short-lived access JWT plus the
// opaque refresh token that can rotate it. Rows are deleted on logout and on
// rotation; a session with no row is revoked regardless of JWT validity.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	AccessToken  string    `gorm:"not null;index;column:access_token" json:"-"`
	RefreshToken string    `gorm:"not null;uniqueIndex;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;column:expires_at" json:"expires_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Session) TableName() string { return "user_session" }

func (s *Session) Expired(now time.Time) bool {
	return s == nil || s.ExpiresAt.Before(now)
}
