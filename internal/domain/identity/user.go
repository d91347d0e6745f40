package identity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role claims admitted by the admin gate. Anything else is an ordinary
// storefront customer and gets no admin access.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string    `gorm:"not null;column:password" json:"-"`
	FullName string    `gorm:"column:full_name" json:"full_name"`
	Phone    string    `gorm:"column:phone" json:"phone"`
	Role     string    `gorm:"not null;default:'customer';column:role" json:"role"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) IsAdmin() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleSuperAdmin)
}
