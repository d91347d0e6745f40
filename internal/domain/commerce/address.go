package commerce

import (
	"time"

	"github.com/google/uuid"
)

// Address is an owner-scoped shipping/billing address. Invariant: per
// (user_id, is_active=true) partition at most one row has is_default=true.
// Rows are never hard-deleted; delete flips is_active off and deliberately
// leaves is_default alone, so deactivating the default leaves the owner with
// no default rather than silently promoting another row.
type Address struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	AddressType  string    `gorm:"not null;default:'home';column:address_type" json:"address_type"`
	Label        *string   `gorm:"column:label" json:"label"`
	FullName     *string   `gorm:"column:full_name" json:"full_name"`
	Phone        *string   `gorm:"column:phone" json:"phone"`
	AddressLine1 string    `gorm:"not null;column:address_line_1" json:"address_line_1"`
	AddressLine2 *string   `gorm:"column:address_line_2" json:"address_line_2"`
	City         string    `gorm:"not null;column:city" json:"city"`
	State        string    `gorm:"not null;column:state" json:"state"`
	PostalCode   string    `gorm:"not null;column:postal_code" json:"postal_code"`
	Country      string    `gorm:"not null;default:'India';column:country" json:"country"`
	IsDefault    bool      `gorm:"not null;default:false;column:is_default" json:"is_default"`
	IsActive     bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Address) TableName() string { return "user_address" }
