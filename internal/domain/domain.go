package domain

import (
	"github.com/bazaarlane/admin-backend/internal/domain/commerce"
	"github.com/bazaarlane/admin-backend/internal/domain/identity"
)

const (
	RoleAdmin      = identity.RoleAdmin
	RoleSuperAdmin = identity.RoleSuperAdmin
)

type (
	User    = identity.User
	Session = identity.Session

	Address      = commerce.Address
	Product      = commerce.Product
	Category     = commerce.Category
	Notification = commerce.Notification
)
