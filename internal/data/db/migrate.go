package db

import (
	"fmt"

	types "github.com/bazaarlane/admin-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity + sessions
		// =========================
		&types.User{},
		&types.Session{},

		// =========================
		// Commerce
		// =========================
		&types.Category{},
		&types.Product{},
		&types.Address{},
		&types.Notification{},
	)
}

func EnsureIndexes(db *gorm.DB) error {
	// user_session
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_session_expires_at ON user_session(expires_at);`).Error; err != nil {
		return fmt.Errorf("create idx_user_session_expires_at: %w", err)
	}
	// user_address: the database is the final word on the single-default
	// invariant. The coordinator maintains it transactionally; this partial
	// unique index rejects any writer that bypasses the coordinator.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_user_address_single_default
		ON user_address(user_id)
		WHERE is_default AND is_active;
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_address_single_default: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_address_owner_active ON user_address(user_id, is_active);`).Error; err != nil {
		return fmt.Errorf("create idx_user_address_owner_active: %w", err)
	}
	return nil
}
