package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type AddressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, addresses []*types.Address) ([]*types.Address, error)
	GetForOwner(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID) (*types.Address, error)
	ListActiveByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Address, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID, fields map[string]any) (int64, error)
	Deactivate(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID) (int64, error)
}

// DefaultCoordinator is the capability that maintains "at most one default
// address per owner" across the active rows. Both operations perform the
// clear+set as one transaction against Postgres, so two concurrent calls for
// the same owner serialize at the database and can never leave two defaults.
// The service layer depends on this interface, not on the concrete repo, so
// the contract can be exercised against an in-memory implementation.
type DefaultCoordinator interface {
	// SetDefault makes addressID the owner's sole default. Returns
	// gorm.ErrRecordNotFound when the target does not exist, is inactive, or
	// belongs to a different owner.
	SetDefault(ctx context.Context, ownerID, addressID uuid.UUID) (*types.Address, error)
	// CreateDefault inserts the address and makes it the sole default in the
	// same transaction.
	CreateDefault(ctx context.Context, addr *types.Address) (*types.Address, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	repoLog := baseLog.With("repo", "AddressRepo")
	return &addressRepo{db: db, log: repoLog}
}

// NewDefaultCoordinator returns the Postgres-backed coordinator.
func NewDefaultCoordinator(db *gorm.DB, baseLog *logger.Logger) DefaultCoordinator {
	repoLog := baseLog.With("repo", "AddressDefaultCoordinator")
	return &addressRepo{db: db, log: repoLog}
}

func (ar *addressRepo) Create(ctx context.Context, tx *gorm.DB, addresses []*types.Address) ([]*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(addresses) == 0 {
		return []*types.Address{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (ar *addressRepo) GetForOwner(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID) (*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Address
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_active", addressID, ownerID).
		Take(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *addressRepo) ListActiveByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Address
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND is_active", ownerID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateFields applies the given column map to the owner's address. The
// owner filter lives in the WHERE clause, so a foreign address id simply
// affects zero rows; callers translate that into a not-found.
func (ar *addressRepo) UpdateFields(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID, fields map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(fields) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.Address{}).
		Where("id = ? AND user_id = ? AND is_active", addressID, ownerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// Deactivate soft-deletes. is_default is deliberately left alone: a
// deactivated former default leaves the owner with no default.
func (ar *addressRepo) Deactivate(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Address{}).
		Where("id = ? AND user_id = ? AND is_active", addressID, ownerID).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (ar *addressRepo) SetDefault(ctx context.Context, ownerID, addressID uuid.UUID) (*types.Address, error) {
	var updated types.Address
	err := ar.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Verify the target inside the transaction before touching anything:
		// a missing or foreign target must not clear the owner's current
		// default.
		var target types.Address
		if err := tx.
			Where("id = ? AND user_id = ? AND is_active", addressID, ownerID).
			Take(&target).Error; err != nil {
			return err
		}

		// Clear and set in one statement. This is the atomic boundary that
		// keeps concurrent set-default calls from leaving two defaults.
		if err := tx.Exec(`
			UPDATE user_address
			SET is_default = (id = ?), updated_at = now()
			WHERE user_id = ? AND is_active
		`, addressID, ownerID).Error; err != nil {
			return err
		}

		return tx.
			Where("id = ? AND user_id = ?", addressID, ownerID).
			Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (ar *addressRepo) CreateDefault(ctx context.Context, addr *types.Address) (*types.Address, error) {
	err := ar.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			UPDATE user_address
			SET is_default = false, updated_at = now()
			WHERE user_id = ? AND is_active AND is_default
		`, addr.UserID).Error; err != nil {
			return err
		}
		addr.IsDefault = true
		return tx.Create(addr).Error
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}
