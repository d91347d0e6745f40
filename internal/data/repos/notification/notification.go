package notification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, ownerID, notificationID uuid.UUID) (int64, error)
	GetForOwner(ctx context.Context, tx *gorm.DB, ownerID, notificationID uuid.UUID) (*types.Notification, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if len(notifications) == 0 {
		return []*types.Notification{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead is owner-scoped in the WHERE clause; a foreign notification id
// affects zero rows.
func (nr *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, ownerID, notificationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, ownerID).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (nr *notificationRepo) GetForOwner(ctx context.Context, tx *gorm.DB, ownerID, notificationID uuid.UUID) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var result types.Notification
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, ownerID).
		Take(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
