package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	notificationrepo "github.com/bazaarlane/admin-backend/internal/data/repos/notification"
	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type NotificationService interface {
	MarkRead(ctx context.Context, ownerID, notificationID uuid.UUID) (*types.Notification, error)
}

type notificationService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo notificationrepo.NotificationRepo
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, repo notificationrepo.NotificationRepo) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	return &notificationService{db: db, log: serviceLog, repo: repo}
}

func (ns *notificationService) MarkRead(ctx context.Context, ownerID, notificationID uuid.UUID) (*types.Notification, error) {
	rows, err := ns.repo.MarkRead(ctx, nil, ownerID, notificationID)
	if err != nil {
		return nil, apierr.ServiceError(fmt.Errorf("mark read: %w", err))
	}
	if rows == 0 {
		return nil, apierr.NotFound(errors.New("notification not found"))
	}
	updated, err := ns.repo.GetForOwner(ctx, nil, ownerID, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(errors.New("notification not found"))
		}
		return nil, apierr.ServiceError(fmt.Errorf("reload notification: %w", err))
	}
	return updated, nil
}
