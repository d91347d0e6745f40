package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	addressrepo "github.com/bazaarlane/admin-backend/internal/data/repos/address"
	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

// addressUpdateFields is the full set of client-writable columns. Keys a
// client sends that are not listed here are dropped without comment, so a
// payload that tries to smuggle user_id or is_active simply loses those keys.
// is_default is writable but is deliberately absent: it never travels
// through a plain column update and is handled by the DefaultCoordinator.
var addressUpdateFields = []string{
	"address_type",
	"label",
	"full_name",
	"phone",
	"address_line_1",
	"address_line_2",
	"city",
	"state",
	"postal_code",
	"country",
}

// addressRequiredFields, in the order a missing one is reported.
var addressRequiredFields = []string{
	"address_line_1",
	"city",
	"state",
	"postal_code",
}

type AddressService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]*types.Address, error)
	Create(ctx context.Context, ownerID uuid.UUID, body map[string]any) (*types.Address, error)
	Update(ctx context.Context, ownerID, addressID uuid.UUID, body map[string]any) (*types.Address, error)
	Delete(ctx context.Context, ownerID, addressID uuid.UUID) error
}

type addressService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    addressrepo.AddressRepo
	coord   addressrepo.DefaultCoordinator
	metrics *observability.Metrics
}

func NewAddressService(
	db *gorm.DB,
	log *logger.Logger,
	repo addressrepo.AddressRepo,
	coord addressrepo.DefaultCoordinator,
	metrics *observability.Metrics,
) AddressService {
	serviceLog := log.With("service", "AddressService")
	return &addressService{db: db, log: serviceLog, repo: repo, coord: coord, metrics: metrics}
}

func (s *addressService) List(ctx context.Context, ownerID uuid.UUID) ([]*types.Address, error) {
	rows, err := s.repo.ListActiveByOwner(ctx, nil, ownerID)
	if err != nil {
		return nil, apierr.ServiceError(fmt.Errorf("list addresses: %w", err))
	}
	return rows, nil
}

func (s *addressService) Create(ctx context.Context, ownerID uuid.UUID, body map[string]any) (*types.Address, error) {
	for _, field := range addressRequiredFields {
		if strings.TrimSpace(stringField(body, field)) == "" {
			return nil, apierr.Validation(fmt.Errorf("%s is required", field))
		}
	}

	addr := &types.Address{
		ID:           uuid.New(),
		UserID:       ownerID,
		AddressLine1: stringField(body, "address_line_1"),
		AddressLine2: optStringField(body, "address_line_2"),
		City:         stringField(body, "city"),
		State:        stringField(body, "state"),
		PostalCode:   stringField(body, "postal_code"),
		Label:        optStringField(body, "label"),
		FullName:     optStringField(body, "full_name"),
		Phone:        optStringField(body, "phone"),
		IsActive:     true,
	}
	if v := stringField(body, "country"); v != "" {
		addr.Country = v
	} else {
		addr.Country = "India"
	}
	if v := stringField(body, "address_type"); v != "" {
		addr.AddressType = v
	} else {
		addr.AddressType = "home"
	}

	if wantDefault(body) {
		if _, err := s.coord.CreateDefault(ctx, addr); err != nil {
			return nil, apierr.InvariantFailed(fmt.Errorf("create default address: %w", err))
		}
		s.metrics.IncDefaultFlip()
		return addr, nil
	}
	if _, err := s.repo.Create(ctx, nil, []*types.Address{addr}); err != nil {
		return nil, apierr.ServiceError(fmt.Errorf("create address: %w", err))
	}
	return addr, nil
}

func (s *addressService) Update(ctx context.Context, ownerID, addressID uuid.UUID, body map[string]any) (*types.Address, error) {
	if wantDefault(body) {
		if _, err := s.coord.SetDefault(ctx, ownerID, addressID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound(errors.New("address not found"))
			}
			return nil, apierr.InvariantFailed(fmt.Errorf("set default address: %w", err))
		}
		s.metrics.IncDefaultFlip()
	}

	fields := filterAddressFields(body)
	fields["updated_at"] = time.Now()
	rows, err := s.repo.UpdateFields(ctx, nil, ownerID, addressID, fields)
	if err != nil {
		return nil, apierr.ServiceError(fmt.Errorf("update address: %w", err))
	}
	if rows == 0 {
		return nil, apierr.NotFound(errors.New("address not found"))
	}

	updated, err := s.repo.GetForOwner(ctx, nil, ownerID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(errors.New("address not found"))
		}
		return nil, apierr.ServiceError(fmt.Errorf("reload address: %w", err))
	}
	return updated, nil
}

// Delete soft-deletes. A deactivated default leaves the owner with no
// default address; nothing is promoted in its place.
func (s *addressService) Delete(ctx context.Context, ownerID, addressID uuid.UUID) error {
	rows, err := s.repo.Deactivate(ctx, nil, ownerID, addressID)
	if err != nil {
		return apierr.ServiceError(fmt.Errorf("deactivate address: %w", err))
	}
	if rows == 0 {
		return apierr.NotFound(errors.New("address not found"))
	}
	return nil
}

// filterAddressFields keeps only the allow-listed keys actually present in
// the payload. Iterating the allow-list rather than the payload means
// unknown keys never reach the update statement.
func filterAddressFields(body map[string]any) map[string]any {
	out := make(map[string]any, len(addressUpdateFields))
	for _, field := range addressUpdateFields {
		if v, ok := body[field]; ok {
			out[field] = v
		}
	}
	return out
}

func wantDefault(body map[string]any) bool {
	v, ok := body["is_default"].(bool)
	return ok && v
}

func stringField(body map[string]any, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}

func optStringField(body map[string]any, key string) *string {
	if v, ok := body[key].(string); ok && v != "" {
		return &v
	}
	return nil
}
