package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/bazaarlane/admin-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		FullName: "Seed User",
		Role:     role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAddress(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, isDefault bool) *types.Address {
	tb.Helper()
	a := &types.Address{
		ID:           uuid.New(),
		UserID:       ownerID,
		AddressType:  "home",
		AddressLine1: fmt.Sprintf("%s MG Road", uuid.NewString()[:8]),
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560001",
		Country:      "India",
		IsDefault:    isDefault,
		IsActive:     true,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed address: %v", err)
	}
	return a
}

func SeedNotification(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) *types.Notification {
	tb.Helper()
	n := &types.Notification{
		ID:     uuid.New(),
		UserID: ownerID,
		Title:  "order shipped",
		Body:   "your order is on the way",
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed notification: %v", err)
	}
	return n
}
