package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarlane/admin-backend/internal/data/repos/testutil"
	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
)

// memAddressStore backs both the repo and the coordinator with a single
// mutex-guarded map so the concurrency tests exercise the same invariant
// the database enforces: at most one default per owner among active rows.
type memAddressStore struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*types.Address
	updateErr error
	coordErr  error
}

func newMemAddressStore() *memAddressStore {
	return &memAddressStore{rows: map[uuid.UUID]*types.Address{}}
}

func (m *memAddressStore) add(ownerID uuid.UUID, isDefault bool) *types.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &types.Address{
		ID:           uuid.New(),
		UserID:       ownerID,
		AddressLine1: "44 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560001",
		Country:      "India",
		AddressType:  "home",
		IsDefault:    isDefault,
		IsActive:     true,
	}
	m.rows[a.ID] = a
	return a
}

func (m *memAddressStore) Create(ctx context.Context, tx *gorm.DB, addresses []*types.Address) ([]*types.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range addresses {
		m.rows[a.ID] = a
	}
	return addresses, nil
}

func (m *memAddressStore) GetForOwner(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID) (*types.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[addressID]
	if !ok || a.UserID != ownerID || !a.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAddressStore) ListActiveByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Address
	for _, a := range m.rows {
		if a.UserID == ownerID && a.IsActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAddressStore) UpdateFields(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID, fields map[string]any) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[addressID]
	if !ok || a.UserID != ownerID || !a.IsActive {
		return 0, nil
	}
	if v, ok := fields["city"].(string); ok {
		a.City = v
	}
	if v, ok := fields["label"].(string); ok {
		a.Label = &v
	}
	return 1, nil
}

func (m *memAddressStore) Deactivate(ctx context.Context, tx *gorm.DB, ownerID, addressID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[addressID]
	if !ok || a.UserID != ownerID || !a.IsActive {
		return 0, nil
	}
	a.IsActive = false
	a.IsDefault = false
	return 1, nil
}

func (m *memAddressStore) SetDefault(ctx context.Context, ownerID, addressID uuid.UUID) (*types.Address, error) {
	if m.coordErr != nil {
		return nil, m.coordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.rows[addressID]
	if !ok || target.UserID != ownerID || !target.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	for _, a := range m.rows {
		if a.UserID == ownerID && a.IsActive {
			a.IsDefault = a.ID == addressID
		}
	}
	cp := *target
	return &cp, nil
}

func (m *memAddressStore) CreateDefault(ctx context.Context, addr *types.Address) (*types.Address, error) {
	if m.coordErr != nil {
		return nil, m.coordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.UserID == addr.UserID && a.IsActive {
			a.IsDefault = false
		}
	}
	addr.IsDefault = true
	addr.IsActive = true
	m.rows[addr.ID] = addr
	return addr, nil
}

func (m *memAddressStore) defaults(ownerID uuid.UUID) []*types.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Address
	for _, a := range m.rows {
		if a.UserID == ownerID && a.IsActive && a.IsDefault {
			out = append(out, a)
		}
	}
	return out
}

func newTestAddressService(t *testing.T, store *memAddressStore) AddressService {
	t.Helper()
	return NewAddressService(nil, testutil.Logger(t), store, store, nil)
}

func TestAddressCreateRequiredFields(t *testing.T) {
	svc := newTestAddressService(t, newMemAddressStore())
	owner := uuid.New()

	cases := []struct {
		missing string
		body    map[string]any
	}{
		{"address_line_1", map[string]any{"city": "Pune", "state": "MH", "postal_code": "411001"}},
		{"city", map[string]any{"address_line_1": "1 FC Road", "state": "MH", "postal_code": "411001"}},
		{"state", map[string]any{"address_line_1": "1 FC Road", "city": "Pune", "postal_code": "411001"}},
		{"postal_code", map[string]any{"address_line_1": "1 FC Road", "city": "Pune", "state": "MH"}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), owner, tc.body)
		if err == nil {
			t.Fatalf("expected validation error for missing %s", tc.missing)
		}
		if apierr.StatusOf(err) != 400 {
			t.Fatalf("missing %s: expected 400, got %d", tc.missing, apierr.StatusOf(err))
		}
		want := tc.missing + " is required"
		if got := err.Error(); got != want {
			t.Fatalf("missing %s: expected %q, got %q", tc.missing, want, got)
		}
	}
}

func TestAddressCreateDefaults(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, map[string]any{
		"address_line_1": "1 FC Road",
		"city":           "Pune",
		"state":          "Maharashtra",
		"postal_code":    "411001",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Country != "India" || created.AddressType != "home" {
		t.Fatalf("expected India/home defaults, got %s/%s", created.Country, created.AddressType)
	}
	if created.IsDefault {
		t.Fatal("default must not be set unless requested")
	}
}

func TestAddressCreateAsDefaultDisplacesPrior(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()
	prior := store.add(owner, true)

	created, err := svc.Create(context.Background(), owner, map[string]any{
		"address_line_1": "9 Brigade Road",
		"city":           "Bengaluru",
		"state":          "Karnataka",
		"postal_code":    "560025",
		"is_default":     true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defaults := store.defaults(owner)
	if len(defaults) != 1 || defaults[0].ID != created.ID {
		t.Fatalf("expected only the new row default, got %d", len(defaults))
	}
	if got, _ := store.GetForOwner(context.Background(), nil, owner, prior.ID); got.IsDefault {
		t.Fatal("prior default should have been cleared")
	}
}

func TestAddressUpdateDropsUnknownKeys(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()
	addr := store.add(owner, false)

	updated, err := svc.Update(context.Background(), owner, addr.ID, map[string]any{
		"city":      "Mysuru",
		"user_id":   uuid.New().String(),
		"is_active": false,
		"role":      "super_admin",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.City != "Mysuru" {
		t.Fatalf("allow-listed field not applied: %s", updated.City)
	}
	if updated.UserID != owner || !updated.IsActive {
		t.Fatal("unknown keys must be dropped, not applied")
	}
}

func TestAddressUpdateSetDefault(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()
	first := store.add(owner, true)
	second := store.add(owner, false)

	updated, err := svc.Update(context.Background(), owner, second.ID, map[string]any{"is_default": true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsDefault {
		t.Fatal("target should be default after update")
	}
	defaults := store.defaults(owner)
	if len(defaults) != 1 || defaults[0].ID != second.ID {
		t.Fatalf("expected exactly one default (the target), got %d", len(defaults))
	}
	if got, _ := store.GetForOwner(context.Background(), nil, owner, first.ID); got.IsDefault {
		t.Fatal("previous default should have been cleared")
	}
}

// is_default=false is a no-op: clearing a default requires setting another.
func TestAddressUpdateDefaultFalseIgnored(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()
	addr := store.add(owner, true)

	updated, err := svc.Update(context.Background(), owner, addr.ID, map[string]any{"is_default": false, "city": "Kochi"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsDefault {
		t.Fatal("is_default=false must not clear the flag")
	}
	if updated.City != "Kochi" {
		t.Fatal("other fields should still apply")
	}
}

func TestAddressUpdateForeignOwnerIsNotFound(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()
	addr := store.add(owner, true)

	_, err := svc.Update(context.Background(), uuid.New(), addr.ID, map[string]any{"is_default": true})
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404 for foreign owner, got %v", err)
	}
	// The failed claim must not have disturbed the real owner's default.
	defaults := store.defaults(owner)
	if len(defaults) != 1 || defaults[0].ID != addr.ID {
		t.Fatal("foreign-owner attempt must leave the default untouched")
	}
}

func TestAddressUpdateCoordinatorFailure(t *testing.T) {
	store := newMemAddressStore()
	store.coordErr = errors.New("deadlock detected")
	svc := newTestAddressService(t, store)
	owner := uuid.New()
	addr := store.add(owner, false)

	_, err := svc.Update(context.Background(), owner, addr.ID, map[string]any{"is_default": true})
	if apierr.StatusOf(err) != 500 {
		t.Fatalf("expected 500, got %v", err)
	}
	if apierr.CodeOf(err) != apierr.CodeInvariantFailed {
		t.Fatalf("expected invariant failure code, got %q", apierr.CodeOf(err))
	}
}

func TestAddressDeleteNoPromotion(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()
	def := store.add(owner, true)
	store.add(owner, false)

	if err := svc.Delete(context.Background(), owner, def.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.defaults(owner)) != 0 {
		t.Fatal("deleting the default must not promote another row")
	}

	// Second delete of the same row resolves to not-found.
	err := svc.Delete(context.Background(), owner, def.ID)
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404 on repeat delete, got %v", err)
	}
}

func TestAddressConcurrentSetDefault(t *testing.T) {
	store := newMemAddressStore()
	svc := newTestAddressService(t, store)
	owner := uuid.New()

	addrs := make([]*types.Address, 8)
	for i := range addrs {
		addrs[i] = store.add(owner, false)
	}

	var wg sync.WaitGroup
	for _, a := range addrs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if _, err := svc.Update(context.Background(), owner, a.ID, map[string]any{"is_default": true}); err != nil {
					t.Errorf("set default: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := len(store.defaults(owner)); got != 1 {
		t.Fatalf("expected exactly one default after concurrent updates, got %d", got)
	}
}
