// Package memory holds an in-process tenant store for tests, benchmarks and local demos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/repository"
)

// TenantStore keeps tenants in a map. Reads return deep copies so callers
// can mutate them freely, which reproduces the lost-update behaviour of a
// whole-record save under concurrency.
type TenantStore struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

func NewTenantStore() *TenantStore {
	return &TenantStore{tenants: make(map[string]*domain.Tenant)}
}

func (m *TenantStore) Create(_ context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tenants[t.ID]; exists {
		return nil, domain.ErrTenantExists
	}
	now := time.Now().UTC()
	t.Normalize()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	m.tenants[t.ID] = t.Clone()
	return t, nil
}

func (m *TenantStore) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	return t.Clone(), nil
}

func (m *TenantStore) Update(_ context.Context, t *domain.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tenants[t.ID]; !ok {
		return domain.ErrTenantNotFound
	}
	t.Normalize()
	t.UpdatedAt = time.Now().UTC()
	m.tenants[t.ID] = t.Clone()
	return nil
}

func (m *TenantStore) UpdateConfig(_ context.Context, t *domain.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tenants[t.ID]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.Normalize()
	next := t.Clone()
	stored.Plan = next.Plan
	stored.IsActive = next.IsActive
	stored.Modules = next.Modules
	stored.Limits = next.Limits
	stored.PolicyRules = next.PolicyRules
	stored.UpdatedAt = t.UpdatedAt
	return nil
}

func (m *TenantStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tenants[id]; !ok {
		return domain.ErrTenantNotFound
	}
	delete(m.tenants, id)
	return nil
}

func (m *TenantStore) List(_ context.Context) ([]domain.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		out = append(out, *t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *TenantStore) ResetWindows(_ context.Context, id string, reset domain.WindowReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[id]
	if !ok {
		return domain.ErrTenantNotFound
	}
	if reset.Daily && (t.Usage.LastDailyResetAt == nil || t.Usage.LastDailyResetAt.Before(reset.DayStart)) {
		t.Usage.ResetDaily(reset.At)
	}
	if reset.Monthly && (t.Usage.LastMonthlyResetAt == nil || t.Usage.LastMonthlyResetAt.Before(reset.MonthStart)) {
		t.Usage.ResetMonthly(reset.At)
	}
	return nil
}

func (m *TenantStore) IncrementUsage(_ context.Context, id string, counter domain.UsageCounter, delta int64) error {
	if !domain.IsValidUsageCounter(counter) {
		return domain.ErrInvalidCounter
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[id]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.Usage.Add(counter, delta)
	return nil
}

func (m *TenantStore) ResetUsage(_ context.Context, id string, scope domain.UsageScope, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[id]
	if !ok {
		return domain.ErrTenantNotFound
	}
	if scope.Daily() {
		t.Usage.ResetDaily(at)
	}
	if scope.Monthly() {
		t.Usage.ResetMonthly(at)
	}
	return nil
}

var _ repository.TenantRepository = (*TenantStore)(nil)
