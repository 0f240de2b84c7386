package guard

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

//go:generate mockery --name TenantStore --output ../mocks --outpkg mocks
type TenantStore interface {
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	Update(ctx context.Context, tenant *domain.Tenant) error
	ResetWindows(ctx context.Context, id string, reset domain.WindowReset) error
	IncrementUsage(ctx context.Context, id string, counter domain.UsageCounter, delta int64) error
}

//go:generate mockery --name SeatCounter --output ../mocks --outpkg mocks
type SeatCounter interface {
	CountActiveUsers(ctx context.Context, tenantID string) (int64, error)
}

// Bookkeeper persists window resets and the per-request API call count after
// a request has been admitted. It mutates tenant in memory to match.
type Bookkeeper interface {
	Commit(ctx context.Context, tenant *domain.Tenant, reset domain.WindowReset, countCall bool) error
}

// AtomicBookkeeper leaves the loaded record alone and issues a conditional
// window reset followed by a single-column increment, so concurrent requests
// for the same tenant never overwrite each other's counts.
type AtomicBookkeeper struct {
	store TenantStore
}

func NewAtomicBookkeeper(store TenantStore) *AtomicBookkeeper {
	return &AtomicBookkeeper{store: store}
}

func (b *AtomicBookkeeper) Commit(ctx context.Context, tenant *domain.Tenant, reset domain.WindowReset, countCall bool) error {
	if reset.Changed() {
		if err := b.store.ResetWindows(ctx, tenant.ID, reset); err != nil {
			return errors.Wrapf(err, "reset usage windows for tenant %s", tenant.ID)
		}
	}
	if !countCall {
		return nil
	}
	if err := b.store.IncrementUsage(ctx, tenant.ID, domain.CounterAPICallsToday, 1); err != nil {
		return errors.Wrapf(err, "increment api calls for tenant %s", tenant.ID)
	}
	tenant.Usage.Add(domain.CounterAPICallsToday, 1)
	return nil
}

// RecordBookkeeper writes the whole normalized record back. Two concurrent
// requests for one tenant can lose an increment unless the pipeline
// serializes them.
type RecordBookkeeper struct {
	store TenantStore
}

func NewRecordBookkeeper(store TenantStore) *RecordBookkeeper {
	return &RecordBookkeeper{store: store}
}

func (b *RecordBookkeeper) Commit(ctx context.Context, tenant *domain.Tenant, reset domain.WindowReset, countCall bool) error {
	if countCall {
		tenant.Usage.Add(domain.CounterAPICallsToday, 1)
	}
	if !countCall && !reset.Changed() {
		return nil
	}
	if err := b.store.Update(ctx, tenant); err != nil {
		return errors.Wrapf(err, "save tenant %s", tenant.ID)
	}
	return nil
}
