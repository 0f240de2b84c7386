package repository

import (
	"context"
	"time"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

//go:generate mockery --name AuditEntryRepository --output ../mocks
type AuditEntryRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	// GetByID scopes the lookup to tenantID unless it is empty.
	GetByID(ctx context.Context, tenantID, id string) (*domain.AuditEntry, error)
	List(ctx context.Context, filter domain.AuditEntryFilter) ([]domain.AuditEntry, int64, error)
	ListBefore(ctx context.Context, tenantID string, before time.Time, limit, offset int) ([]domain.AuditEntry, error)
	DeleteBeforeDate(ctx context.Context, tenantID string, before time.Time) (int64, error)
	GetStats(ctx context.Context, filter domain.AuditEntryFilter) (*domain.AuditEntryStats, error)
}

//go:generate mockery --name OpenSearchRepository --output ../mocks
type OpenSearchRepository interface {
	Index(ctx context.Context, entry *domain.AuditEntry) error
	BulkIndex(ctx context.Context, entries []domain.AuditEntry) error
	Search(ctx context.Context, filter *domain.AuditEntryFilter) ([]domain.AuditEntry, int64, error)
	CreateIndex(ctx context.Context, t time.Time) error
	DeleteBefore(ctx context.Context, tenantID string, before time.Time) (int64, error)
}

//go:generate mockery --name TenantRepository --output ../mocks
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	Update(ctx context.Context, tenant *domain.Tenant) error
	// UpdateConfig writes plan, status, modules, limits and policy rules,
	// leaving the usage counters to the atomic writers.
	UpdateConfig(ctx context.Context, tenant *domain.Tenant) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Tenant, error)

	// ResetWindows applies a rollover only if no other writer already did.
	ResetWindows(ctx context.Context, id string, reset domain.WindowReset) error
	// IncrementUsage adds delta to one counter in a single statement, floored at zero.
	IncrementUsage(ctx context.Context, id string, counter domain.UsageCounter, delta int64) error
	// ResetUsage unconditionally zeroes the counters in scope.
	ResetUsage(ctx context.Context, id string, scope domain.UsageScope, at time.Time) error
}

//go:generate mockery --name UserRepository --output ../mocks
type UserRepository interface {
	CountActiveUsers(ctx context.Context, tenantID string) (int64, error)
}

//go:generate mockery --name PostgresRepository --output ../mocks
type PostgresRepository interface {
	AuditEntry() AuditEntryRepository
	Tenant() TenantRepository
	User() UserRepository
}

//go:generate mockery --name Repository --output ../mocks
type Repository interface {
	PostgresRepository
	OpenSearch() OpenSearchRepository
}
