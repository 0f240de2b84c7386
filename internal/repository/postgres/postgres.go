package postgres

import (
	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/repository"
)

type postgresRepository struct {
	auditEntryRepo repository.AuditEntryRepository
	tenantRepo     repository.TenantRepository
	userRepo       repository.UserRepository
}

func NewPostgresRepository(dbConnections *config.DatabaseConnections) repository.PostgresRepository {
	return &postgresRepository{
		auditEntryRepo: NewAuditEntryRepository(dbConnections.Writer, dbConnections.Reader),
		tenantRepo:     NewTenantRepository(dbConnections.Writer),
		userRepo:       NewUserRepository(dbConnections.Reader),
	}
}

func (r *postgresRepository) AuditEntry() repository.AuditEntryRepository {
	return r.auditEntryRepo
}

func (r *postgresRepository) Tenant() repository.TenantRepository {
	return r.tenantRepo
}

func (r *postgresRepository) User() repository.UserRepository {
	return r.userRepo
}
