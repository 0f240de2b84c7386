package composite

import (
	opensearchclient "github.com/opensearch-project/opensearch-go/v2"

	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/repository"
	"github.com/kingrain94/tenant-guard/internal/repository/opensearch"
	"github.com/kingrain94/tenant-guard/internal/repository/postgres"
)

type compositeRepository struct {
	postgresRepo repository.PostgresRepository
	osRepo       repository.OpenSearchRepository
}

// NewCompositeRepository keeps Postgres as the source of truth and OpenSearch
// as the free-text search index over audit entries.
func NewCompositeRepository(dbConnections *config.DatabaseConnections, osClient *opensearchclient.Client, osConfig *config.OpenSearchConfig) repository.Repository {
	return &compositeRepository{
		postgresRepo: postgres.NewPostgresRepository(dbConnections),
		osRepo:       opensearch.NewRepository(osClient, osConfig),
	}
}

func (r *compositeRepository) AuditEntry() repository.AuditEntryRepository {
	return r.postgresRepo.AuditEntry()
}

func (r *compositeRepository) Tenant() repository.TenantRepository {
	return r.postgresRepo.Tenant()
}

func (r *compositeRepository) User() repository.UserRepository {
	return r.postgresRepo.User()
}

func (r *compositeRepository) OpenSearch() repository.OpenSearchRepository {
	return r.osRepo
}
