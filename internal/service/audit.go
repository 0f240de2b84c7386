package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/metrics"
	"github.com/kingrain94/tenant-guard/internal/repository"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

const (
	DefaultPageSize  = 20
	MaxPageSize      = 200
	MaxExportEntries = 10000
)

//go:generate mockery --name SQSService --output ../mocks
type SQSService interface {
	SendIndexMessage(ctx context.Context, entry *domain.AuditEntry) error
	SendArchiveMessage(ctx context.Context, tenantID string, beforeDate time.Time) error
	SendCleanupMessage(ctx context.Context, tenantID string, beforeDate time.Time) error
}

//go:generate mockery --name EventPublisher --output ../mocks
type EventPublisher interface {
	Publish(ctx context.Context, entry *dto.AuditEntryResponse) error
}

// AuditService stores audit entries and answers audit queries. Postgres is the
// system of record; OpenSearch serves free-text search.
type AuditService struct {
	repo      repository.Repository
	sqsSvc    SQSService
	publisher EventPublisher
	logger    *logger.Logger
}

func NewAuditService(repo repository.Repository, sqsSvc SQSService, logger *logger.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		sqsSvc: sqsSvc,
		logger: logger,
	}
}

// SetPublisher enables live fan-out of recorded entries.
func (s *AuditService) SetPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// Record persists one entry. Only the insert is required to succeed; indexing
// and live publishing are logged and counted when they fail.
func (s *AuditService) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.ActorRole == "" {
		entry.ActorRole = domain.UnknownActorRole
	}

	if err := s.repo.AuditEntry().Create(ctx, entry); err != nil {
		return errors.Wrapf(err, "store audit entry %s", entry.ID)
	}

	if s.sqsSvc != nil {
		if err := s.sqsSvc.SendIndexMessage(ctx, entry); err != nil {
			metrics.BookkeepingFailure(metrics.OpIndex)
			s.logger.Warn("Failed to enqueue audit entry for indexing",
				zap.String("entry_id", entry.ID), zap.Error(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, dto.FromAuditEntry(entry)); err != nil {
			metrics.BookkeepingFailure(metrics.OpPublish)
			s.logger.Warn("Failed to publish audit entry",
				zap.String("entry_id", entry.ID), zap.Error(err))
		}
	}

	return nil
}

// GetByID loads one entry. tenantID scopes the lookup unless empty.
func (s *AuditService) GetByID(ctx context.Context, tenantID, id string) (*dto.AuditEntryResponse, error) {
	entry, err := s.repo.AuditEntry().GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return dto.FromAuditEntry(entry), nil
}

// List returns one page of entries. A free-text query is answered by
// OpenSearch, falling back to Postgres if the search cluster errors.
func (s *AuditService) List(ctx context.Context, filter *domain.AuditEntryFilter) (*dto.ListAuditEntriesResponse, error) {
	paginate(filter)

	var (
		entries []domain.AuditEntry
		total   int64
		err     error
	)
	if filter.Query != "" {
		entries, total, err = s.repo.OpenSearch().Search(ctx, filter)
		if err != nil {
			s.logger.Warn("OpenSearch query failed, falling back to Postgres", zap.Error(err))
		}
	}
	if filter.Query == "" || err != nil {
		entries, total, err = s.repo.AuditEntry().List(ctx, *filter)
		if err != nil {
			return nil, errors.Wrap(err, "list audit entries")
		}
	}

	return &dto.ListAuditEntriesResponse{
		Entries:  dto.FromAuditEntries(entries),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Export returns up to MaxExportEntries entries matching the filter, newest first.
func (s *AuditService) Export(ctx context.Context, filter *domain.AuditEntryFilter) ([]dto.AuditEntryResponse, error) {
	f := *filter
	f.Page, f.PageSize = 1, MaxExportEntries
	f.Limit, f.Offset = MaxExportEntries, 0

	entries, _, err := s.repo.AuditEntry().List(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "export audit entries")
	}
	return dto.FromAuditEntries(entries), nil
}

func (s *AuditService) GetStats(ctx context.Context, filter *domain.AuditEntryFilter) (*dto.AuditStatsResponse, error) {
	stats, err := s.repo.AuditEntry().GetStats(ctx, *filter)
	if err != nil {
		return nil, errors.Wrap(err, "get audit entry stats")
	}
	return dto.FromAuditEntryStats(stats), nil
}

// ScheduleArchive queues archival of entries older than beforeDate. The archive
// worker enqueues the cleanup once the entries are safely in S3.
func (s *AuditService) ScheduleArchive(ctx context.Context, tenantID string, beforeDate time.Time) error {
	if s.sqsSvc == nil {
		return errors.New("archive queue is not configured")
	}
	return s.sqsSvc.SendArchiveMessage(ctx, tenantID, beforeDate)
}

func paginate(filter *domain.AuditEntryFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	filter.Limit = filter.PageSize
	filter.Offset = (filter.Page - 1) * filter.PageSize
}
