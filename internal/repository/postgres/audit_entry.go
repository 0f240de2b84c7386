package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

type AuditEntryRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewAuditEntryRepository(writerDB, readerDB *gorm.DB) *AuditEntryRepository {
	return &AuditEntryRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

func (r *AuditEntryRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.ActorRole == "" {
		entry.ActorRole = domain.UnknownActorRole
	}

	return r.writerDB.WithContext(ctx).Create(entry).Error
}

func (r *AuditEntryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.AuditEntry, error) {
	var entry domain.AuditEntry

	db := r.readerDB.WithContext(ctx)
	if tenantID != "" {
		db = db.Where("tenant_id = ?", tenantID)
	}
	if err := db.First(&entry, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrAuditEntryNotFound)
	}
	return &entry, nil
}

// List returns one page of matching entries, newest first, plus the total match count.
func (r *AuditEntryRepository) List(ctx context.Context, filter domain.AuditEntryFilter) ([]domain.AuditEntry, int64, error) {
	var (
		entries []domain.AuditEntry
		total   int64
	)

	db := applyAuditFilter(r.readerDB.WithContext(ctx).Model(&domain.AuditEntry{}), filter)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}

	if err := db.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, total, nil
}

// ListBefore pages through entries older than before, oldest first. Used by the archiver.
func (r *AuditEntryRepository) ListBefore(ctx context.Context, tenantID string, before time.Time, limit, offset int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry

	db := r.readerDB.WithContext(ctx).Where("created_at < ?", before)
	if tenantID != "" {
		db = db.Where("tenant_id = ?", tenantID)
	}
	err := db.Order("created_at ASC").Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries before %s: %w", before.Format(time.RFC3339), err)
	}
	return entries, nil
}

func (r *AuditEntryRepository) DeleteBeforeDate(ctx context.Context, tenantID string, before time.Time) (int64, error) {
	db := r.writerDB.WithContext(ctx).Where("created_at < ?", before)
	if tenantID != "" {
		db = db.Where("tenant_id = ?", tenantID)
	}

	result := db.Delete(&domain.AuditEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *AuditEntryRepository) GetStats(ctx context.Context, filter domain.AuditEntryFilter) (*domain.AuditEntryStats, error) {
	stats := &domain.AuditEntryStats{
		CodeCounts:     make(map[string]int64),
		ActionCounts:   make(map[domain.AuditAction]int64),
		SeverityCounts: make(map[domain.Severity]int64),
	}

	type countResult struct {
		Key   string
		Count int64
	}

	for _, column := range []string{"code", "action", "severity"} {
		var results []countResult
		db := applyAuditFilter(r.readerDB.WithContext(ctx).Model(&domain.AuditEntry{}), filter)
		err := db.Select(column + " AS key, COUNT(*) AS count").
			Group(column).
			Scan(&results).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count audit entries by %s: %w", column, err)
		}

		for _, res := range results {
			switch column {
			case "code":
				stats.CodeCounts[res.Key] = res.Count
			case "action":
				stats.ActionCounts[domain.AuditAction(res.Key)] = res.Count
				stats.TotalEntries += res.Count
			case "severity":
				stats.SeverityCounts[domain.Severity(res.Key)] = res.Count
			}
		}
	}

	return stats, nil
}
