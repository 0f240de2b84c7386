package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

// applyAuditFilter narrows db to the entries matching filter, without pagination.
func applyAuditFilter(db *gorm.DB, filter domain.AuditEntryFilter) *gorm.DB {
	if filter.TenantID != "" {
		db = db.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.ActorID != "" {
		db = db.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Code != "" {
		db = db.Where("code = ?", filter.Code)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.Severity != "" {
		db = db.Where("severity = ?", filter.Severity)
	}
	if filter.Query != "" {
		db = db.Where("message ILIKE ?", "%"+escapeLike(filter.Query)+"%")
	}
	if !filter.StartTime.IsZero() {
		db = db.Where("created_at >= ?", filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		db = db.Where("created_at <= ?", filter.EndTime)
	}
	return db
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
