package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
	SeverityHigh Severity = "high"
)

var ValidSeverities = []Severity{SeverityInfo, SeverityWarn, SeverityHigh}

type AuditAction string

const (
	ActionTenantBlock         AuditAction = "TENANT_BLOCK"
	ActionTenantAdmit         AuditAction = "TENANT_ADMIT"
	ActionTenantError         AuditAction = "TENANT_ERROR"
	ActionSuperTenantCreate   AuditAction = "SUPER_TENANT_CREATE"
	ActionSuperFeaturesUpdate AuditAction = "SUPER_FEATURES_UPDATE"
	ActionSuperUsageReset     AuditAction = "SUPER_USAGE_RESET"
	ActionSuperTenantDelete   AuditAction = "SUPER_TENANT_DELETE"
)

var ValidAuditActions = []AuditAction{
	ActionTenantBlock,
	ActionTenantAdmit,
	ActionTenantError,
	ActionSuperTenantCreate,
	ActionSuperFeaturesUpdate,
	ActionSuperUsageReset,
	ActionSuperTenantDelete,
}

// Admission codes returned to clients and recorded on audit entries.
const (
	CodeNoCompany        = "NO_COMPANY"
	CodeCompanyNotFound  = "COMPANY_NOT_FOUND"
	CodeTenantSuspended  = "TENANT_SUSPENDED"
	CodeModuleDisabled   = "MODULE_DISABLED"
	CodeLimitExceeded    = "LIMIT_EXCEEDED"
	CodeRateLimit        = "RATE_LIMIT"
	CodeTenantGuardError = "TENANT_GUARD_ERROR"
	CodeAdmitted         = "ADMITTED"
)

const UnknownActorRole = "unknown"

// AuditEntry is an append-only record of an admission decision or an admin change.
type AuditEntry struct {
	ID        string            `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID  string            `gorm:"type:text;index" json:"tenant_id"`
	ActorID   string            `gorm:"type:text" json:"actor_id"`
	ActorRole string            `gorm:"type:text;not null" json:"actor_role"`
	Action    AuditAction       `gorm:"type:text;not null" json:"action"`
	Code      string            `gorm:"type:text" json:"code"`
	Message   string            `gorm:"type:text" json:"message"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	Severity  Severity          `gorm:"type:text;not null" json:"severity"`
	CreatedAt time.Time         `gorm:"type:timestamp with time zone;not null" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}

type AuditEntryFilter struct {
	TenantID  string    `json:"tenant_id"`
	ActorID   string    `json:"actor_id"`
	Code      string    `json:"code"`
	Action    string    `json:"action"`
	Severity  string    `json:"severity"`
	Query     string    `json:"q"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
}

type AuditEntryStats struct {
	TotalEntries   int64                 `json:"total_entries"`
	CodeCounts     map[string]int64      `json:"code_counts"`
	ActionCounts   map[AuditAction]int64 `json:"action_counts"`
	SeverityCounts map[Severity]int64    `json:"severity_counts"`
}
