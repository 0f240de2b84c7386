package dto

import (
	"time"
)

type TenantResponse struct {
	ID          string             `json:"id" example:"acme"`
	Name        string             `json:"name" example:"Acme Corp"`
	Plan        string             `json:"plan" example:"starter"`
	IsActive    bool               `json:"is_active" example:"true"`
	Modules     map[string]bool    `json:"modules"`
	Limits      map[string]float64 `json:"limits"`
	Usage       UsageCounters      `json:"usage"`
	PolicyRules PolicyRules        `json:"policy_rules"`
	UsersUsed   int64              `json:"users_used" example:"4"`
	CreatedAt   time.Time          `json:"created_at" example:"2025-07-17T21:20:48Z"`
	UpdatedAt   time.Time          `json:"updated_at" example:"2025-07-17T21:20:48Z"`
}

type UsageCounters struct {
	EmailsToday           int64      `json:"emails_today" example:"12"`
	APICallsToday         int64      `json:"api_calls_today" example:"340"`
	LeadsThisMonth        int64      `json:"leads_this_month" example:"57"`
	AICreditsThisMonth    int64      `json:"ai_credits_this_month" example:"0"`
	WhatsappMsgsThisMonth int64      `json:"whatsapp_msgs_this_month" example:"0"`
	LastDailyResetAt      *time.Time `json:"last_daily_reset_at,omitempty"`
	LastMonthlyResetAt    *time.Time `json:"last_monthly_reset_at,omitempty"`
}

type PolicyRules struct {
	BlockIfSuspended     bool `json:"block_if_suspended"`
	EnforceUserLimit     bool `json:"enforce_user_limit"`
	EnforceDailyEmail    bool `json:"enforce_daily_email"`
	EnforceLeadsMonthly  bool `json:"enforce_leads_monthly"`
	EnforceAPICallsDaily bool `json:"enforce_api_calls_daily"`
	StrictIntegrations   bool `json:"strict_integrations"`
	GracePercent         int  `json:"grace_percent" example:"10"`
}

// UsageResponse is a tenant's view of its own consumption.
type UsageResponse struct {
	TenantID string        `json:"tenant_id" example:"acme"`
	Plan     string        `json:"plan" example:"starter"`
	Timezone string        `json:"timezone" example:"UTC"`
	Grace    int           `json:"grace" example:"10"`
	Usage    UsageCounters `json:"usage"`
	Limits   []LimitUsage  `json:"limits"`
}

type LimitUsage struct {
	Key      string  `json:"key" example:"emailsPerDay"`
	Used     int64   `json:"used" example:"12"`
	Max      float64 `json:"max" example:"100"`
	Pct      int64   `json:"pct" example:"12"`
	Enforced bool    `json:"enforced" example:"true"`
	Exceeded bool    `json:"exceeded" example:"false"`
}

type AuditEntryResponse struct {
	ID        string         `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID  string         `json:"tenant_id" example:"acme"`
	ActorID   string         `json:"actor_id" example:"user-42"`
	ActorRole string         `json:"actor_role" example:"admin"`
	Action    string         `json:"action" example:"TENANT_BLOCK"`
	Code      string         `json:"code" example:"MODULE_DISABLED"`
	Message   string         `json:"message" example:"Module reports is not enabled for this company"`
	Severity  string         `json:"severity" example:"warn"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at" example:"2025-07-17T21:20:48Z"`
}

type ListAuditEntriesResponse struct {
	Entries  []AuditEntryResponse `json:"entries"`
	Total    int64                `json:"total" example:"120"`
	Page     int                  `json:"page" example:"1"`
	PageSize int                  `json:"page_size" example:"20"`
}

type AuditStatsResponse struct {
	TotalEntries   int64            `json:"total_entries" example:"100"`
	CodeCounts     map[string]int64 `json:"code_counts"`
	ActionCounts   map[string]int64 `json:"action_counts"`
	SeverityCounts map[string]int64 `json:"severity_counts"`
}

type CleanupResponse struct {
	Message    string    `json:"message" example:"Archive and cleanup scheduled"`
	TenantID   string    `json:"tenant_id,omitempty" example:"acme"`
	BeforeDate time.Time `json:"before_date" example:"2025-01-01T00:00:00Z"`
}
