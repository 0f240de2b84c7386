package domain

import (
	"time"

	"github.com/samber/lo"
)

const (
	MinGracePercent = 0
	MaxGracePercent = 50
)

// Tenant is the per-company record the admission pipeline reads and updates.
type Tenant struct {
	ID          string      `gorm:"primaryKey;type:text" json:"id"`
	Name        string      `gorm:"type:text;not null" json:"name"`
	Plan        Plan        `gorm:"type:text;not null" json:"plan"`
	IsActive    bool        `gorm:"not null" json:"is_active"`
	Modules     ModuleSet   `gorm:"type:jsonb;serializer:json;not null" json:"modules"`
	Limits      Limits      `gorm:"type:jsonb;serializer:json;not null" json:"limits"`
	Usage       Usage       `gorm:"embedded" json:"usage"`
	PolicyRules PolicyRules `gorm:"type:jsonb;serializer:json;not null" json:"policy_rules"`
	UsersUsed   int64       `gorm:"not null" json:"users_used"`
	CreatedAt   time.Time   `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// Usage holds the rolling counters. Daily counters share LastDailyResetAt,
// monthly counters share LastMonthlyResetAt.
type Usage struct {
	EmailsToday           int64      `gorm:"column:usage_emails_today;not null" json:"emails_today"`
	APICallsToday         int64      `gorm:"column:usage_api_calls_today;not null" json:"api_calls_today"`
	LeadsThisMonth        int64      `gorm:"column:usage_leads_this_month;not null" json:"leads_this_month"`
	AICreditsThisMonth    int64      `gorm:"column:usage_ai_credits_this_month;not null" json:"ai_credits_this_month"`
	WhatsappMsgsThisMonth int64      `gorm:"column:usage_whatsapp_msgs_this_month;not null" json:"whatsapp_msgs_this_month"`
	LastDailyResetAt      *time.Time `gorm:"column:usage_last_daily_reset_at;type:timestamp with time zone" json:"last_daily_reset_at"`
	LastMonthlyResetAt    *time.Time `gorm:"column:usage_last_monthly_reset_at;type:timestamp with time zone" json:"last_monthly_reset_at"`
}

// UsageCounter names a single counter column for atomic increments.
type UsageCounter string

const (
	CounterEmailsToday           UsageCounter = "usage_emails_today"
	CounterAPICallsToday         UsageCounter = "usage_api_calls_today"
	CounterLeadsThisMonth        UsageCounter = "usage_leads_this_month"
	CounterAICreditsThisMonth    UsageCounter = "usage_ai_credits_this_month"
	CounterWhatsappMsgsThisMonth UsageCounter = "usage_whatsapp_msgs_this_month"
)

var ValidUsageCounters = []UsageCounter{
	CounterEmailsToday,
	CounterAPICallsToday,
	CounterLeadsThisMonth,
	CounterAICreditsThisMonth,
	CounterWhatsappMsgsThisMonth,
}

func IsValidUsageCounter(c UsageCounter) bool {
	return lo.Contains(ValidUsageCounters, c)
}

// Add applies delta to the named counter in memory, never going below zero.
func (u *Usage) Add(c UsageCounter, delta int64) {
	var p *int64
	switch c {
	case CounterEmailsToday:
		p = &u.EmailsToday
	case CounterAPICallsToday:
		p = &u.APICallsToday
	case CounterLeadsThisMonth:
		p = &u.LeadsThisMonth
	case CounterAICreditsThisMonth:
		p = &u.AICreditsThisMonth
	case CounterWhatsappMsgsThisMonth:
		p = &u.WhatsappMsgsThisMonth
	default:
		return
	}
	*p = max(*p+delta, 0)
}

// ResetDaily zeroes the daily counters and stamps the reset time.
func (u *Usage) ResetDaily(at time.Time) {
	u.EmailsToday = 0
	u.APICallsToday = 0
	u.LastDailyResetAt = &at
}

// ResetMonthly zeroes the monthly counters and stamps the reset time.
func (u *Usage) ResetMonthly(at time.Time) {
	u.LeadsThisMonth = 0
	u.AICreditsThisMonth = 0
	u.WhatsappMsgsThisMonth = 0
	u.LastMonthlyResetAt = &at
}

// PolicyRules toggles which checks apply to a tenant.
type PolicyRules struct {
	BlockIfSuspended     bool `json:"block_if_suspended"`
	EnforceUserLimit     bool `json:"enforce_user_limit"`
	EnforceDailyEmail    bool `json:"enforce_daily_email"`
	EnforceLeadsMonthly  bool `json:"enforce_leads_monthly"`
	EnforceAPICallsDaily bool `json:"enforce_api_calls_daily"`
	StrictIntegrations   bool `json:"strict_integrations"`
	GracePercent         int  `json:"grace_percent"`
}

// Grace returns GracePercent clamped to [0, 50].
func (p PolicyRules) Grace() int {
	return lo.Clamp(p.GracePercent, MinGracePercent, MaxGracePercent)
}

func DefaultPolicyRules() PolicyRules {
	return PolicyRules{
		BlockIfSuspended:     true,
		EnforceAPICallsDaily: true,
		GracePercent:         10,
	}
}

// NewTenant provisions a record with the plan's modules and limits.
func NewTenant(id, name string, plan Plan) *Tenant {
	if !ValidPlan(plan) {
		plan = PlanFree
	}
	cfg := Plans[plan]
	return &Tenant{
		ID:          id,
		Name:        name,
		Plan:        plan,
		IsActive:    true,
		Modules:     cfg.Modules.Clone(),
		Limits:      cfg.Limits.Clone(),
		PolicyRules: DefaultPolicyRules(),
	}
}

// Normalize restores the record invariants: no nil maps, no negative
// counters or limits, grace within bounds, every known module present.
func (t *Tenant) Normalize() {
	if t.Modules == nil {
		t.Modules = ModuleSet{}
	}
	for _, m := range ValidModules {
		if _, ok := t.Modules[m]; !ok {
			t.Modules[m] = false
		}
	}
	if t.Limits == nil {
		t.Limits = Limits{}
	}
	for k, v := range t.Limits {
		if v < 0 {
			t.Limits[k] = 0
		}
	}
	t.PolicyRules.GracePercent = t.PolicyRules.Grace()
	t.UsersUsed = max(t.UsersUsed, 0)
	t.Usage.EmailsToday = max(t.Usage.EmailsToday, 0)
	t.Usage.APICallsToday = max(t.Usage.APICallsToday, 0)
	t.Usage.LeadsThisMonth = max(t.Usage.LeadsThisMonth, 0)
	t.Usage.AICreditsThisMonth = max(t.Usage.AICreditsThisMonth, 0)
	t.Usage.WhatsappMsgsThisMonth = max(t.Usage.WhatsappMsgsThisMonth, 0)
}

// Clone returns a deep copy.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Modules = t.Modules.Clone()
	cp.Limits = t.Limits.Clone()
	if t.Usage.LastDailyResetAt != nil {
		v := *t.Usage.LastDailyResetAt
		cp.Usage.LastDailyResetAt = &v
	}
	if t.Usage.LastMonthlyResetAt != nil {
		v := *t.Usage.LastMonthlyResetAt
		cp.Usage.LastMonthlyResetAt = &v
	}
	return &cp
}

// WindowReset describes which usage windows rolled over during normalization.
// DayStart and MonthStart are the local boundaries used for conditional persistence.
type WindowReset struct {
	Daily      bool
	Monthly    bool
	At         time.Time
	DayStart   time.Time
	MonthStart time.Time
}

func (r WindowReset) Changed() bool {
	return r.Daily || r.Monthly
}

// UsageScope selects which windows an administrative reset clears.
type UsageScope string

const (
	UsageScopeDaily   UsageScope = "daily"
	UsageScopeMonthly UsageScope = "monthly"
	UsageScopeAll     UsageScope = "all"
)

func (s UsageScope) Valid() bool {
	return s == UsageScopeDaily || s == UsageScopeMonthly || s == UsageScopeAll
}

func (s UsageScope) Daily() bool {
	return s == UsageScopeDaily || s == UsageScopeAll
}

func (s UsageScope) Monthly() bool {
	return s == UsageScopeMonthly || s == UsageScopeAll
}
