package dto

import (
	"github.com/kingrain94/tenant-guard/internal/domain"
)

// FromTenant converts a Tenant domain model to a TenantResponse DTO
func FromTenant(t *domain.Tenant) *TenantResponse {
	resp := &TenantResponse{
		ID:          t.ID,
		Name:        t.Name,
		Plan:        string(t.Plan),
		IsActive:    t.IsActive,
		Modules:     make(map[string]bool, len(t.Modules)),
		Limits:      make(map[string]float64, len(t.Limits)),
		Usage:       FromUsage(t.Usage),
		PolicyRules: FromPolicyRules(t.PolicyRules),
		UsersUsed:   t.UsersUsed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for m, on := range t.Modules {
		resp.Modules[string(m)] = on
	}
	for k, v := range t.Limits {
		resp.Limits[string(k)] = v
	}
	return resp
}

func FromTenants(tenants []domain.Tenant) []TenantResponse {
	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = *FromTenant(&tenants[i])
	}
	return responses
}

func FromUsage(u domain.Usage) UsageCounters {
	return UsageCounters{
		EmailsToday:           u.EmailsToday,
		APICallsToday:         u.APICallsToday,
		LeadsThisMonth:        u.LeadsThisMonth,
		AICreditsThisMonth:    u.AICreditsThisMonth,
		WhatsappMsgsThisMonth: u.WhatsappMsgsThisMonth,
		LastDailyResetAt:      u.LastDailyResetAt,
		LastMonthlyResetAt:    u.LastMonthlyResetAt,
	}
}

func FromPolicyRules(p domain.PolicyRules) PolicyRules {
	return PolicyRules{
		BlockIfSuspended:     p.BlockIfSuspended,
		EnforceUserLimit:     p.EnforceUserLimit,
		EnforceDailyEmail:    p.EnforceDailyEmail,
		EnforceLeadsMonthly:  p.EnforceLeadsMonthly,
		EnforceAPICallsDaily: p.EnforceAPICallsDaily,
		StrictIntegrations:   p.StrictIntegrations,
		GracePercent:         p.GracePercent,
	}
}

// Apply merges the patch into rules.
func (p *PolicyRulesPatch) Apply(rules *domain.PolicyRules) {
	if p == nil {
		return
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&rules.BlockIfSuspended, p.BlockIfSuspended)
	set(&rules.EnforceUserLimit, p.EnforceUserLimit)
	set(&rules.EnforceDailyEmail, p.EnforceDailyEmail)
	set(&rules.EnforceLeadsMonthly, p.EnforceLeadsMonthly)
	set(&rules.EnforceAPICallsDaily, p.EnforceAPICallsDaily)
	set(&rules.StrictIntegrations, p.StrictIntegrations)
	if p.GracePercent != nil {
		rules.GracePercent = *p.GracePercent
	}
}

// FromAuditEntry converts an AuditEntry domain model to an AuditEntryResponse DTO
func FromAuditEntry(entry *domain.AuditEntry) *AuditEntryResponse {
	return &AuditEntryResponse{
		ID:        entry.ID,
		TenantID:  entry.TenantID,
		ActorID:   entry.ActorID,
		ActorRole: entry.ActorRole,
		Action:    string(entry.Action),
		Code:      entry.Code,
		Message:   entry.Message,
		Severity:  string(entry.Severity),
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}

func FromAuditEntries(entries []domain.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *FromAuditEntry(&entries[i])
	}
	return responses
}

func FromAuditEntryStats(stats *domain.AuditEntryStats) *AuditStatsResponse {
	resp := &AuditStatsResponse{
		TotalEntries:   stats.TotalEntries,
		CodeCounts:     make(map[string]int64, len(stats.CodeCounts)),
		ActionCounts:   make(map[string]int64, len(stats.ActionCounts)),
		SeverityCounts: make(map[string]int64, len(stats.SeverityCounts)),
	}
	for k, v := range stats.CodeCounts {
		resp.CodeCounts[k] = v
	}
	for k, v := range stats.ActionCounts {
		resp.ActionCounts[string(k)] = v
	}
	for k, v := range stats.SeverityCounts {
		resp.SeverityCounts[string(k)] = v
	}
	return resp
}
