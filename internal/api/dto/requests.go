package dto

type CreateTenantRequest struct {
	// ID is optional; a UUID is generated when empty.
	ID   string `json:"id" example:"acme"`
	Name string `json:"name" binding:"required" example:"Acme Corp"`
	Plan string `json:"plan" example:"starter"`
}

// UpdateFeaturesRequest patches a tenant's configuration. Omitted fields are left untouched;
// modules and limits are merged key by key.
type UpdateFeaturesRequest struct {
	IsActive    *bool              `json:"is_active" example:"true"`
	Plan        *string            `json:"plan" example:"growth"`
	Modules     map[string]bool    `json:"modules"`
	Limits      map[string]float64 `json:"limits"`
	PolicyRules *PolicyRulesPatch  `json:"policy_rules"`
}

type PolicyRulesPatch struct {
	BlockIfSuspended     *bool `json:"block_if_suspended"`
	EnforceUserLimit     *bool `json:"enforce_user_limit"`
	EnforceDailyEmail    *bool `json:"enforce_daily_email"`
	EnforceLeadsMonthly  *bool `json:"enforce_leads_monthly"`
	EnforceAPICallsDaily *bool `json:"enforce_api_calls_daily"`
	StrictIntegrations   *bool `json:"strict_integrations"`
	GracePercent         *int  `json:"grace_percent" example:"10"`
}
