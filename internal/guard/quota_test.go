package guard

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

func quotaTenant() *domain.Tenant {
	t := domain.NewTenant("acme", "Acme", domain.PlanStarter)
	t.Limits = domain.Limits{}
	t.PolicyRules = domain.PolicyRules{GracePercent: 10}
	return t
}

func TestPercent(t *testing.T) {
	tests := []struct {
		used    int64
		ceiling float64
		want    int64
	}{
		{109, 100, 109},
		{110, 100, 110},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},   // 12.5 rounds half away from zero
		{0, 50, 0},
		{45, 40.5, 111},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.used, tt.ceiling), "%d/%v", tt.used, tt.ceiling)
	}
}

func TestExceeded(t *testing.T) {
	assert.False(t, Exceeded(109, 10))
	assert.True(t, Exceeded(110, 10))
	assert.True(t, Exceeded(100, 0))
	assert.False(t, Exceeded(99, 0))
}

func TestQuota_APICallsGraceMath(t *testing.T) {
	tenant := quotaTenant()
	tenant.Limits[domain.LimitAPICallsPerDay] = 100
	tenant.PolicyRules.EnforceAPICallsDaily = true

	tenant.Usage.APICallsToday = 109
	assert.Nil(t, QuotaEnforcer{}.Check(tenant, 0))

	tenant.Usage.APICallsToday = 110
	d := QuotaEnforcer{}.Check(tenant, 0)
	require.NotNil(t, d)
	assert.Equal(t, http.StatusTooManyRequests, d.Status)
	assert.Equal(t, domain.CodeRateLimit, d.Code)
	require.NotNil(t, d.Limit)
	assert.Equal(t, LimitDetail{Key: domain.LimitAPICallsPerDay, Used: 110, Max: 100, Pct: 110, Grace: 10}, *d.Limit)
}

func TestQuota_ZeroMaxIsUnenforced(t *testing.T) {
	tenant := quotaTenant()
	tenant.PolicyRules = domain.PolicyRules{
		EnforceUserLimit:     true,
		EnforceDailyEmail:    true,
		EnforceLeadsMonthly:  true,
		EnforceAPICallsDaily: true,
	}
	tenant.Limits[domain.LimitEmailsPerDay] = 0
	tenant.Usage.EmailsToday = 1_000_000
	tenant.Usage.LeadsThisMonth = 1_000_000
	tenant.Usage.APICallsToday = 1_000_000

	assert.Nil(t, QuotaEnforcer{}.Check(tenant, 1_000_000))
	assert.False(t, QuotaEnforcer{}.NeedsSeats(tenant))
}

func TestQuota_UnenforcedPolicySkipsLimit(t *testing.T) {
	tenant := quotaTenant()
	tenant.Limits[domain.LimitEmailsPerDay] = 10
	tenant.Usage.EmailsToday = 500

	assert.Nil(t, QuotaEnforcer{}.Check(tenant, 0))
}

func TestQuota_CheckOrder(t *testing.T) {
	tenant := quotaTenant()
	tenant.PolicyRules = domain.PolicyRules{
		EnforceUserLimit:     true,
		EnforceDailyEmail:    true,
		EnforceLeadsMonthly:  true,
		EnforceAPICallsDaily: true,
	}
	tenant.Limits = domain.Limits{
		domain.LimitUsersMax:       5,
		domain.LimitEmailsPerDay:   10,
		domain.LimitLeadsPerMonth:  10,
		domain.LimitAPICallsPerDay: 10,
	}
	tenant.Usage.EmailsToday = 10
	tenant.Usage.LeadsThisMonth = 10
	tenant.Usage.APICallsToday = 10

	d := QuotaEnforcer{}.Check(tenant, 5)
	require.NotNil(t, d)
	assert.Equal(t, domain.LimitUsersMax, d.Limit.Key)
	assert.Equal(t, http.StatusForbidden, d.Status)
	assert.Equal(t, domain.CodeLimitExceeded, d.Code)

	d = QuotaEnforcer{}.Check(tenant, 4)
	require.NotNil(t, d)
	assert.Equal(t, domain.LimitEmailsPerDay, d.Limit.Key)

	tenant.Usage.EmailsToday = 0
	d = QuotaEnforcer{}.Check(tenant, 4)
	require.NotNil(t, d)
	assert.Equal(t, domain.LimitLeadsPerMonth, d.Limit.Key)

	tenant.Usage.LeadsThisMonth = 0
	d = QuotaEnforcer{}.Check(tenant, 4)
	require.NotNil(t, d)
	assert.Equal(t, domain.LimitAPICallsPerDay, d.Limit.Key)
	assert.Equal(t, domain.CodeRateLimit, d.Code)
}

func TestQuota_GraceIsClamped(t *testing.T) {
	tenant := quotaTenant()
	tenant.PolicyRules.EnforceDailyEmail = true
	tenant.PolicyRules.GracePercent = 500
	tenant.Limits[domain.LimitEmailsPerDay] = 100

	tenant.Usage.EmailsToday = 149
	assert.Nil(t, QuotaEnforcer{}.Check(tenant, 0))

	tenant.Usage.EmailsToday = 150
	d := QuotaEnforcer{}.Check(tenant, 0)
	require.NotNil(t, d)
	assert.Equal(t, domain.MaxGracePercent, d.Limit.Grace)

	tenant.PolicyRules.GracePercent = -20
	tenant.Usage.EmailsToday = 100
	d = QuotaEnforcer{}.Check(tenant, 0)
	require.NotNil(t, d)
	assert.Equal(t, 0, d.Limit.Grace)
}

func TestQuota_Report(t *testing.T) {
	tenant := quotaTenant()
	tenant.PolicyRules.EnforceDailyEmail = true
	tenant.Limits[domain.LimitEmailsPerDay] = 100
	tenant.Limits[domain.LimitLeadsPerMonth] = 50
	tenant.Usage.EmailsToday = 120
	tenant.Usage.LeadsThisMonth = 10

	report := QuotaEnforcer{}.Report(tenant, 3)
	require.Len(t, report, len(domain.ValidLimitKeys))

	byKey := map[domain.LimitKey]LimitStatus{}
	for _, row := range report {
		byKey[row.Key] = row
	}
	assert.Equal(t, LimitStatus{Key: domain.LimitEmailsPerDay, Used: 120, Max: 100, Pct: 120, Enforced: true, Exceeded: true}, byKey[domain.LimitEmailsPerDay])
	assert.Equal(t, LimitStatus{Key: domain.LimitLeadsPerMonth, Used: 10, Max: 50, Pct: 20}, byKey[domain.LimitLeadsPerMonth])
	assert.Equal(t, LimitStatus{Key: domain.LimitUsersMax, Used: 3}, byKey[domain.LimitUsersMax])
}
