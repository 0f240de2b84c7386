package guard

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Percent is round(used/ceiling*100), half away from zero. ceiling must be positive.
func Percent(used int64, ceiling float64) int64 {
	return decimal.NewFromInt(used).
		Div(decimal.NewFromFloat(ceiling)).
		Mul(hundred).
		Round(0).
		IntPart()
}

// Exceeded reports whether pct is at or past the grace ceiling.
func Exceeded(pct int64, grace int) bool {
	return pct >= int64(100+grace)
}

type quotaCheck struct {
	key      domain.LimitKey
	enforced func(domain.PolicyRules) bool
	used     func(t *domain.Tenant, seats int64) int64
	status   int
	code     string
	message  string
}

// quotaChecks run in this order; the first violation wins.
var quotaChecks = []quotaCheck{
	{
		key:      domain.LimitUsersMax,
		enforced: func(p domain.PolicyRules) bool { return p.EnforceUserLimit },
		used:     func(_ *domain.Tenant, seats int64) int64 { return seats },
		status:   http.StatusForbidden,
		code:     domain.CodeLimitExceeded,
		message:  "User limit reached for your plan",
	},
	{
		key:      domain.LimitEmailsPerDay,
		enforced: func(p domain.PolicyRules) bool { return p.EnforceDailyEmail },
		used:     func(t *domain.Tenant, _ int64) int64 { return t.Usage.EmailsToday },
		status:   http.StatusForbidden,
		code:     domain.CodeLimitExceeded,
		message:  "Daily email limit reached",
	},
	{
		key:      domain.LimitLeadsPerMonth,
		enforced: func(p domain.PolicyRules) bool { return p.EnforceLeadsMonthly },
		used:     func(t *domain.Tenant, _ int64) int64 { return t.Usage.LeadsThisMonth },
		status:   http.StatusForbidden,
		code:     domain.CodeLimitExceeded,
		message:  "Monthly lead limit reached",
	},
	{
		key:      domain.LimitAPICallsPerDay,
		enforced: func(p domain.PolicyRules) bool { return p.EnforceAPICallsDaily },
		used:     func(t *domain.Tenant, _ int64) int64 { return t.Usage.APICallsToday },
		status:   http.StatusTooManyRequests,
		code:     domain.CodeRateLimit,
		message:  "Daily API call limit reached",
	},
}

// QuotaEnforcer evaluates the enforced limits against current usage.
type QuotaEnforcer struct{}

// NeedsSeats reports whether Check will look at the seat count.
func (QuotaEnforcer) NeedsSeats(t *domain.Tenant) bool {
	return t.PolicyRules.EnforceUserLimit && t.Limits.Get(domain.LimitUsersMax) > 0
}

// Check returns the first violated limit, or nil. A zero max is never enforced.
func (QuotaEnforcer) Check(t *domain.Tenant, seats int64) *Decision {
	grace := t.PolicyRules.Grace()
	for _, qc := range quotaChecks {
		if !qc.enforced(t.PolicyRules) {
			continue
		}
		ceiling := t.Limits.Get(qc.key)
		if ceiling <= 0 {
			continue
		}
		used := qc.used(t, seats)
		pct := Percent(used, ceiling)
		if !Exceeded(pct, grace) {
			continue
		}
		d := deny(qc.status, qc.code, fmt.Sprintf("%s (%d%% of %g)", qc.message, pct, ceiling), domain.SeverityWarn)
		d.Limit = &LimitDetail{Key: qc.key, Used: used, Max: ceiling, Pct: pct, Grace: grace}
		return d
	}
	return nil
}

// LimitStatus is one row of a tenant's usage report.
type LimitStatus struct {
	Key      domain.LimitKey `json:"key"`
	Used     int64           `json:"used"`
	Max      float64         `json:"max"`
	Pct      int64           `json:"pct"`
	Enforced bool            `json:"enforced"`
	Exceeded bool            `json:"exceeded"`
}

// Report lists every configured limit with its current usage. Limits without
// a tracked counter (storage) report zero usage.
func (QuotaEnforcer) Report(t *domain.Tenant, seats int64) []LimitStatus {
	grace := t.PolicyRules.Grace()
	used := map[domain.LimitKey]int64{
		domain.LimitUsersMax:             seats,
		domain.LimitLeadsPerMonth:        t.Usage.LeadsThisMonth,
		domain.LimitEmailsPerDay:         t.Usage.EmailsToday,
		domain.LimitAICreditsPerMonth:    t.Usage.AICreditsThisMonth,
		domain.LimitWhatsappMsgsPerMonth: t.Usage.WhatsappMsgsThisMonth,
		domain.LimitAPICallsPerDay:       t.Usage.APICallsToday,
	}
	enforced := map[domain.LimitKey]bool{}
	for _, qc := range quotaChecks {
		enforced[qc.key] = qc.enforced(t.PolicyRules)
	}

	report := make([]LimitStatus, 0, len(domain.ValidLimitKeys))
	for _, key := range domain.ValidLimitKeys {
		ceiling := t.Limits.Get(key)
		row := LimitStatus{Key: key, Used: used[key], Max: ceiling, Enforced: enforced[key] && ceiling > 0}
		if ceiling > 0 {
			row.Pct = Percent(row.Used, ceiling)
			row.Exceeded = Exceeded(row.Pct, grace)
		}
		report = append(report, row)
	}
	return report
}
