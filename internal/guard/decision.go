// Package guard decides, per request, whether a tenant may proceed.
//
// The pipeline runs skip-list, superadmin bypass, tenant resolution, usage
// window normalization, then the suspension, module and quota gates. The first
// gate to fail produces a Decision with a stable code and HTTP status.
package guard

import (
	"net/http"
	"time"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

// AdmitReason says why a request was let through.
type AdmitReason string

const (
	ReasonSkipped    AdmitReason = "skip_list"
	ReasonSuperAdmin AdmitReason = "superadmin"
	ReasonAdmitted   AdmitReason = "admitted"
)

// LimitDetail accompanies LIMIT_EXCEEDED and RATE_LIMIT denials.
type LimitDetail struct {
	Key   domain.LimitKey `json:"key"`
	Used  int64           `json:"used"`
	Max   float64         `json:"max"`
	Pct   int64           `json:"pct"`
	Grace int             `json:"grace"`
}

// Decision is the outcome of one admission evaluation.
type Decision struct {
	Allowed  bool
	Reason   AdmitReason
	Status   int
	Code     string
	Message  string
	Severity domain.Severity
	Module   domain.Module
	Limit    *LimitDetail
	Tenant   *domain.Tenant

	// RetryAfter is set on RATE_LIMIT denials to the time left in the daily window.
	RetryAfter time.Duration

	// Err is the internal cause of a TENANT_GUARD_ERROR. Never sent to clients.
	Err error
}

func admit(reason AdmitReason, tenant *domain.Tenant) Decision {
	return Decision{Allowed: true, Reason: reason, Status: http.StatusOK, Tenant: tenant}
}

func deny(status int, code, message string, severity domain.Severity) *Decision {
	return &Decision{
		Status:   status,
		Code:     code,
		Message:  message,
		Severity: severity,
	}
}

func noCompany() *Decision {
	return deny(http.StatusUnauthorized, domain.CodeNoCompany, "No company is associated with this account", domain.SeverityWarn)
}

func companyNotFound() *Decision {
	return deny(http.StatusUnauthorized, domain.CodeCompanyNotFound, "Company not found", domain.SeverityWarn)
}

func guardError() *Decision {
	return deny(http.StatusInternalServerError, domain.CodeTenantGuardError, "Unable to verify tenant access", domain.SeverityHigh)
}
