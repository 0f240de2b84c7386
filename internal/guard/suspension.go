package guard

import (
	"net/http"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

// CheckSuspension denies inactive tenants whose policy asks for it.
func CheckSuspension(t *domain.Tenant) *Decision {
	if t.PolicyRules.BlockIfSuspended && !t.IsActive {
		return deny(http.StatusForbidden, domain.CodeTenantSuspended,
			"Your company account is suspended. Please contact support.", domain.SeverityHigh)
	}
	return nil
}
