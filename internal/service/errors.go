package service

import (
	"github.com/cockroachdb/errors"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

// IsValidationError reports whether err was caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.IsAny(err,
		domain.ErrInvalidModule,
		domain.ErrInvalidLimit,
		domain.ErrInvalidPlan,
		domain.ErrInvalidScope,
		domain.ErrInvalidCounter,
	)
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.IsAny(err, domain.ErrTenantNotFound, domain.ErrAuditEntryNotFound)
}
