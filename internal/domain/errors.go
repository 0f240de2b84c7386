package domain

import "errors"

var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrTenantExists       = errors.New("tenant already exists")
	ErrAuditEntryNotFound = errors.New("audit entry not found")
	ErrInvalidModule      = errors.New("unknown module")
	ErrInvalidLimit       = errors.New("invalid limit")
	ErrInvalidCounter     = errors.New("unknown usage counter")
	ErrInvalidPlan        = errors.New("unknown plan")
	ErrInvalidScope       = errors.New("invalid usage scope")
)
