package utils

import (
	"context"
	"errors"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

type ContextKey string

const (
	ClaimsKey    ContextKey = "claims"
	PrincipalKey ContextKey = "principal"
	TenantKey    ContextKey = "tenant"
)

var (
	ErrNoPrincipalInContext = errors.New("no principal found in context")
	ErrNoTenantIDInClaims   = errors.New("no tenant_id found in claims")
)

func GetPrincipalFromContext(c context.Context) (*domain.Principal, error) {
	principal, ok := c.Value(PrincipalKey).(*domain.Principal)
	if !ok || principal == nil {
		return nil, ErrNoPrincipalInContext
	}
	return principal, nil
}

func GetTenantIDFromContext(c context.Context) (string, error) {
	principal, err := GetPrincipalFromContext(c)
	if err != nil {
		return "", err
	}
	if principal.TenantID == "" {
		return "", ErrNoTenantIDInClaims
	}
	return principal.TenantID, nil
}

// GetTenantFromContext returns the record the tenant guard admitted the request with.
func GetTenantFromContext(c context.Context) (*domain.Tenant, bool) {
	tenant, ok := c.Value(TenantKey).(*domain.Tenant)
	return tenant, ok && tenant != nil
}
