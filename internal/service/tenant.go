package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/guard"
	"github.com/kingrain94/tenant-guard/internal/repository"
)

//go:generate mockery --name TenantCache --output ../mocks
type TenantCache interface {
	ForgetTenant(id string)
}

// TenantService is the superadmin configuration surface over tenant records.
// Every change is audited.
type TenantService struct {
	repo      repository.Repository
	audit     guard.AuditSink
	cache     TenantCache
	window    *guard.WindowManager
	quota     guard.QuotaEnforcer
	liveSeats bool
	now       func() time.Time
}

func NewTenantService(repo repository.Repository, audit guard.AuditSink, window *guard.WindowManager) *TenantService {
	return &TenantService{
		repo:   repo,
		audit:  audit,
		window: window,
		now:    time.Now,
	}
}

// SetCache lets provisioning invalidate the guard's negative lookups.
func (s *TenantService) SetCache(cache TenantCache) {
	s.cache = cache
}

// UseLiveSeats makes usage reports count active users instead of the stored seat field.
func (s *TenantService) UseLiveSeats(on bool) {
	s.liveSeats = on
}

func (s *TenantService) Provision(ctx context.Context, actor *domain.Principal, req dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	plan := domain.Plan(strings.TrimSpace(req.Plan))
	if plan == "" {
		plan = domain.PlanFree
	}
	if !domain.ValidPlan(plan) {
		return nil, errors.Wrapf(domain.ErrInvalidPlan, "%q", req.Plan)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	created, err := s.repo.Tenant().Create(ctx, domain.NewTenant(id, strings.TrimSpace(req.Name), plan))
	if err != nil {
		return nil, errors.Wrapf(err, "create tenant %s", id)
	}
	if s.cache != nil {
		s.cache.ForgetTenant(id)
	}

	s.record(actor, id, domain.ActionSuperTenantCreate, "Tenant provisioned", map[string]interface{}{
		"after": snapshot(created),
	})
	return dto.FromTenant(created), nil
}

func (s *TenantService) Get(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := s.repo.Tenant().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromTenant(tenant), nil
}

func (s *TenantService) List(ctx context.Context) ([]dto.TenantResponse, error) {
	tenants, err := s.repo.Tenant().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list tenants")
	}
	return dto.FromTenants(tenants), nil
}

// UpdateFeatures applies a configuration patch. A plan change first resets
// modules and limits to the plan's catalogue; explicit keys are merged on top.
func (s *TenantService) UpdateFeatures(ctx context.Context, actor *domain.Principal, id string, req dto.UpdateFeaturesRequest) (*dto.TenantResponse, error) {
	if err := validateFeatures(req); err != nil {
		return nil, err
	}

	tenant, err := s.repo.Tenant().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := snapshot(tenant)

	if req.Plan != nil && domain.Plan(*req.Plan) != tenant.Plan {
		cfg := domain.Plans[domain.Plan(*req.Plan)]
		tenant.Plan = domain.Plan(*req.Plan)
		tenant.Modules = cfg.Modules.Clone()
		tenant.Limits = cfg.Limits.Clone()
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}
	for m, on := range req.Modules {
		tenant.Modules[domain.Module(m)] = on
	}
	for k, v := range req.Limits {
		tenant.Limits[domain.LimitKey(k)] = v
	}
	req.PolicyRules.Apply(&tenant.PolicyRules)
	tenant.UpdatedAt = s.now().UTC()

	// Normalize clamps the grace percentage. Counters are not written here;
	// the guard may have moved them since the read.
	if err := s.repo.Tenant().UpdateConfig(ctx, tenant); err != nil {
		return nil, errors.Wrapf(err, "update tenant %s", id)
	}

	s.record(actor, id, domain.ActionSuperFeaturesUpdate, "Tenant features updated", map[string]interface{}{
		"before": before,
		"after":  snapshot(tenant),
	})
	return dto.FromTenant(tenant), nil
}

// ResetUsage zeroes the counters in scope regardless of the current window.
func (s *TenantService) ResetUsage(ctx context.Context, actor *domain.Principal, id string, scope domain.UsageScope) (*dto.TenantResponse, error) {
	if scope == "" {
		scope = domain.UsageScopeAll
	}
	if !scope.Valid() {
		return nil, errors.Wrapf(domain.ErrInvalidScope, "%q", scope)
	}

	if err := s.repo.Tenant().ResetUsage(ctx, id, scope, s.now().UTC()); err != nil {
		return nil, errors.Wrapf(err, "reset usage for tenant %s", id)
	}

	s.record(actor, id, domain.ActionSuperUsageReset, "Tenant usage reset", map[string]interface{}{
		"scope": string(scope),
	})
	return s.Get(ctx, id)
}

func (s *TenantService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	if err := s.repo.Tenant().Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "delete tenant %s", id)
	}
	s.record(actor, id, domain.ActionSuperTenantDelete, "Tenant deleted", nil)
	return nil
}

// Usage reports the tenant's counters as the guard would see them right now,
// with windows that have rolled over shown as reset.
func (s *TenantService) Usage(ctx context.Context, tenantID string) (*dto.UsageResponse, error) {
	tenant, err := s.repo.Tenant().GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.window.Normalize(tenant, s.now())

	seats := tenant.UsersUsed
	if s.liveSeats {
		seats, err = s.repo.User().CountActiveUsers(ctx, tenantID)
		if err != nil {
			return nil, errors.Wrapf(err, "count seats for tenant %s", tenantID)
		}
	}

	report := s.quota.Report(tenant, seats)
	limits := make([]dto.LimitUsage, len(report))
	for i, row := range report {
		limits[i] = dto.LimitUsage{
			Key:      string(row.Key),
			Used:     row.Used,
			Max:      row.Max,
			Pct:      row.Pct,
			Enforced: row.Enforced,
			Exceeded: row.Exceeded,
		}
	}

	return &dto.UsageResponse{
		TenantID: tenant.ID,
		Plan:     string(tenant.Plan),
		Timezone: s.window.Location().String(),
		Grace:    tenant.PolicyRules.Grace(),
		Usage:    dto.FromUsage(tenant.Usage),
		Limits:   limits,
	}, nil
}

func (s *TenantService) record(actor *domain.Principal, tenantID string, action domain.AuditAction, message string, metadata map[string]interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Log(&domain.AuditEntry{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		ActorID:   actor.ActorID(),
		ActorRole: actor.ActorRole(),
		Action:    action,
		Message:   message,
		Metadata:  metadata,
		Severity:  domain.SeverityInfo,
		CreatedAt: s.now().UTC(),
	})
}

func validateFeatures(req dto.UpdateFeaturesRequest) error {
	if req.Plan != nil && !domain.ValidPlan(domain.Plan(*req.Plan)) {
		return errors.Wrapf(domain.ErrInvalidPlan, "%q", *req.Plan)
	}
	for m := range req.Modules {
		if !domain.IsValidModule(m) {
			return errors.Wrapf(domain.ErrInvalidModule, "%q", m)
		}
	}
	for k, v := range req.Limits {
		if !domain.IsValidLimitKey(k) {
			return errors.Wrapf(domain.ErrInvalidLimit, "unknown key %q", k)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(domain.ErrInvalidLimit, "%s must be a finite number >= 0", k)
		}
	}
	return nil
}

func snapshot(t *domain.Tenant) map[string]interface{} {
	return map[string]interface{}{
		"plan":         string(t.Plan),
		"is_active":    t.IsActive,
		"modules":      t.Modules.Clone(),
		"limits":       t.Limits.Clone(),
		"policy_rules": t.PolicyRules,
	}
}
