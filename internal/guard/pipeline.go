package guard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/metrics"
	"github.com/kingrain94/tenant-guard/internal/syncutil"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

type CounterMode string

const (
	CounterAtomic CounterMode = "atomic"
	CounterRecord CounterMode = "record"
)

// Request is what the pipeline needs to know about an inbound call.
type Request struct {
	Path      string
	Method    string
	ClientIP  string
	UserAgent string
	Principal *domain.Principal
}

type Options struct {
	SkipPrefixes []string
	Routes       RouteTable
	Location     *time.Location
	CounterMode  CounterMode

	// SerializeTenants holds a per-tenant lock from load to persist.
	SerializeTenants bool

	// CountAPICalls counts every admitted call, not only for tenants enforcing the daily API limit.
	CountAPICalls bool

	AuditAdmits bool
	NotFoundTTL time.Duration
	Clock       func() time.Time
}

// Pipeline is the admission orchestrator. It is safe for concurrent use.
type Pipeline struct {
	store      TenantStore
	seats      SeatCounter
	audit      AuditSink
	logger     *logger.Logger
	skip       SkipList
	modules    ModuleGate
	quota      QuotaEnforcer
	window     *WindowManager
	bookkeeper Bookkeeper
	locks      *syncutil.ShardedMutex
	notFound   *cache.Cache
	opts       Options
	now        func() time.Time
}

func NewPipeline(store TenantStore, audit AuditSink, logger *logger.Logger, opts Options) *Pipeline {
	p := &Pipeline{
		store:   store,
		audit:   audit,
		logger:  logger,
		skip:    NewSkipList(opts.SkipPrefixes),
		modules: NewModuleGate(opts.Routes),
		window:  NewWindowManager(opts.Location),
		opts:    opts,
		now:     opts.Clock,
	}
	if p.now == nil {
		p.now = time.Now
	}
	if opts.CounterMode == CounterRecord {
		p.bookkeeper = NewRecordBookkeeper(store)
	} else {
		p.bookkeeper = NewAtomicBookkeeper(store)
	}
	if opts.SerializeTenants {
		p.locks = &syncutil.ShardedMutex{}
	}
	if opts.NotFoundTTL > 0 {
		p.notFound = cache.New(opts.NotFoundTTL, 2*opts.NotFoundTTL)
	}
	return p
}

// SetSeatCounter switches seat usage from the stored usersUsed field to a live count.
func (p *Pipeline) SetSeatCounter(seats SeatCounter) {
	p.seats = seats
}

// ForgetTenant drops a cached not-found result, e.g. right after provisioning.
func (p *Pipeline) ForgetTenant(id string) {
	if p.notFound != nil {
		p.notFound.Delete(id)
	}
}

func (p *Pipeline) Window() *WindowManager {
	return p.window
}

// Admit evaluates req. Exactly one audit entry is emitted for every denial.
func (p *Pipeline) Admit(ctx context.Context, req Request) (dec Decision) {
	start := time.Now()
	tenantID := ""
	defer func() {
		if r := recover(); r != nil {
			dec = p.fail(req, tenantID, errors.Newf("panic in admission pipeline: %v", r))
		}
		metrics.ObserveAdmission(dec.Allowed, dec.Code, time.Since(start))
	}()

	if p.skip.Match(req.Path) {
		return admit(ReasonSkipped, nil)
	}
	if req.Principal != nil && req.Principal.IsSuperAdmin {
		return admit(ReasonSuperAdmin, nil)
	}

	if req.Principal != nil {
		tenantID = strings.TrimSpace(req.Principal.TenantID)
	}
	if tenantID == "" {
		return p.reject(req, "", noCompany())
	}
	if p.notFound != nil {
		if _, cached := p.notFound.Get(tenantID); cached {
			return p.reject(req, tenantID, companyNotFound())
		}
	}

	if p.locks != nil {
		unlock := p.locks.Lock(tenantID)
		defer unlock()
	}

	tenant, err := p.store.GetByID(ctx, tenantID)
	if errors.Is(err, domain.ErrTenantNotFound) {
		if p.notFound != nil {
			p.notFound.SetDefault(tenantID, struct{}{})
		}
		return p.reject(req, tenantID, companyNotFound())
	}
	if err != nil {
		return p.fail(req, tenantID, errors.Wrapf(err, "load tenant %s", tenantID))
	}

	now := p.now()
	tenant.Normalize()
	reset := p.window.Normalize(tenant, now)

	if d := CheckSuspension(tenant); d != nil {
		return p.rejectTenant(req, tenant, d)
	}

	module, d := p.modules.Check(tenant, req.Path)
	if d != nil {
		return p.rejectTenant(req, tenant, d)
	}

	seats := tenant.UsersUsed
	if p.seats != nil && p.quota.NeedsSeats(tenant) {
		seats, err = p.seats.CountActiveUsers(ctx, tenantID)
		if err != nil {
			return p.fail(req, tenantID, errors.Wrapf(err, "count seats for tenant %s", tenantID))
		}
	}
	if d := p.quota.Check(tenant, seats); d != nil {
		if d.Code == domain.CodeRateLimit {
			d.RetryAfter = p.window.UntilDailyReset(now)
		}
		return p.rejectTenant(req, tenant, d)
	}

	countCall := p.opts.CountAPICalls || tenant.PolicyRules.EnforceAPICallsDaily
	if err := p.bookkeeper.Commit(ctx, tenant, reset, countCall); err != nil {
		// fail open: the decision stands even if counters could not be saved
		metrics.BookkeepingFailure(metrics.OpPersist)
		p.logger.Error("Failed to persist tenant usage after admission", err,
			zap.String("tenant_id", tenantID),
			zap.String("path", req.Path))
	}

	if p.opts.AuditAdmits {
		entry := p.newEntry(req, tenantID, domain.ActionTenantAdmit, domain.CodeAdmitted,
			"Request admitted", domain.SeverityInfo)
		if module != "" {
			entry.Metadata["module"] = string(module)
		}
		p.audit.Log(entry)
	}

	return admit(ReasonAdmitted, tenant)
}

func (p *Pipeline) rejectTenant(req Request, tenant *domain.Tenant, d *Decision) Decision {
	d.Tenant = tenant
	return p.reject(req, tenant.ID, d)
}

func (p *Pipeline) reject(req Request, tenantID string, d *Decision) Decision {
	entry := p.newEntry(req, tenantID, domain.ActionTenantBlock, d.Code, d.Message, d.Severity)
	if d.Module != "" {
		entry.Metadata["module"] = string(d.Module)
	}
	if l := d.Limit; l != nil {
		entry.Metadata["key"] = string(l.Key)
		entry.Metadata["used"] = l.Used
		entry.Metadata["max"] = l.Max
		entry.Metadata["pct"] = l.Pct
		entry.Metadata["grace"] = l.Grace
	}
	p.audit.Log(entry)
	return *d
}

func (p *Pipeline) fail(req Request, tenantID string, err error) Decision {
	p.logger.Error("Tenant guard failed", err,
		zap.String("tenant_id", tenantID),
		zap.String("path", req.Path),
		zap.String("method", req.Method))

	d := guardError()
	entry := p.newEntry(req, tenantID, domain.ActionTenantError, d.Code, d.Message, d.Severity)
	entry.Metadata["error"] = fmt.Sprintf("%v", err)
	p.audit.Log(entry)

	out := *d
	out.Err = err
	return out
}

func (p *Pipeline) newEntry(req Request, tenantID string, action domain.AuditAction, code, message string, severity domain.Severity) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		ActorID:   req.Principal.ActorID(),
		ActorRole: req.Principal.ActorRole(),
		Action:    action,
		Code:      code,
		Message:   message,
		Severity:  severity,
		Metadata: map[string]interface{}{
			"route":      req.Path,
			"method":     req.Method,
			"ip":         req.ClientIP,
			"user_agent": req.UserAgent,
		},
		CreatedAt: p.now().UTC(),
	}
}
