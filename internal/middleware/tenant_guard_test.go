package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/guard"
	"github.com/kingrain94/tenant-guard/internal/repository/memory"
	"github.com/kingrain94/tenant-guard/internal/utils"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

type admitterFunc func(ctx context.Context, req guard.Request) guard.Decision

func (f admitterFunc) Admit(ctx context.Context, req guard.Request) guard.Decision {
	return f(ctx, req)
}

type entrySink struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
}

func (s *entrySink) Log(entry *domain.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

type TenantGuardTestSuite struct {
	suite.Suite
	store *memory.TenantStore
	sink  *entrySink
	now   time.Time
}

func TestTenantGuard(t *testing.T) {
	suite.Run(t, new(TenantGuardTestSuite))
}

func (s *TenantGuardTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.store = memory.NewTenantStore()
	s.sink = &entrySink{}
	s.now = time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
}

func (s *TenantGuardTestSuite) pipeline() *guard.Pipeline {
	return guard.NewPipeline(s.store, s.sink, logger.NewNop(), guard.Options{
		SkipPrefixes:  []string{"/api/v1/auth", "/health"},
		Routes:        guard.DefaultRouteTable(),
		Location:      time.UTC,
		CounterMode:   guard.CounterAtomic,
		CountAPICalls: true,
		Clock:         func() time.Time { return s.now },
	})
}

func (s *TenantGuardTestSuite) seed(mutate func(t *domain.Tenant)) {
	t := domain.NewTenant("acme", "Acme", domain.PlanStarter)
	today := s.now.Add(-time.Minute)
	t.Usage.LastDailyResetAt = &today
	t.Usage.LastMonthlyResetAt = &today
	if mutate != nil {
		mutate(t)
	}
	_, err := s.store.Create(context.Background(), t)
	s.Require().NoError(err)
}

// serve runs path through the guard with principal already attached, the way JWTAuth leaves it.
func (s *TenantGuardTestSuite) serve(admitter Admitter, path string, principal *domain.Principal) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(string(utils.PrincipalKey), principal)
		}
		c.Next()
	})
	router.Use(NewTenantGuard(admitter).Handle())
	router.NoRoute(func(c *gin.Context) {
		tenant, _ := c.Get(string(utils.TenantKey))
		id := ""
		if t, ok := tenant.(*domain.Tenant); ok {
			id = t.ID
		}
		c.JSON(http.StatusOK, gin.H{"tenant": id})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func (s *TenantGuardTestSuite) decodeDeny(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func member() *domain.Principal {
	return &domain.Principal{TenantID: "acme", UserID: "u-1", Role: string(domain.RoleUser)}
}

func (s *TenantGuardTestSuite) TestAdmitSetsTenantAndHeader() {
	s.seed(nil)

	w := s.serve(s.pipeline(), "/api/v1/leads", member())

	s.Equal(http.StatusOK, w.Code)
	s.Equal("acme", w.Header().Get("X-Tenant-Id"))
	s.JSONEq(`{"tenant":"acme"}`, w.Body.String())
}

func (s *TenantGuardTestSuite) TestPassesRequestDetailsToAdmitter() {
	var got guard.Request
	admitter := admitterFunc(func(_ context.Context, req guard.Request) guard.Decision {
		got = req
		return guard.Decision{Allowed: true, Reason: guard.ReasonSkipped}
	})

	w := s.serve(admitter, "/api/v1/contacts/42", member())

	s.Equal(http.StatusOK, w.Code)
	s.Equal("/api/v1/contacts/42", got.Path)
	s.Equal(http.MethodGet, got.Method)
	s.Equal("acme", got.Principal.TenantID)
	s.Empty(w.Header().Get("X-Tenant-Id"))
}

func (s *TenantGuardTestSuite) TestSkipPathNeedsNoPrincipal() {
	w := s.serve(s.pipeline(), "/api/v1/auth/login", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Empty(s.sink.entries)
}

func (s *TenantGuardTestSuite) TestNoCompany() {
	w := s.serve(s.pipeline(), "/api/v1/leads", &domain.Principal{UserID: "u-1"})

	s.Equal(http.StatusUnauthorized, w.Code)
	body := s.decodeDeny(w)
	s.Equal(domain.CodeNoCompany, body["code"])
	s.NotContains(body, "key")
}

func (s *TenantGuardTestSuite) TestSuspendedTenantStillReachesAuth() {
	s.seed(func(t *domain.Tenant) { t.IsActive = false })
	p := s.pipeline()

	s.Equal(http.StatusOK, s.serve(p, "/api/v1/auth/logout", member()).Code)

	w := s.serve(p, "/api/v1/profile", member())
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(domain.CodeTenantSuspended, s.decodeDeny(w)["code"])
	s.Len(s.sink.entries, 1)
}

func (s *TenantGuardTestSuite) TestModuleDisabledBody() {
	s.seed(nil)

	w := s.serve(s.pipeline(), "/api/v1/automation/rules", member())

	s.Equal(http.StatusForbidden, w.Code)
	body := s.decodeDeny(w)
	s.Equal(domain.CodeModuleDisabled, body["code"])
	s.Contains(body["message"], "automation")
}

func (s *TenantGuardTestSuite) TestRateLimitBodyAndRetryAfter() {
	s.seed(func(t *domain.Tenant) {
		t.Limits[domain.LimitAPICallsPerDay] = 100
		t.PolicyRules.GracePercent = 10
		t.Usage.APICallsToday = 110
	})

	w := s.serve(s.pipeline(), "/api/v1/leads", member())

	s.Equal(http.StatusTooManyRequests, w.Code)
	// 18:30 UTC leaves five and a half hours in the day
	s.Equal("19800", w.Header().Get("Retry-After"))
	body := s.decodeDeny(w)
	s.Equal(domain.CodeRateLimit, body["code"])
	s.Equal("apiCallsPerDay", body["key"])
	s.Equal(float64(110), body["used"])
	s.Equal(float64(100), body["max"])
	s.Equal(float64(110), body["pct"])
	s.Equal(float64(10), body["grace"])
}

func (s *TenantGuardTestSuite) TestRetryAfterRoundsUp() {
	admitter := admitterFunc(func(context.Context, guard.Request) guard.Decision {
		return guard.Decision{
			Status:     http.StatusTooManyRequests,
			Code:       domain.CodeRateLimit,
			Message:    "Daily API call limit reached",
			RetryAfter: 1500 * time.Millisecond,
		}
	})

	w := s.serve(admitter, "/api/v1/leads", member())

	s.Equal("2", w.Header().Get("Retry-After"))
}

func (s *TenantGuardTestSuite) TestSuperAdminReachesDisabledModule() {
	s.seed(func(t *domain.Tenant) {
		t.IsActive = false
		t.Modules[domain.ModuleCRM] = false
	})
	super := &domain.Principal{TenantID: "acme", UserID: "root", IsSuperAdmin: true}

	w := s.serve(s.pipeline(), "/api/v1/leads", super)

	s.Equal(http.StatusOK, w.Code)
	s.Empty(s.sink.entries)
}

func (s *TenantGuardTestSuite) TestGuardErrorHidesCause() {
	admitter := admitterFunc(func(context.Context, guard.Request) guard.Decision {
		return guard.Decision{
			Status:  http.StatusInternalServerError,
			Code:    domain.CodeTenantGuardError,
			Message: "Unable to verify tenant access",
			Err:     errors.New("pq: password authentication failed"),
		}
	})

	w := s.serve(admitter, "/api/v1/leads", member())

	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "password")
	s.Equal(domain.CodeTenantGuardError, s.decodeDeny(w)["code"])
}

func (s *TenantGuardTestSuite) TestDenyResponseShape() {
	body, err := json.Marshal(dto.DenyResponse{Code: domain.CodeModuleDisabled, Message: "off"})
	s.Require().NoError(err)
	s.JSONEq(`{"code":"MODULE_DISABLED","message":"off"}`, string(body))
}

func (s *TenantGuardTestSuite) forward(uri string, principal *domain.Principal) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(string(utils.PrincipalKey), principal)
		c.Next()
	})
	router.GET("/guard/check", NewTenantGuard(s.pipeline()).ForwardAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guard/check", nil)
	if uri != "" {
		req.Header.Set("X-Forwarded-Uri", uri)
	}
	router.ServeHTTP(w, req)
	return w
}

func (s *TenantGuardTestSuite) TestForwardAuth() {
	s.seed(nil)

	w := s.forward("/api/v1/leads?page=2", member())
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("acme", w.Header().Get("X-Tenant-Id"))

	w = s.forward("/api/v1/automation", member())
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(domain.CodeModuleDisabled, s.decodeDeny(w)["code"])

	s.Equal(http.StatusBadRequest, s.forward("", member()).Code)
}

// forwardWithAuth serves the gateway check behind the real token parser.
func (s *TenantGuardTestSuite) forwardWithAuth(uri, token string) *httptest.ResponseRecorder {
	auth := newAuth()
	router := gin.New()
	router.GET("/guard/check", auth.OptionalJWTAuth(), NewTenantGuard(s.pipeline()).ForwardAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guard/check", nil)
	req.Header.Set("X-Forwarded-Uri", uri)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func (s *TenantGuardTestSuite) TestForwardAuthWithoutTokenReachesSkipList() {
	s.seed(func(t *domain.Tenant) {
		t.IsActive = false
	})

	w := s.forwardWithAuth("/api/v1/auth/login", "")
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(s.sink.entries)

	w = s.forwardWithAuth("/api/v1/leads", "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(domain.CodeNoCompany, s.decodeDeny(w)["code"])
}

func (s *TenantGuardTestSuite) TestForwardAuthWithTokenStillGuarded() {
	s.seed(func(t *domain.Tenant) {
		t.IsActive = false
	})
	token, err := newAuth().GenerateToken(*member())
	s.Require().NoError(err)

	// a suspended tenant can still log in
	s.Equal(http.StatusNoContent, s.forwardWithAuth("/api/v1/auth/login", token).Code)

	w := s.forwardWithAuth("/api/v1/leads", token)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(domain.CodeTenantSuspended, s.decodeDeny(w)["code"])

	s.Equal(http.StatusUnauthorized, s.forwardWithAuth("/api/v1/auth/login", "not-a-token").Code)
}
