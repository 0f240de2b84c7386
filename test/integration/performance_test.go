package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/guard"
	"github.com/kingrain94/tenant-guard/internal/middleware"
	"github.com/kingrain94/tenant-guard/internal/repository/memory"
	"github.com/kingrain94/tenant-guard/internal/utils"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

type discardSink struct {
	count atomic.Int64
}

func (d *discardSink) Log(*domain.AuditEntry) {
	d.count.Add(1)
}

// guardedRouter puts the tenant guard in front of a CRM route, with the
// principal injected the way JWTAuth would.
func guardedRouter(t testing.TB, opts guard.Options, tenants ...*domain.Tenant) (*gin.Engine, *memory.TenantStore, *discardSink) {
	gin.SetMode(gin.TestMode)
	store := memory.NewTenantStore()
	for _, tenant := range tenants {
		_, err := store.Create(context.Background(), tenant)
		require.NoError(t, err)
	}

	sink := &discardSink{}
	opts.Routes = guard.DefaultRouteTable()
	opts.SkipPrefixes = []string{"/api/v1/auth", "/health"}
	pipeline := guard.NewPipeline(store, sink, logger.NewNop(), opts)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(string(utils.PrincipalKey), &domain.Principal{
			TenantID: c.GetHeader("X-Test-Tenant"),
			UserID:   "load-user",
			Role:     "user",
		})
		c.Next()
	})
	router.Use(middleware.NewTenantGuard(pipeline).Handle())
	router.GET("/api/v1/leads", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, store, sink
}

func unlimitedTenant(id string) *domain.Tenant {
	t := domain.NewTenant(id, id, domain.PlanGrowth)
	t.PolicyRules.EnforceAPICallsDaily = false
	return t
}

func BenchmarkGuardAdmit(b *testing.B) {
	router, _, _ := guardedRouter(b, guard.Options{
		Location:      time.UTC,
		CounterMode:   guard.CounterAtomic,
		CountAPICalls: true,
	}, unlimitedTenant("bench"))

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/api/v1/leads", nil)
			req.Header.Set("X-Test-Tenant", "bench")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				b.Errorf("Expected status 200, got %d", w.Code)
			}
		}
	})
}

func BenchmarkGuardDeny(b *testing.B) {
	suspended := unlimitedTenant("bench")
	suspended.IsActive = false
	router, _, _ := guardedRouter(b, guard.Options{Location: time.UTC}, suspended)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/api/v1/leads", nil)
			req.Header.Set("X-Test-Tenant", "bench")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusForbidden {
				b.Errorf("Expected status 403, got %d", w.Code)
			}
		}
	})
}

// TestHighConcurrencyAdmits runs many tenants' traffic through the guard at
// once and checks that every admitted call is counted exactly once.
func TestHighConcurrencyAdmits(t *testing.T) {
	tenants := []*domain.Tenant{unlimitedTenant("t-1"), unlimitedTenant("t-2"), unlimitedTenant("t-3")}
	router, store, sink := guardedRouter(t, guard.Options{
		Location:      time.UTC,
		CounterMode:   guard.CounterAtomic,
		CountAPICalls: true,
	}, tenants...)

	numGoroutines := 90
	requestsPerGoroutine := 20
	totalRequests := numGoroutines * requestsPerGoroutine

	var successCount atomic.Int32
	var errorCount atomic.Int32
	var totalLatency time.Duration
	var maxLatency time.Duration
	var mutex sync.Mutex

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(tenantID string) {
			defer wg.Done()
			for j := 0; j < requestsPerGoroutine; j++ {
				reqStart := time.Now()
				req, _ := http.NewRequest(http.MethodGet, "/api/v1/leads", nil)
				req.Header.Set("X-Test-Tenant", tenantID)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)
				reqLatency := time.Since(reqStart)

				mutex.Lock()
				totalLatency += reqLatency
				maxLatency = max(maxLatency, reqLatency)
				mutex.Unlock()

				if w.Code == http.StatusOK {
					successCount.Add(1)
				} else {
					errorCount.Add(1)
				}
			}
		}(tenants[i%len(tenants)].ID)
	}
	wg.Wait()
	totalTime := time.Since(startTime)

	avgLatency := totalLatency / time.Duration(totalRequests)
	throughput := float64(totalRequests) / totalTime.Seconds()

	t.Logf("=== High Concurrency Admission Results ===")
	t.Logf("Total requests: %d", totalRequests)
	t.Logf("Admitted: %d, denied: %d", successCount.Load(), errorCount.Load())
	t.Logf("Throughput: %.2f requests/second", throughput)
	t.Logf("Average latency: %v, max latency: %v", avgLatency, maxLatency)

	assert.Equal(t, int32(totalRequests), successCount.Load())
	assert.Equal(t, int64(0), sink.count.Load(), "admits are not audited by default")

	perTenant := int64(totalRequests / len(tenants))
	for _, tenant := range tenants {
		stored, err := store.GetByID(context.Background(), tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, perTenant, stored.Usage.APICallsToday, tenant.ID)
	}
}

// TestSerializedLimitIsExactUnderLoad checks that with per-tenant
// serialization the daily API limit admits exactly limit requests.
func TestSerializedLimitIsExactUnderLoad(t *testing.T) {
	tenant := domain.NewTenant("capped", "Capped", domain.PlanGrowth)
	tenant.Limits[domain.LimitAPICallsPerDay] = 100
	tenant.PolicyRules.EnforceAPICallsDaily = true
	tenant.PolicyRules.GracePercent = 0

	router, store, sink := guardedRouter(t, guard.Options{
		Location:         time.UTC,
		CounterMode:      guard.CounterRecord,
		SerializeTenants: true,
		CountAPICalls:    true,
	}, tenant)

	const total = 300
	var admitted, limited atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodGet, "/api/v1/leads", nil)
			req.Header.Set("X-Test-Tenant", "capped")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			switch w.Code {
			case http.StatusOK:
				admitted.Add(1)
			case http.StatusTooManyRequests:
				limited.Add(1)
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), admitted.Load())
	assert.Equal(t, int32(total-100), limited.Load())
	assert.Equal(t, int64(total-100), sink.count.Load(), "one audit entry per deny")

	stored, err := store.GetByID(context.Background(), "capped")
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.Usage.APICallsToday)
}
