package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookkeepingFailure(t *testing.T) {
	before := testutil.ToFloat64(BookkeepingFailuresTotal.WithLabelValues(OpPersist))
	BookkeepingFailure(OpPersist)
	assert.Equal(t, before+1, testutil.ToFloat64(BookkeepingFailuresTotal.WithLabelValues(OpPersist)))
}

func TestObserveAdmission(t *testing.T) {
	before := testutil.ToFloat64(AdmissionDecisionsTotal.WithLabelValues("deny", "RATE_LIMIT"))
	ObserveAdmission(false, "RATE_LIMIT", time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(AdmissionDecisionsTotal.WithLabelValues("deny", "RATE_LIMIT")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "4xx"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "4xx")))
}

func TestStatusBucket(t *testing.T) {
	assert.Equal(t, "2xx", statusBucket(204))
	assert.Equal(t, "4xx", statusBucket(429))
	assert.Equal(t, "5xx", statusBucket(500))
}
