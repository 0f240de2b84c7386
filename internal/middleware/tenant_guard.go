package middleware

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/guard"
	"github.com/kingrain94/tenant-guard/internal/utils"
)

//go:generate mockery --name Admitter --output ../mocks
type Admitter interface {
	Admit(ctx context.Context, req guard.Request) guard.Decision
}

// TenantGuard runs the admission pipeline in front of tenant-scoped routes.
type TenantGuard struct {
	admitter Admitter
}

func NewTenantGuard(admitter Admitter) *TenantGuard {
	return &TenantGuard{admitter: admitter}
}

func (m *TenantGuard) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		dec, ok := m.admit(c, c.Request.URL.Path)
		if !ok {
			return
		}

		if dec.Tenant != nil {
			c.Set(string(utils.TenantKey), dec.Tenant)
			c.Header("X-Tenant-Id", dec.Tenant.ID)
		}
		c.Next()
	}
}

// ForwardAuth answers a gateway's subrequest for the path in X-Forwarded-Uri
// (or X-Original-URI), so business services behind the gateway are guarded too.
// Admits are answered 204 with X-Tenant-Id; denials carry the usual deny body.
func (m *TenantGuard) ForwardAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		uri := c.GetHeader("X-Forwarded-Uri")
		if uri == "" {
			uri = c.GetHeader("X-Original-URI")
		}
		parsed, err := url.ParseRequestURI(uri)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Error{Error: "X-Forwarded-Uri header is required"})
			return
		}

		dec, ok := m.admit(c, parsed.Path)
		if !ok {
			return
		}
		if dec.Tenant != nil {
			c.Header("X-Tenant-Id", dec.Tenant.ID)
		}
		c.Status(http.StatusNoContent)
	}
}

// admit runs the pipeline for path and writes the denial when there is one.
func (m *TenantGuard) admit(c *gin.Context, path string) (guard.Decision, bool) {
	principal, _ := principalFrom(c)
	method := c.GetHeader("X-Forwarded-Method")
	if method == "" {
		method = c.Request.Method
	}
	dec := m.admitter.Admit(c.Request.Context(), guard.Request{
		Path:      path,
		Method:    method,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Principal: principal,
	})
	if dec.Allowed {
		return dec, true
	}

	if dec.Err != nil {
		_ = c.Error(dec.Err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(dec.Err)
		}
	}
	writeDeny(c, dec)
	return dec, false
}

func writeDeny(c *gin.Context, dec guard.Decision) {
	body := dto.DenyResponse{Code: dec.Code, Message: dec.Message}
	if l := dec.Limit; l != nil {
		body.DenyLimit = &dto.DenyLimit{
			Key:   string(l.Key),
			Used:  l.Used,
			Max:   l.Max,
			Pct:   l.Pct,
			Grace: l.Grace,
		}
	}
	if dec.RetryAfter > 0 {
		c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(dec.RetryAfter.Seconds())), 10))
	}
	c.AbortWithStatusJSON(dec.Status, body)
}
