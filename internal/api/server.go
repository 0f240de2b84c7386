package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/middleware"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

const maxRequestBodySize = 1 << 20 // 1MB

type Server struct {
	tenant          *TenantHandler
	audit           *AuditHandler
	websocket       *WebSocketHandler
	auth            *middleware.AuthMiddleware
	guard           *middleware.TenantGuard
	rateLimit       *middleware.RateLimitMiddleware
	validation      *middleware.ValidationMiddleware
	globalRateLimit int
}

func NewServer(
	tenantService TenantService,
	auditService AuditService,
	subscriber Subscriber,
	auth *middleware.AuthMiddleware,
	tenantGuard *middleware.TenantGuard,
	rateLimit *middleware.RateLimitMiddleware,
	validation *middleware.ValidationMiddleware,
	globalRateLimit int,
	logger *logger.Logger,
) *Server {
	return &Server{
		tenant:          NewTenantHandler(tenantService),
		audit:           NewAuditHandler(auditService),
		websocket:       NewWebSocketHandler(logger, subscriber),
		auth:            auth,
		guard:           tenantGuard,
		rateLimit:       rateLimit,
		validation:      validation,
		globalRateLimit: globalRateLimit,
	}
}

// SetupRoutes mounts the service under api, normally the /api/v1 group.
func (s *Server) SetupRoutes(api *gin.RouterGroup) {
	api.Use(s.validation.ValidateRequestSize(maxRequestBodySize))
	api.Use(s.validation.ValidateContentType("application/json"))
	api.Use(s.rateLimit.GlobalRateLimit(s.globalRateLimit))

	// gateway subrequest: the guarded path comes from X-Forwarded-Uri.
	// Auth is optional here so token-less requests reach the skip list.
	api.GET("/guard/check", s.auth.OptionalJWTAuth(), middleware.SentryTenantContext(), s.guard.ForwardAuth())

	super := api.Group("/super", s.auth.JWTAuth(), middleware.SentryTenantContext(), s.auth.RequireSuperAdmin())
	{
		super.POST("/tenants", s.tenant.CreateTenant)
		super.GET("/tenants", s.tenant.ListTenants)
		super.GET("/tenants/:id", s.tenant.GetTenant)
		super.PUT("/tenants/:id/features", s.tenant.UpdateFeatures)
		super.POST("/tenants/:id/usage/reset", s.tenant.ResetUsage)
		super.DELETE("/tenants/:id", s.tenant.DeleteTenant)
		super.GET("/audit", s.audit.ListAllEntries)
		super.GET("/audit/stream", s.websocket.HandleSuperWebSocket)
	}

	guarded := api.Group("", s.auth.OptionalJWTAuth(), middleware.SentryTenantContext(), s.guard.Handle(), s.auth.RequireAuth())
	{
		guarded.GET("/tenant/usage", s.tenant.GetUsage)

		audit := guarded.Group("/audit", s.auth.RequireRole(domain.RoleAdmin, domain.RoleAuditor))
		{
			audit.GET("", s.audit.ListEntries)
			audit.GET("/stats", s.audit.GetStats)
			audit.GET("/export", s.audit.ExportEntries)
			audit.GET("/stream", s.websocket.HandleWebSocket)
			audit.GET("/:id", s.audit.GetEntry)
			audit.DELETE("/cleanup", s.auth.RequireRole(domain.RoleAdmin), s.audit.Cleanup)
		}
	}
}

// StartWebSocketHub starts the hub that fans live audit entries out to stream clients.
func (s *Server) StartWebSocketHub() {
	go s.websocket.Start()
}

func (s *Server) StopWebSocketHub() {
	s.websocket.Stop()
}
