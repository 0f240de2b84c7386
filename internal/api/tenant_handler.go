package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/domain"
)

//go:generate mockery --name TenantService --output ../mocks
type TenantService interface {
	Provision(ctx context.Context, actor *domain.Principal, req dto.CreateTenantRequest) (*dto.TenantResponse, error)
	Get(ctx context.Context, id string) (*dto.TenantResponse, error)
	List(ctx context.Context) ([]dto.TenantResponse, error)
	UpdateFeatures(ctx context.Context, actor *domain.Principal, id string, req dto.UpdateFeaturesRequest) (*dto.TenantResponse, error)
	ResetUsage(ctx context.Context, actor *domain.Principal, id string, scope domain.UsageScope) (*dto.TenantResponse, error)
	Delete(ctx context.Context, actor *domain.Principal, id string) error
	Usage(ctx context.Context, tenantID string) (*dto.UsageResponse, error)
}

type TenantHandler struct {
	*BaseHandler
	service TenantService
}

func NewTenantHandler(service TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// CreateTenant godoc
// @Summary Provision a tenant
// @Description Create a tenant with the modules and limits of its plan
// @Tags super
// @Accept json
// @Produce json
// @Param body body dto.CreateTenantRequest true "Tenant object"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router /super/tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	tenant, err := h.service.Provision(h.RequestCtx(c), h.Principal(c), req)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tenant)
}

// ListTenants godoc
// @Summary List tenants
// @Tags super
// @Produce json
// @Success 200 {array} dto.TenantResponse
// @Failure 403 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router /super/tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.service.List(h.RequestCtx(c))
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenants)
}

// GetTenant godoc
// @Summary Get a tenant
// @Tags super
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router /super/tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenant, err := h.service.Get(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// UpdateFeatures godoc
// @Summary Update tenant configuration
// @Description Patch activation, plan, modules, limits and policy rules. Unknown module or limit keys are rejected.
// @Tags super
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Param body body dto.UpdateFeaturesRequest true "Configuration patch"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router /super/tenants/{id}/features [put]
func (h *TenantHandler) UpdateFeatures(c *gin.Context) {
	var req dto.UpdateFeaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	tenant, err := h.service.UpdateFeatures(h.RequestCtx(c), h.Principal(c), c.Param("id"), req)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// ResetUsage godoc
// @Summary Reset usage counters
// @Tags super
// @Produce json
// @Param id path string true "Tenant ID"
// @Param scope query string false "daily, monthly or all" default(all)
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router /super/tenants/{id}/usage/reset [post]
func (h *TenantHandler) ResetUsage(c *gin.Context) {
	scope := domain.UsageScope(c.Query("scope"))

	tenant, err := h.service.ResetUsage(h.RequestCtx(c), h.Principal(c), c.Param("id"), scope)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// DeleteTenant godoc
// @Summary Delete a tenant
// @Tags super
// @Param id path string true "Tenant ID"
// @Success 204
// @Failure 404 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router /super/tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	if err := h.service.Delete(h.RequestCtx(c), h.Principal(c), c.Param("id")); err != nil {
		h.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUsage godoc
// @Summary Current usage for the caller's tenant
// @Tags tenant
// @Produce json
// @Success 200 {object} dto.UsageResponse
// @Failure 401 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router /tenant/usage [get]
func (h *TenantHandler) GetUsage(c *gin.Context) {
	principal := h.Principal(c)
	if principal == nil || principal.TenantID == "" {
		c.JSON(http.StatusUnauthorized, dto.Error{Error: "No tenant ID found"})
		return
	}

	usage, err := h.service.Usage(h.RequestCtx(c), principal.TenantID)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}
