package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/service"
	"github.com/kingrain94/tenant-guard/internal/utils"
)

type BaseHandler struct{}

func (h *BaseHandler) RequestCtx(ginCtx *gin.Context) context.Context {
	ctx := ginCtx.Request.Context()
	for k, v := range ginCtx.Keys {
		// Convert string keys to proper context key types to avoid collisions
		contextKey := utils.ContextKey(k)
		ctx = context.WithValue(ctx, contextKey, v)
	}
	return ctx
}

// Principal returns the caller set by the auth middleware, or nil.
func (h *BaseHandler) Principal(c *gin.Context) *domain.Principal {
	principal, err := utils.GetPrincipalFromContext(h.RequestCtx(c))
	if err != nil {
		return nil
	}
	return principal
}

// WriteError maps service errors onto status codes. Internal causes are not echoed.
func (h *BaseHandler) WriteError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.Error{Error: err.Error()})
	case errors.Is(err, domain.ErrTenantExists):
		c.JSON(http.StatusConflict, dto.Error{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.Error{Error: "Internal server error"})
	}
}
