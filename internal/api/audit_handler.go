package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/pkg/utils"
)

//go:generate mockery --name AuditService --output ../mocks
type AuditService interface {
	GetByID(ctx context.Context, tenantID, id string) (*dto.AuditEntryResponse, error)
	List(ctx context.Context, filter *domain.AuditEntryFilter) (*dto.ListAuditEntriesResponse, error)
	Export(ctx context.Context, filter *domain.AuditEntryFilter) ([]dto.AuditEntryResponse, error)
	GetStats(ctx context.Context, filter *domain.AuditEntryFilter) (*dto.AuditStatsResponse, error)
	ScheduleArchive(ctx context.Context, tenantID string, beforeDate time.Time) error
}

type AuditHandler struct {
	*BaseHandler
	service AuditService
}

func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// ListEntries List the caller's audit entries
// @Summary List audit entries
// @Description List guard decisions and admin changes for the caller's tenant
// @Tags    audit
// @Produce json
// @Param   code query string false "Filter by decision code"
// @Param   action query string false "Filter by action"
// @Param   severity query string false "Filter by severity"
// @Param   q query string false "Free-text search on the message"
// @Param   start_time query string false "Start time (RFC3339 or YYYY-MM-DD)"
// @Param   end_time query string false "End time (RFC3339 or YYYY-MM-DD)"
// @Param   page query int false "Page number"
// @Param   page_size query int false "Page size (max 200)"
// @Success 200 {object} dto.ListAuditEntriesResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /audit [get]
func (h *AuditHandler) ListEntries(c *gin.Context) {
	filter, ok := h.tenantFilter(c)
	if !ok {
		return
	}
	h.list(c, filter)
}

// ListAllEntries List audit entries across tenants
// @Summary List audit entries (superadmin)
// @Description List audit entries for any tenant, or all tenants when tenant_id is omitted
// @Tags    super
// @Produce json
// @Param   tenant_id query string false "Filter by tenant"
// @Param   actor_id query string false "Filter by actor"
// @Param   code query string false "Filter by decision code"
// @Param   action query string false "Filter by action"
// @Param   severity query string false "Filter by severity"
// @Param   q query string false "Free-text search on the message"
// @Param   start_time query string false "Start time (RFC3339 or YYYY-MM-DD)"
// @Param   end_time query string false "End time (RFC3339 or YYYY-MM-DD)"
// @Param   page query int false "Page number"
// @Param   page_size query int false "Page size (max 200)"
// @Success 200 {object} dto.ListAuditEntriesResponse
// @Failure 400 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /super/audit [get]
func (h *AuditHandler) ListAllEntries(c *gin.Context) {
	filter, err := getFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}
	filter.TenantID = c.Query("tenant_id")
	h.list(c, filter)
}

func (h *AuditHandler) list(c *gin.Context, filter *domain.AuditEntryFilter) {
	entries, err := h.service.List(h.RequestCtx(c), filter)
	if err != nil {
		h.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntry Get one audit entry
// @Summary Get audit entry
// @Tags    audit
// @Produce json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.AuditEntryResponse
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /audit/{id} [get]
func (h *AuditHandler) GetEntry(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	entry, err := h.service.GetByID(h.RequestCtx(c), tenantID, c.Param("id"))
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetStats Get audit statistics
// @Summary Get audit statistics
// @Description Counts of the caller's audit entries by code, action and severity
// @Tags    audit
// @Produce json
// @Param   start_time query string false "Start time (RFC3339 or YYYY-MM-DD)"
// @Param   end_time query string false "End time (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.AuditStatsResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /audit/stats [get]
func (h *AuditHandler) GetStats(c *gin.Context) {
	filter, ok := h.tenantFilter(c)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(h.RequestCtx(c), filter)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportEntries Export audit entries as JSON or CSV
// @Summary Export audit entries
// @Tags    audit
// @Produce json,text/csv
// @Param   format query string false "Export format (json or csv)" default(json)
// @Param   code query string false "Filter by decision code"
// @Param   action query string false "Filter by action"
// @Param   severity query string false "Filter by severity"
// @Param   start_time query string false "Start time (RFC3339 or YYYY-MM-DD)"
// @Param   end_time query string false "End time (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /audit/export [get]
func (h *AuditHandler) ExportEntries(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "Invalid format. Must be 'json' or 'csv'"})
		return
	}

	filter, ok := h.tenantFilter(c)
	if !ok {
		return
	}

	entries, err := h.service.Export(h.RequestCtx(c), filter)
	if err != nil {
		h.WriteError(c, err)
		return
	}

	if format == "json" {
		c.Header("Content-Disposition", "attachment; filename=audit_entries.json")
		c.JSON(http.StatusOK, entries)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=audit_entries.csv")
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{
		"ID", "TenantID", "ActorID", "ActorRole", "Action",
		"Code", "Severity", "Message", "Metadata", "CreatedAt",
	}
	if err := writer.Write(header); err != nil {
		_ = c.Error(err)
		return
	}

	for _, entry := range entries {
		metadata := ""
		if len(entry.Metadata) > 0 {
			if raw, err := json.Marshal(entry.Metadata); err == nil {
				metadata = string(raw)
			}
		}

		record := []string{
			entry.ID,
			entry.TenantID,
			entry.ActorID,
			entry.ActorRole,
			entry.Action,
			entry.Code,
			entry.Severity,
			entry.Message,
			metadata,
			entry.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			_ = c.Error(err)
			return
		}
	}
}

// Cleanup Schedule archival and deletion of old audit entries
// @Summary Schedule cleanup
// @Description Enqueues an archive job; archived entries are then deleted from the store and the search index
// @Tags    audit
// @Produce json
// @Param   before_date query string true "Clean up entries before this date (RFC3339 or YYYY-MM-DD)"
// @Success 202 {object} dto.CleanupResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /audit/cleanup [delete]
func (h *AuditHandler) Cleanup(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	beforeDateStr := c.Query("before_date")
	if beforeDateStr == "" {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "before_date parameter is required"})
		return
	}

	beforeDate, err := utils.ParseUserTime(beforeDateStr, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "Invalid before_date format: " + err.Error()})
		return
	}
	if beforeDate.After(time.Now()) {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "before_date cannot be in the future"})
		return
	}

	if err := h.service.ScheduleArchive(h.RequestCtx(c), tenantID, beforeDate); err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.CleanupResponse{
		Message:    "Cleanup operation scheduled successfully",
		TenantID:   tenantID,
		BeforeDate: beforeDate.UTC(),
	})
}

func (h *AuditHandler) tenantID(c *gin.Context) (string, bool) {
	principal := h.Principal(c)
	if principal == nil || principal.TenantID == "" {
		c.JSON(http.StatusUnauthorized, dto.Error{Error: "No tenant ID found"})
		return "", false
	}
	return principal.TenantID, true
}

// tenantFilter parses the query and pins it to the caller's tenant.
func (h *AuditHandler) tenantFilter(c *gin.Context) (*domain.AuditEntryFilter, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return nil, false
	}
	filter, err := getFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return nil, false
	}
	filter.TenantID = tenantID
	return filter, true
}

func getFilterFromQuery(c *gin.Context) (*domain.AuditEntryFilter, error) {
	filter := &domain.AuditEntryFilter{
		ActorID:  c.Query("actor_id"),
		Code:     c.Query("code"),
		Action:   c.Query("action"),
		Severity: c.Query("severity"),
		Query:    c.Query("q"),
	}

	if page := c.Query("page"); page != "" {
		if pageNum, err := strconv.Atoi(page); err == nil {
			filter.Page = pageNum
		}
	}
	if pageSize := c.Query("page_size"); pageSize != "" {
		if size, err := strconv.Atoi(pageSize); err == nil {
			filter.PageSize = size
		}
	}

	if startTime := c.Query("start_time"); startTime != "" {
		t, err := utils.ParseUserTime(startTime, false)
		if err != nil {
			return nil, err
		}
		filter.StartTime = t
	}
	if endTime := c.Query("end_time"); endTime != "" {
		t, err := utils.ParseUserTime(endTime, true)
		if err != nil {
			return nil, err
		}
		filter.EndTime = t
	}
	if !filter.StartTime.IsZero() && !filter.EndTime.IsZero() && filter.StartTime.After(filter.EndTime) {
		return nil, fmt.Errorf("start_time must be before end_time")
	}

	return filter, nil
}
