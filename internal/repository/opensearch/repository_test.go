package opensearch

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

func TestBuildSearchQuery(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := &domain.AuditEntryFilter{
		TenantID:  "acme",
		Code:      domain.CodeRateLimit,
		Severity:  string(domain.SeverityWarn),
		Query:     "api call limit",
		StartTime: start,
		Limit:     20,
		Offset:    40,
	}

	query := buildSearchQuery(filter)

	must := query["query"].(map[string]any)["bool"].(map[string]any)["must"].([]map[string]any)
	assert.Len(t, must, 5)
	assert.Equal(t, map[string]any{"term": map[string]any{"tenant_id": "acme"}}, must[0])
	assert.Equal(t, 40, query["from"])
	assert.Equal(t, 20, query["size"])

	rng := must[4]["range"].(map[string]any)["created_at"].(map[string]any)
	assert.Equal(t, "2026-01-01T00:00:00Z", rng["gte"])
	assert.NotContains(t, rng, "lte")
}

func TestBuildSearchQuery_NoPagination(t *testing.T) {
	query := buildSearchQuery(&domain.AuditEntryFilter{})

	assert.NotContains(t, query, "from")
	must := query["query"].(map[string]any)["bool"].(map[string]any)["must"].([]map[string]any)
	assert.Empty(t, must)
}

func TestBuildBulkBody(t *testing.T) {
	entries := []domain.AuditEntry{
		{ID: "a", TenantID: "acme", Code: domain.CodeModuleDisabled},
		{ID: "b", TenantID: "acme", Code: domain.CodeRateLimit},
	}

	body, err := buildBulkBody("tenant_guard_audit_2026_01", entries)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &action))
	assert.Equal(t, "b", action["index"]["_id"])
	assert.Equal(t, "tenant_guard_audit_2026_01", action["index"]["_index"])
}
