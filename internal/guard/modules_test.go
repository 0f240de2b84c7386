package guard

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

func allModulesOff() *domain.Tenant {
	t := domain.NewTenant("acme", "Acme", domain.PlanEnterprise)
	for _, m := range domain.ValidModules {
		t.Modules[m] = false
	}
	return t
}

func TestRouteTable_LongestPrefixWins(t *testing.T) {
	rt := DefaultRouteTable()

	tests := []struct {
		path   string
		module domain.Module
		ok     bool
	}{
		{"/api/v1/attendance/reports/monthly", domain.ModuleReports, true},
		{"/api/v1/attendance/checkin", domain.ModuleAttendance, true},
		{"/api/v1/attendance", domain.ModuleAttendance, true},
		{"/api/v1/leads/42", domain.ModuleCRM, true},
		{"/api/v1/leadsx", "", false},
		{"/api/v1/webhooks/stripe", domain.ModuleIntegrations, true},
		{"/api/v1/profile", "", false},
	}
	for _, tt := range tests {
		module, ok := rt.Resolve(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.module, module, tt.path)
	}
}

func TestRouteTable_TieBreaksByOrder(t *testing.T) {
	rt, err := NewRouteTable([]RouteModule{
		{Prefix: "/x", Module: domain.ModuleCRM},
		{Prefix: "/x/", Module: domain.ModuleReports},
	})
	require.NoError(t, err)

	module, ok := rt.Resolve("/x/y")
	require.True(t, ok)
	assert.Equal(t, domain.ModuleCRM, module)
}

func TestNewRouteTable_Validation(t *testing.T) {
	_, err := NewRouteTable([]RouteModule{{Prefix: "", Module: domain.ModuleCRM}})
	assert.Error(t, err)

	_, err = NewRouteTable([]RouteModule{{Prefix: "/x", Module: "billing"}})
	assert.ErrorIs(t, err, domain.ErrInvalidModule)
}

func TestRouteTable_EntriesIsACopy(t *testing.T) {
	rt := DefaultRouteTable()
	entries := rt.Entries()
	entries[0].Module = domain.ModuleSupportDesk

	module, _ := rt.Resolve("/api/v1/leads")
	assert.Equal(t, domain.ModuleCRM, module)
}

func TestModuleGate_UnmappedRouteIsNeverBlocked(t *testing.T) {
	gate := NewModuleGate(DefaultRouteTable())
	tenant := allModulesOff()

	module, d := gate.Check(tenant, "/api/v1/profile/settings")
	assert.Nil(t, d)
	assert.Empty(t, module)
}

func TestModuleGate_DisabledModule(t *testing.T) {
	gate := NewModuleGate(DefaultRouteTable())
	tenant := allModulesOff()

	module, d := gate.Check(tenant, "/api/v1/reports/sales")
	require.NotNil(t, d)
	assert.Equal(t, domain.ModuleReports, module)
	assert.Equal(t, http.StatusForbidden, d.Status)
	assert.Equal(t, domain.CodeModuleDisabled, d.Code)
	assert.Equal(t, domain.SeverityWarn, d.Severity)
	assert.Equal(t, domain.ModuleReports, d.Module)

	tenant.Modules[domain.ModuleReports] = true
	_, d = gate.Check(tenant, "/api/v1/reports/sales")
	assert.Nil(t, d)
}

func TestModuleGate_MissingModuleKeyIsDisabled(t *testing.T) {
	gate := NewModuleGate(DefaultRouteTable())
	tenant := domain.NewTenant("acme", "Acme", domain.PlanEnterprise)
	delete(tenant.Modules, domain.ModuleCallCenter)

	_, d := gate.Check(tenant, "/api/v1/calls")
	require.NotNil(t, d)
	assert.Equal(t, domain.CodeModuleDisabled, d.Code)
}

func TestModuleGate_IntegrationsGatedOnlyWhenStrict(t *testing.T) {
	gate := NewModuleGate(DefaultRouteTable())
	tenant := allModulesOff()

	_, d := gate.Check(tenant, "/api/v1/integrations/slack")
	assert.Nil(t, d)

	tenant.PolicyRules.StrictIntegrations = true
	_, d = gate.Check(tenant, "/api/v1/integrations/slack")
	require.NotNil(t, d)
	assert.Equal(t, domain.ModuleIntegrations, d.Module)
}
