package guard

import (
	"fmt"
	"net/http"

	"github.com/kingrain94/tenant-guard/internal/domain"
)

// RouteModule maps a path prefix to the module that owns it.
type RouteModule struct {
	Prefix string
	Module domain.Module
}

// RouteTable is an immutable prefix to module mapping. The longest matching
// prefix wins; equal lengths resolve in table order.
type RouteTable struct {
	entries []RouteModule
}

func NewRouteTable(entries []RouteModule) (RouteTable, error) {
	out := make([]RouteModule, 0, len(entries))
	for _, e := range entries {
		prefix := cleanPrefix(e.Prefix)
		if prefix == "" {
			return RouteTable{}, fmt.Errorf("route table: empty prefix for module %q", e.Module)
		}
		if !domain.IsValidModule(string(e.Module)) {
			return RouteTable{}, fmt.Errorf("route table: %w %q for prefix %s", domain.ErrInvalidModule, e.Module, prefix)
		}
		out = append(out, RouteModule{Prefix: prefix, Module: e.Module})
	}
	return RouteTable{entries: out}, nil
}

// DefaultRouteTable covers the business API surface.
func DefaultRouteTable() RouteTable {
	table, err := NewRouteTable([]RouteModule{
		{Prefix: "/api/v1/leads", Module: domain.ModuleCRM},
		{Prefix: "/api/v1/contacts", Module: domain.ModuleCRM},
		{Prefix: "/api/v1/deals", Module: domain.ModuleCRM},
		{Prefix: "/api/v1/crm", Module: domain.ModuleCRM},
		{Prefix: "/api/v1/attendance", Module: domain.ModuleAttendance},
		{Prefix: "/api/v1/leaves", Module: domain.ModuleAttendance},
		{Prefix: "/api/v1/shifts", Module: domain.ModuleAttendance},
		{Prefix: "/api/v1/attendance/reports", Module: domain.ModuleReports},
		{Prefix: "/api/v1/reports", Module: domain.ModuleReports},
		{Prefix: "/api/v1/analytics", Module: domain.ModuleReports},
		{Prefix: "/api/v1/policies", Module: domain.ModulePolicies},
		{Prefix: "/api/v1/automation", Module: domain.ModuleAutomation},
		{Prefix: "/api/v1/workflows", Module: domain.ModuleAutomation},
		{Prefix: "/api/v1/integrations", Module: domain.ModuleIntegrations},
		{Prefix: "/api/v1/webhooks", Module: domain.ModuleIntegrations},
		{Prefix: "/api/v1/calls", Module: domain.ModuleCallCenter},
		{Prefix: "/api/v1/callcenter", Module: domain.ModuleCallCenter},
		{Prefix: "/api/v1/tickets", Module: domain.ModuleSupportDesk},
		{Prefix: "/api/v1/support", Module: domain.ModuleSupportDesk},
	})
	if err != nil {
		panic(err)
	}
	return table
}

// Resolve returns the module owning path, if any.
func (rt RouteTable) Resolve(path string) (domain.Module, bool) {
	best := -1
	for i, e := range rt.entries {
		if !hasPathPrefix(path, e.Prefix) {
			continue
		}
		if best < 0 || len(e.Prefix) > len(rt.entries[best].Prefix) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return rt.entries[best].Module, true
}

// Entries returns a copy of the table.
func (rt RouteTable) Entries() []RouteModule {
	return append([]RouteModule(nil), rt.entries...)
}

// ModuleGate denies requests to modules the tenant has switched off.
type ModuleGate struct {
	routes RouteTable
}

func NewModuleGate(routes RouteTable) ModuleGate {
	return ModuleGate{routes: routes}
}

// Check returns the module the path maps to and a denial when it is disabled.
// The integrations module is only gated for tenants with strictIntegrations.
func (g ModuleGate) Check(t *domain.Tenant, path string) (domain.Module, *Decision) {
	module, ok := g.routes.Resolve(path)
	if !ok {
		return "", nil
	}
	if module == domain.ModuleIntegrations && !t.PolicyRules.StrictIntegrations {
		return module, nil
	}
	if t.Modules.Enabled(module) {
		return module, nil
	}
	d := deny(http.StatusForbidden, domain.CodeModuleDisabled,
		fmt.Sprintf("The %s module is not enabled for your company", module), domain.SeverityWarn)
	d.Module = module
	return module, d
}
