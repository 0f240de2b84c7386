package domain

import (
	"maps"

	"github.com/samber/lo"
)

// Module is a feature area that can be switched on or off per tenant.
type Module string

const (
	ModuleCRM          Module = "crm"
	ModuleAttendance   Module = "attendance"
	ModuleReports      Module = "reports"
	ModulePolicies     Module = "policies"
	ModuleAutomation   Module = "automation"
	ModuleIntegrations Module = "integrations"
	ModuleCallCenter   Module = "callcenter"
	ModuleSupportDesk  Module = "supportdesk"
)

var ValidModules = []Module{
	ModuleCRM,
	ModuleAttendance,
	ModuleReports,
	ModulePolicies,
	ModuleAutomation,
	ModuleIntegrations,
	ModuleCallCenter,
	ModuleSupportDesk,
}

func IsValidModule(m string) bool {
	return lo.Contains(ValidModules, Module(m))
}

type ModuleSet map[Module]bool

// Enabled reports whether m is switched on. A missing entry is off.
func (s ModuleSet) Enabled(m Module) bool {
	return s[m]
}

func (s ModuleSet) Clone() ModuleSet {
	if s == nil {
		return ModuleSet{}
	}
	return maps.Clone(s)
}

// LimitKey names a configurable ceiling.
type LimitKey string

const (
	LimitUsersMax             LimitKey = "usersMax"
	LimitLeadsPerMonth        LimitKey = "leadsPerMonth"
	LimitEmailsPerDay         LimitKey = "emailsPerDay"
	LimitStorageGB            LimitKey = "storageGB"
	LimitAICreditsPerMonth    LimitKey = "aiCreditsPerMonth"
	LimitWhatsappMsgsPerMonth LimitKey = "whatsappMsgsPerMonth"
	LimitAPICallsPerDay       LimitKey = "apiCallsPerDay"
)

var ValidLimitKeys = []LimitKey{
	LimitUsersMax,
	LimitLeadsPerMonth,
	LimitEmailsPerDay,
	LimitStorageGB,
	LimitAICreditsPerMonth,
	LimitWhatsappMsgsPerMonth,
	LimitAPICallsPerDay,
}

func IsValidLimitKey(k string) bool {
	return lo.Contains(ValidLimitKeys, LimitKey(k))
}

// Limits maps a key to its ceiling. Zero or missing means not enforced.
type Limits map[LimitKey]float64

func (l Limits) Get(k LimitKey) float64 {
	return l[k]
}

func (l Limits) Clone() Limits {
	if l == nil {
		return Limits{}
	}
	return maps.Clone(l)
}

// Plan identifies the pricing tier a tenant was provisioned on.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanStarter    Plan = "starter"
	PlanGrowth     Plan = "growth"
	PlanEnterprise Plan = "enterprise"
)

// PlanConfig is the provisioning template for a plan.
type PlanConfig struct {
	Plan    Plan
	Modules ModuleSet
	Limits  Limits
}

// Plans is the hardcoded plan catalogue. Enterprise limits are all zero (unenforced).
var Plans = map[Plan]PlanConfig{
	PlanFree: {
		Plan:    PlanFree,
		Modules: modulesOn(ModuleCRM, ModuleAttendance),
		Limits: Limits{
			LimitUsersMax:       3,
			LimitLeadsPerMonth:  500,
			LimitEmailsPerDay:   100,
			LimitStorageGB:      1,
			LimitAPICallsPerDay: 1000,
		},
	},
	PlanStarter: {
		Plan:    PlanStarter,
		Modules: modulesOn(ModuleCRM, ModuleAttendance, ModuleReports, ModulePolicies),
		Limits: Limits{
			LimitUsersMax:             10,
			LimitLeadsPerMonth:        5000,
			LimitEmailsPerDay:         1000,
			LimitStorageGB:            10,
			LimitAICreditsPerMonth:    100,
			LimitWhatsappMsgsPerMonth: 500,
			LimitAPICallsPerDay:       10000,
		},
	},
	PlanGrowth: {
		Plan: PlanGrowth,
		Modules: modulesOn(ModuleCRM, ModuleAttendance, ModuleReports, ModulePolicies,
			ModuleAutomation, ModuleIntegrations),
		Limits: Limits{
			LimitUsersMax:             50,
			LimitLeadsPerMonth:        50000,
			LimitEmailsPerDay:         10000,
			LimitStorageGB:            100,
			LimitAICreditsPerMonth:    1000,
			LimitWhatsappMsgsPerMonth: 5000,
			LimitAPICallsPerDay:       100000,
		},
	},
	PlanEnterprise: {
		Plan:    PlanEnterprise,
		Modules: modulesOn(ValidModules...),
		Limits:  Limits{},
	},
}

func ValidPlan(p Plan) bool {
	_, ok := Plans[p]
	return ok
}

func modulesOn(on ...Module) ModuleSet {
	set := make(ModuleSet, len(ValidModules))
	for _, m := range ValidModules {
		set[m] = lo.Contains(on, m)
	}
	return set
}
