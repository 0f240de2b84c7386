// Package docs is generated by swag init from the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/guard/check": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Admission check for a gateway subrequest. The guarded path is read from X-Forwarded-Uri or X-Original-URI.",
                "tags": ["guard"],
                "summary": "Forward-auth admission check",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.DenyResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.DenyResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/dto.DenyResponse"}}
                }
            }
        },
        "/tenant/usage": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["tenant"],
                "summary": "Usage report for the caller's company",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UsageResponse"}}
                }
            }
        },
        "/audit": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["audit"],
                "summary": "List audit entries for the caller's company",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "code", "in": "query"},
                    {"type": "string", "name": "action", "in": "query"},
                    {"type": "string", "name": "severity", "in": "query"},
                    {"type": "string", "name": "actor_id", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "start_time", "in": "query"},
                    {"type": "string", "name": "end_time", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListAuditEntriesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Error"}}
                }
            }
        },
        "/audit/stats": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["audit"],
                "summary": "Audit entry counts by code, action and severity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuditStatsResponse"}}
                }
            }
        },
        "/audit/export": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["audit"],
                "summary": "Export audit entries as JSON or CSV",
                "parameters": [{"type": "string", "name": "format", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/audit/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["audit"],
                "summary": "Get one audit entry",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuditEntryResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Error"}}
                }
            }
        },
        "/super/tenants": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["super"],
                "summary": "List tenants",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["super"],
                "summary": "Provision a tenant from a plan",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateTenantRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.TenantResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.Error"}}
                }
            }
        },
        "/super/tenants/{id}/features": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["super"],
                "summary": "Update plan, modules, limits and policy rules",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateFeaturesRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TenantResponse"}}}
            }
        },
        "/super/tenants/{id}/usage/reset": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["super"],
                "summary": "Reset usage counters",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "scope", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TenantResponse"}}}
            }
        }
    },
    "definitions": {
        "dto.Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "dto.DenyResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "key": {"type": "string"},
                "used": {"type": "integer"},
                "max": {"type": "number"},
                "pct": {"type": "integer"},
                "grace": {"type": "integer"}
            }
        },
        "dto.AuditEntryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenant_id": {"type": "string"},
                "actor_id": {"type": "string"},
                "actor_role": {"type": "string"},
                "action": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "severity": {"type": "string"},
                "metadata": {"type": "object"},
                "created_at": {"type": "string"}
            }
        },
        "dto.ListAuditEntriesResponse": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/dto.AuditEntryResponse"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        },
        "dto.AuditStatsResponse": {"type": "object"},
        "dto.UsageResponse": {"type": "object"},
        "dto.TenantResponse": {"type": "object"},
        "dto.CreateTenantRequest": {"type": "object"},
        "dto.UpdateFeaturesRequest": {"type": "object"}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:10000",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tenant Guard API",
	Description:      "Tenant admission control: suspension, module and quota enforcement with an audit trail.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
