// Package docs registers the OpenAPI description of the HTTP API with swag.
// It mirrors the godoc annotations on the handlers; running
// `swag init -g cmd/material-kb/main.go` replaces it with generated output.
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
        "/user/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a reviewer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AuthResponse"}}}
            }
        },
        "/user/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login reviewer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthResponse"}}}
            }
        },
        "/user/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthResponse"}}}
            }
        },
        "/api/v1/documents/upload": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["documents"],
                "summary": "Ingest a supplier document",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [{"type": "file", "in": "formData", "name": "file", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.IngestResponse"}},
                    "415": {"description": "Unsupported Media Type"}
                }
            }
        },
        "/api/v1/documents": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["documents"],
                "summary": "List uploaded documents",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 10, "in": "query", "name": "limit"},
                    {"type": "integer", "default": 0, "in": "query", "name": "offset"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.DocumentResponse"}}}}
            }
        },
        "/api/v1/documents/{id}/content": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["documents"],
                "summary": "Download a stored document",
                "produces": ["application/octet-stream"],
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/approvals": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["approvals"],
                "summary": "List pending approvals",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "query", "name": "workflow_id"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.PendingApprovalResponse"}}}}
            }
        },
        "/api/v1/approvals/{workflow_id}/approve": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["approvals"],
                "summary": "Approve pending items",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "workflow_id", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ApprovalDecisionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ApproveResponse"}}}
            }
        },
        "/api/v1/approvals/{workflow_id}/recommit": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["approvals"],
                "summary": "Retry knowledge base commits",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "workflow_id", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ApprovalDecisionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ApproveResponse"}}}
            }
        },
        "/api/v1/approvals/{workflow_id}/reject": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["approvals"],
                "summary": "Reject pending items",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "workflow_id", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ApprovalDecisionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RejectResponse"}}}
            }
        },
        "/api/v1/approvals/{workflow_id}/audit": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["approvals"],
                "summary": "Approval audit trail",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "workflow_id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.AuditEntryResponse"}}}}
            }
        },
        "/api/v1/knowledge": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["knowledge"],
                "summary": "Search the knowledge base",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "query", "name": "q"},
                    {"type": "integer", "default": 50, "in": "query", "name": "limit"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.KnowledgeEntryResponse"}}}}
            }
        },
        "/api/v1/knowledge/stats": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["knowledge"],
                "summary": "Knowledge base statistics",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.KnowledgeStatsResponse"}}}
            }
        }
    },
    "definitions": {
        "dto.RegisterRequest": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "dto.LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "dto.RefreshTokenRequest": {"type": "object", "properties": {"refresh_token": {"type": "string"}}},
        "dto.UserResponse": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}}},
        "dto.AuthResponse": {"type": "object", "properties": {"access_token": {"type": "string"}, "refresh_token": {"type": "string"}, "token_type": {"type": "string"}, "expires_in": {"type": "integer"}, "user": {"$ref": "#/definitions/dto.UserResponse"}}},
        "dto.DocumentResponse": {"type": "object", "properties": {"id": {"type": "string"}, "workflow_id": {"type": "string"}, "format": {"type": "string"}, "file_name": {"type": "string"}, "file_size": {"type": "integer"}, "extracted_text": {"type": "string"}, "created_at": {"type": "string"}}},
        "dto.MatchResponse": {"type": "object", "properties": {"original_item": {"type": "object", "additionalProperties": {"type": "string"}}, "kb_match": {"$ref": "#/definitions/dto.KnowledgeEntryResponse"}}},
        "dto.IngestResponse": {"type": "object", "properties": {"document": {"$ref": "#/definitions/dto.DocumentResponse"}, "workflow_id": {"type": "string"}, "items_extracted": {"type": "integer"}, "items_matched": {"type": "integer"}, "items_queued": {"type": "integer"}, "pending_ids": {"type": "array", "items": {"type": "integer"}}, "matches": {"type": "array", "items": {"$ref": "#/definitions/dto.MatchResponse"}}}},
        "dto.KnowledgeEntryResponse": {"type": "object", "properties": {"id": {"type": "string"}, "material_name": {"type": "string"}, "part_number": {"type": "string"}, "description": {"type": "string"}, "classification_label": {"type": "string"}, "confidence_level": {"type": "string"}, "supplier_info": {"type": "object"}, "workflow_id": {"type": "string"}, "approved_by": {"type": "string"}, "created_at": {"type": "string"}}},
        "dto.KnowledgeStatsResponse": {"type": "object", "properties": {"total_items": {"type": "integer"}, "by_confidence": {"type": "object", "additionalProperties": {"type": "integer"}}, "pending_approvals": {"type": "integer"}, "approved_items": {"type": "integer"}, "rejected_items": {"type": "integer"}}},
        "dto.PendingApprovalResponse": {"type": "object", "properties": {"id": {"type": "integer"}, "workflow_id": {"type": "string"}, "status": {"type": "string"}, "item_data": {"type": "string"}, "parsed_data": {"type": "object"}, "created_at": {"type": "string"}}},
        "dto.ApprovalDecisionRequest": {"type": "object", "properties": {"item_ids": {"type": "array", "items": {"type": "integer"}}, "reason": {"type": "string"}}},
        "dto.ItemFailureResponse": {"type": "object", "properties": {"item_id": {"type": "integer"}, "error": {"type": "string"}}},
        "dto.ApproveResponse": {"type": "object", "properties": {"workflow_id": {"type": "string"}, "approved_count": {"type": "integer"}, "transitioned": {"type": "integer"}, "failures": {"type": "array", "items": {"$ref": "#/definitions/dto.ItemFailureResponse"}}}},
        "dto.RejectResponse": {"type": "object", "properties": {"workflow_id": {"type": "string"}, "rejected_count": {"type": "integer"}, "affected": {"type": "integer"}}},
        "dto.AuditEntryResponse": {"type": "object", "properties": {"pending_approval_id": {"type": "integer"}, "from_status": {"type": "string"}, "to_status": {"type": "string"}, "actor": {"type": "string"}, "reason": {"type": "string"}, "created_at": {"type": "string"}}}
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Material Knowledge Base API",
	Description:      "Extraction-to-approval pipeline for supplier item lists",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
