// Package docs MyWork API 的 swag 文档，与 handler 上的注释保持一致，可用 swag init 重新生成
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
        "/my-work/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "合并所有数据源中分配给当前用户的待办，排序并分页",
                "produces": ["application/json"],
                "tags": ["我的工作"],
                "summary": "获取我的任务",
                "parameters": [
                    {"type": "string", "description": "任务类型，逗号分隔", "name": "types", "in": "query"},
                    {"type": "string", "description": "优先级，逗号分隔", "name": "priorities", "in": "query"},
                    {"type": "string", "description": "状态，逗号分隔", "name": "statuses", "in": "query"},
                    {"type": "string", "description": "截止时间起 (RFC3339)", "name": "due_date_start", "in": "query"},
                    {"type": "string", "description": "截止时间止 (RFC3339)", "name": "due_date_end", "in": "query"},
                    {"type": "string", "description": "priority_due_date | due_date | created_at", "name": "sort_by", "in": "query"},
                    {"type": "integer", "description": "每页数量", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "偏移量", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/my-work/sections": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "当前页任务按截止时间段或任务类型分组",
                "produces": ["application/json"],
                "tags": ["我的工作"],
                "summary": "获取分组后的我的任务",
                "parameters": [
                    {"type": "string", "description": "due | type", "name": "group_by", "in": "query"},
                    {"type": "string", "description": "任务类型，逗号分隔", "name": "types", "in": "query"},
                    {"type": "string", "description": "优先级，逗号分隔", "name": "priorities", "in": "query"},
                    {"type": "string", "description": "状态，逗号分隔", "name": "statuses", "in": "query"},
                    {"type": "string", "description": "priority_due_date | due_date | created_at", "name": "sort_by", "in": "query"},
                    {"type": "integer", "description": "每页数量", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "偏移量", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/my-work/available": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "组织内尚未分配的新案件，最早创建的在前",
                "produces": ["application/json"],
                "tags": ["我的工作"],
                "summary": "获取可认领的任务",
                "parameters": [
                    {"type": "integer", "description": "数量上限", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/my-work/counts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "按任务类型统计当前用户的待办数量",
                "produces": ["application/json"],
                "tags": ["我的工作"],
                "summary": "按类型统计我的任务",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 0},
                "message": {"type": "string", "example": "success"},
                "data": {}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "message": {"type": "string", "example": "invalid query"},
                "detail": {"type": "string", "example": "unknown priority"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token from Keycloak",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "MyWork API",
	Description:      "Unified work queue across cases, investigations, remediation, disclosures, campaigns and approvals",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
