// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g runtime/main.go`.
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
        "/ping": {
            "get": {
                "description": "This endpoint checks the health of the service",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Ping",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Get my stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/stats/public": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Public platform stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/sessions": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "List focus sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Start a focus session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/shared.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/courses": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "Dashboard courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        }
    },
    "definitions": {
        "shared.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FocusFlow API",
	Description:      "Focus sessions, study statistics and course proxy.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
