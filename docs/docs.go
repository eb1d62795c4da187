// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/main.go
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/signup": {
            "post": {
                "description": "Creates an account. Username and password must be 4-20 characters; the password is trimmed. Sets the \"token\" cookie with a non-expiring session token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Sign up",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/signin": {
            "post": {
                "description": "Verifies credentials and sets the \"token\" cookie, valid for one hour.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/me/update-password": {
            "put": {
                "security": [{"CookieAuth": []}],
                "description": "Replaces the password after verifying the current one.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Change password",
                "parameters": [{"description": "Passwords", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdatePasswordRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/me/activity": {
            "get": {
                "security": [{"CookieAuth": []}],
                "description": "Lists the caller's events, oldest first. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Account activity",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range", "name": "to", "in": "query"},
                    {"enum": ["SIGNUP", "SIGNIN", "PASSWORD_CHANGE", "LIKE", "UNLIKE"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ActivityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/most-liked": {
            "get": {
                "description": "All users ordered by like count, descending.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Most liked users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UsersResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/user/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Fetch user",
                "parameters": [{"type": "string", "description": "User id (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/user/{id}/like": {
            "put": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Like user",
                "parameters": [{"type": "string", "description": "User id (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/user/{id}/unlike": {
            "put": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Unlike user",
                "parameters": [{"type": "string", "description": "User id (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/ws/most-liked": {
            "get": {
                "description": "Upgrades to a WebSocket and pushes {\"type\":\"most_liked\",\"data\":[users]} immediately, then again whenever the ranking changes, polled every interval (?interval=2s or ?interval_ms=500, default 1s, max 10s).",
                "tags": ["users"],
                "summary": "Leaderboard stream",
                "parameters": [
                    {"type": "string", "description": "Poll interval as a Go duration", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Poll interval in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "handlers.ActivityResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/models.AccountEvent"}}
            }
        },
        "handlers.AuthResponse": {
            "type": "object",
            "properties": {
                "msg": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "handlers.Credentials": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "s3cr3t"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {"msg": {"type": "string"}}
        },
        "handlers.UpdatePasswordRequest": {
            "type": "object",
            "properties": {
                "currentPassword": {"type": "string", "example": "s3cr3t"},
                "newPassword": {"type": "string", "example": "n3w-s3cr3t"}
            }
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "msg": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "handlers.UsersResponse": {
            "type": "object",
            "properties": {
                "msg": {"type": "string"},
                "users": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}
            }
        },
        "handlers.errorBody": {
            "type": "object",
            "properties": {
                "msg": {"type": "string", "example": "user not found"},
                "param": {"type": "string", "example": "id"}
            }
        },
        "handlers.errorResponse": {
            "type": "object",
            "properties": {"errors": {"$ref": "#/definitions/handlers.errorBody"}}
        },
        "models.AccountEvent": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "eventId": {"type": "string"},
                "metadata": {},
                "occurredAt": {"type": "string"},
                "type": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "likedBy": {"type": "array", "items": {"type": "string"}},
                "likes": {"type": "integer"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "token", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Likes Service API",
	Description:      "User accounts with session cookies and a like/unlike relation between users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
