// Package docs holds the Swagger description served at /swagger.
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
        "/restaurants": {
            "get": {
                "tags": ["restaurants"],
                "summary": "List restaurants with filtering, sorting, select and paging",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            },
            "post": {
                "tags": ["restaurants"],
                "summary": "Create a restaurant",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/restaurants/top-rated": {
            "get": {
                "tags": ["restaurants"],
                "summary": "Restaurants rated 4.5 or higher",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/restaurants/cuisine/{cuisineType}": {
            "get": {
                "tags": ["restaurants"],
                "summary": "Restaurants serving a cuisine",
                "parameters": [
                    {"name": "cuisineType", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/restaurants/{id}": {
            "get": {
                "tags": ["restaurants"],
                "summary": "Get a restaurant",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            },
            "put": {
                "tags": ["restaurants"],
                "summary": "Update a restaurant",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            },
            "delete": {
                "tags": ["restaurants"],
                "summary": "Delete a restaurant and its menu",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/restaurants/{id}/menu": {
            "post": {
                "tags": ["menu"],
                "summary": "Add a menu item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/menu": {
            "get": {
                "tags": ["menu"],
                "summary": "List menu items with filtering, sorting, select and paging",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/menu/featured": {
            "get": {
                "tags": ["menu"],
                "summary": "Featured in-stock items",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/menu/category/{category}": {
            "get": {
                "tags": ["menu"],
                "summary": "In-stock items of a category",
                "parameters": [
                    {"name": "category", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/menu/restaurant/{restaurantId}": {
            "get": {
                "tags": ["menu"],
                "summary": "In-stock menu of a restaurant",
                "parameters": [
                    {"name": "restaurantId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/menu/{id}": {
            "get": {
                "tags": ["menu"],
                "summary": "Get a menu item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            },
            "put": {
                "tags": ["menu"],
                "summary": "Update a menu item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            },
            "delete": {
                "tags": ["menu"],
                "summary": "Delete a menu item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a customer or restaurant account",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/logout": {
            "get": {
                "tags": ["auth"],
                "summary": "Log out and revoke the token",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/updatedetails": {
            "put": {
                "tags": ["auth"],
                "summary": "Update name, email, phone or addresses",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/updatepassword": {
            "put": {
                "tags": ["auth"],
                "summary": "Change password",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/documents/{kind}": {
            "put": {
                "tags": ["auth"],
                "summary": "Upload a verification document",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/auth/users/{id}/verification": {
            "put": {
                "tags": ["auth"],
                "summary": "Review a user's documents",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders": {
            "post": {
                "tags": ["orders"],
                "summary": "Place an order",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            },
            "get": {
                "tags": ["orders"],
                "summary": "Orders visible to the caller",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/{id}": {
            "get": {
                "tags": ["orders"],
                "summary": "Get an order",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/{id}/track": {
            "get": {
                "tags": ["orders"],
                "summary": "Track an order",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/{id}/status": {
            "put": {
                "tags": ["orders"],
                "summary": "Change order status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/{id}/cancel": {
            "put": {
                "tags": ["orders"],
                "summary": "Cancel an order",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/user/{userId}": {
            "get": {
                "tags": ["orders"],
                "summary": "Orders of a user",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/restaurant/{restaurantId}": {
            "get": {
                "tags": ["orders"],
                "summary": "Orders of a restaurant",
                "parameters": [
                    {"name": "restaurantId", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/restaurant/{restaurantId}/pending": {
            "get": {
                "tags": ["orders"],
                "summary": "Active orders of a restaurant",
                "parameters": [
                    {"name": "restaurantId", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/orders/restaurant/{restaurantId}/analytics": {
            "get": {
                "tags": ["orders"],
                "summary": "Order analytics of a restaurant",
                "parameters": [
                    {"name": "restaurantId", "in": "path", "required": true, "type": "string"}
                ],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        },
        "/state-machine": {
            "get": {
                "tags": ["system"],
                "summary": "Order status workflow",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Envelope"}}}
            }
        }
    },
    "definitions": {
        "handlers.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "token": {"type": "string"},
                "data": {},
                "count": {"type": "integer"},
                "pagination": {"type": "object"},
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "FoodRunner API",
	Description:      "Restaurants, menus and order lifecycle for a food delivery service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
