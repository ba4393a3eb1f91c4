// Package docs registra o documento OpenAPI servido em /swagger.
// Mantido à mão junto das anotações dos handlers.
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
        "/customers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Lista todos os clientes",
                "responses": {
                    "200": {"description": "Lista de clientes", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Customer"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Cria um novo cliente",
                "parameters": [
                    {"description": "Dados do cliente", "name": "customer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CustomerCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Cliente criado", "schema": {"$ref": "#/definitions/domain.Customer"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Email já cadastrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/customers/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Obtém um cliente por ID",
                "parameters": [{"type": "string", "description": "ID do Cliente", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Cliente encontrado", "schema": {"$ref": "#/definitions/domain.Customer"}},
                    "404": {"description": "Cliente não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Lista produtos",
                "parameters": [
                    {"type": "boolean", "description": "Somente produtos ativos", "name": "active_only", "in": "query"},
                    {"type": "boolean", "description": "Somente produtos com estoque baixo", "name": "low_stock", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Lista de produtos", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}}},
                    "400": {"description": "Filtro inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Cria um novo produto",
                "parameters": [
                    {"description": "Dados do produto", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ProductCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Produto criado", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Obtém um produto por ID",
                "parameters": [{"type": "string", "description": "ID do Produto", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Produto encontrado", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "404": {"description": "Produto não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/products/{id}/stock": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Ajusta o estoque de um produto",
                "parameters": [
                    {"type": "string", "description": "ID do Produto", "name": "id", "in": "path", "required": true},
                    {"description": "Delta e motivo", "name": "adjustment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.StockAdjustmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Ajuste aplicado", "schema": {"$ref": "#/definitions/domain.StockAdjustment"}},
                    "400": {"description": "Delta inválido ou estoque insuficiente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Produto não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Lista pedidos com as linhas",
                "parameters": [{"type": "string", "description": "DRAFT, CONFIRMED ou CANCELLED", "name": "status", "in": "query"}],
                "responses": {
                    "200": {"description": "Lista de pedidos", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.SalesOrder"}}},
                    "400": {"description": "Status inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Cria um pedido de venda (DRAFT)",
                "parameters": [
                    {"description": "Cliente e linhas do pedido", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.OrderCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Pedido criado", "schema": {"$ref": "#/definitions/domain.SalesOrder"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Cliente ou produto inexistente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Obtém um pedido com as linhas",
                "parameters": [{"type": "string", "description": "ID do Pedido", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Pedido encontrado", "schema": {"$ref": "#/definitions/domain.SalesOrder"}},
                    "404": {"description": "Pedido não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/confirm": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Confirma um pedido DRAFT e baixa o estoque",
                "parameters": [{"type": "string", "description": "ID do Pedido", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Pedido confirmado", "schema": {"$ref": "#/definitions/domain.OrderTransitionResult"}},
                    "400": {"description": "Estado inválido, estoque insuficiente ou pedido inexistente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/cancel": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Cancela um pedido CONFIRMED e devolve o estoque",
                "parameters": [{"type": "string", "description": "ID do Pedido", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Pedido cancelado", "schema": {"$ref": "#/definitions/domain.OrderTransitionResult"}},
                    "400": {"description": "Estado inválido ou pedido inexistente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Registra um novo usuário",
                "parameters": [
                    {"description": "Credenciais de registro (email e senha)", "name": "registration", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UserRegistration"}}
                ],
                "responses": {
                    "201": {"description": "Usuário criado", "schema": {"$ref": "#/definitions/domain.User"}},
                    "409": {"description": "Email já cadastrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Autentica um usuário",
                "parameters": [
                    {"description": "Email e senha", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token emitido", "schema": {"$ref": "#/definitions/user.LoginResponse"}},
                    "401": {"description": "Credenciais inválidas", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Customer": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "domain.CustomerCreateRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 255},
                "phone": {"type": "string", "maxLength": 50}
            }
        },
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "code": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "domain.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "domain.OrderCreateRequest": {
            "type": "object",
            "required": ["customer_id", "lines"],
            "properties": {
                "customer_id": {"type": "string"},
                "lines": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/domain.OrderLineRequest"}}
            }
        },
        "domain.OrderLineRequest": {
            "type": "object",
            "required": ["product_id", "quantity", "unit_price"],
            "properties": {
                "product_id": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 1, "maximum": 2147483647},
                "unit_price": {"type": "number", "minimum": 0, "maximum": 99999999.99}
            }
        },
        "domain.OrderTransitionResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "order_id": {"type": "string"},
                "status": {"type": "string", "enum": ["DRAFT", "CONFIRMED", "CANCELLED"]}
            }
        },
        "domain.Product": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "is_active": {"type": "boolean"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "stock_quantity": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.ProductCreateRequest": {
            "type": "object",
            "required": ["name", "price", "stock_quantity"],
            "properties": {
                "is_active": {"type": "boolean"},
                "name": {"type": "string", "maxLength": 255},
                "price": {"type": "number", "minimum": 0, "maximum": 99999999.99},
                "stock_quantity": {"type": "integer", "minimum": 0, "maximum": 2147483647}
            }
        },
        "domain.StockAdjustment": {
            "type": "object",
            "properties": {
                "delta": {"type": "integer"},
                "previous_quantity": {"type": "integer"},
                "product_id": {"type": "string"},
                "reason": {"type": "string"},
                "stock_quantity": {"type": "integer"}
            }
        },
        "domain.StockAdjustmentRequest": {
            "type": "object",
            "required": ["delta"],
            "properties": {
                "delta": {"type": "integer", "minimum": -2147483647, "maximum": 2147483647},
                "reason": {"type": "string", "maxLength": 255}
            }
        },
        "domain.SalesOrder": {
            "type": "object",
            "properties": {
                "customer_id": {"type": "string"},
                "id": {"type": "string"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/domain.SalesOrderLine"}},
                "order_date": {"type": "string"},
                "status": {"type": "string", "enum": ["DRAFT", "CONFIRMED", "CANCELLED"]},
                "total_amount": {"type": "number"}
            }
        },
        "domain.SalesOrderLine": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "line_no": {"type": "integer"},
                "line_total": {"type": "number"},
                "order_id": {"type": "string"},
                "product_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "number"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "role": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.UserRegistration": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "user.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        }
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
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Mini ERP API",
	Description:      "Produtos, clientes e pedidos de venda com baixa e devolução transacional de estoque.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
