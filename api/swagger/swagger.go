package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Escolinha API",
        "description": "Administration API for a multi-branch youth football academy",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "SessionCookie": {"type": "apiKey", "name": "escolinha_session", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login realms and session"},
        {"name": "Alunos", "description": "Student registry"},
        {"name": "Financeiro", "description": "Payments, billing status and statements"},
        {"name": "Cadastros", "description": "Branches, managers, coaches, classes and plans"},
        {"name": "Notificacoes", "description": "Guardian notifications"},
        {"name": "Portal", "description": "Guardian self-service portal"},
        {"name": "Admin", "description": "Operational endpoints"}
    ],
    "paths": {
        "/admin/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Administrator login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/unidade/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Branch manager login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/responsavel/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Guardian portal login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "End the current session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current principal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/alunos": {
            "get": {
                "tags": ["Alunos"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "filialId", "in": "query", "type": "integer"},
                    {"name": "turmaId", "in": "query", "type": "integer"},
                    {"name": "ativo", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Alunos"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AlunoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate CPF", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/alunos/{id}": {
            "get": {
                "tags": ["Alunos"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Alunos"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AlunoRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Alunos"],
                "summary": "Deactivate student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/alunos-completo": {
            "post": {
                "tags": ["Alunos"],
                "summary": "Create guardian and student together",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AlunoCompletoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/alunos/{id}/status-financeiro": {
            "get": {
                "tags": ["Financeiro"],
                "summary": "Billing status of a student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/alunos/{id}/extrato": {
            "get": {
                "tags": ["Financeiro"],
                "summary": "Monthly statement of a student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/alunos/{id}/extrato/export": {
            "get": {
                "tags": ["Financeiro"],
                "summary": "Download the statement as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/alunos/{id}/foto": {
            "post": {
                "tags": ["Alunos"],
                "summary": "Upload student photo",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "foto", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pagamentos": {
            "get": {
                "tags": ["Financeiro"],
                "summary": "List payments",
                "parameters": [
                    {"name": "alunoId", "in": "query", "type": "integer"},
                    {"name": "mesReferencia", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Financeiro"],
                "summary": "Register payment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PagamentoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pagamentos/lote": {
            "post": {
                "tags": ["Financeiro"],
                "summary": "Register one payment per month",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchPagamentoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Month already paid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/financeiro/inadimplentes": {
            "get": {
                "tags": ["Financeiro"],
                "summary": "Students with overdue months",
                "parameters": [{"name": "filialId", "in": "query", "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planos-financeiros": {
            "get": {
                "tags": ["Cadastros"],
                "summary": "List financial plans",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/filiais": {
            "get": {
                "tags": ["Cadastros"],
                "summary": "List branches",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificacoes/enviar-todos": {
            "post": {
                "tags": ["Notificacoes"],
                "summary": "Notify every active guardian",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BroadcastRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificacoes/enviar-inadimplentes": {
            "post": {
                "tags": ["Notificacoes"],
                "summary": "Notify guardians of students in arrears",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BroadcastRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/responsavel/me": {
            "get": {
                "tags": ["Portal"],
                "summary": "Guardian profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/responsavel/alunos": {
            "get": {
                "tags": ["Portal"],
                "summary": "Students of the logged-in guardian",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/responsavel/notificacoes": {
            "get": {
                "tags": ["Portal"],
                "summary": "Guardian inbox",
                "parameters": [{"name": "naoLidas", "in": "query", "type": "boolean"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": ["Admin"],
                "summary": "Aggregated runtime and business counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "senha": {"type": "string"}
            },
            "required": ["email", "senha"]
        },
        "AlunoRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "cpf": {"type": "string"},
                "dataNascimento": {"type": "string", "format": "date"},
                "dataMatricula": {"type": "string", "format": "date"},
                "telefone": {"type": "string"},
                "email": {"type": "string"},
                "endereco": {"type": "string"},
                "filialId": {"type": "integer"},
                "responsavelId": {"type": "integer"},
                "turmaId": {"type": "integer"}
            },
            "required": ["nome"]
        },
        "ResponsavelRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "cpf": {"type": "string"},
                "telefone": {"type": "string"},
                "endereco": {"type": "string"},
                "senha": {"type": "string"}
            },
            "required": ["nome", "email", "cpf"]
        },
        "AlunoCompletoRequest": {
            "type": "object",
            "properties": {
                "aluno": {"$ref": "#/definitions/AlunoRequest"},
                "responsavel": {"$ref": "#/definitions/ResponsavelRequest"}
            }
        },
        "PagamentoRequest": {
            "type": "object",
            "properties": {
                "alunoId": {"type": "integer"},
                "valor": {"type": "string"},
                "mesReferencia": {"type": "string", "example": "2024-03"},
                "dataPagamento": {"type": "string", "format": "date"},
                "formaPagamento": {"type": "string", "enum": ["dinheiro", "pix", "cartao_credito", "cartao_debito", "boleto", "transferencia"]},
                "observacao": {"type": "string"}
            },
            "required": ["alunoId", "valor", "mesReferencia", "dataPagamento", "formaPagamento"]
        },
        "BatchPagamentoRequest": {
            "type": "object",
            "properties": {
                "alunoId": {"type": "integer"},
                "meses": {"type": "array", "items": {"type": "string"}},
                "valor": {"type": "string"},
                "dataPagamento": {"type": "string", "format": "date"},
                "formaPagamento": {"type": "string"},
                "observacao": {"type": "string"}
            },
            "required": ["alunoId", "meses", "valor", "dataPagamento", "formaPagamento"]
        },
        "BroadcastRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "mensagem": {"type": "string"},
                "tipo": {"type": "string"}
            },
            "required": ["titulo", "mensagem"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
