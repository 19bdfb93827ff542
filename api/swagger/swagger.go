package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CT Dispatch API",
        "description": "Time-lane dispatch board backend: render model, drag-and-drop rescheduling, resizing, day-sheet exports",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Console user sessions"},
        {"name": "Dispatch", "description": "Board render model and gestures"},
        {"name": "Appointments", "description": "Appointment CRUD"},
        {"name": "Subcontractors", "description": "Board row owners"},
        {"name": "Exports", "description": "Printable day sheets"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate console user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dispatch/board": {
            "get": {
                "tags": ["Dispatch"],
                "summary": "Dispatch board for one day",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "description": "YYYY-MM-DD, defaults to today"},
                    {"name": "subcontractor_ids", "in": "query", "type": "string", "description": "Comma-separated row filter"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dispatch/appointments/{id}/drop": {
            "post": {
                "tags": ["Dispatch"],
                "summary": "Commit a drag-and-drop reschedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DropRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Appointment not found"}
                }
            }
        },
        "/dispatch/appointments/{id}/resize": {
            "post": {
                "tags": ["Dispatch"],
                "summary": "Commit a trailing-edge resize",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResizeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Appointment not found"}
                }
            }
        },
        "/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List appointments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subcontractor_ids", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Create appointment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointments/{id}": {
            "get": {
                "tags": ["Appointments"],
                "summary": "Get appointment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Appointments"],
                "summary": "Patch appointment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAppointmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Appointments"],
                "summary": "Delete appointment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subcontractors": {
            "get": {
                "tags": ["Subcontractors"],
                "summary": "List subcontractors with board colors",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subcontractors"],
                "summary": "Register subcontractor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubcontractorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subcontractors/{id}": {
            "get": {
                "tags": ["Subcontractors"],
                "summary": "Get subcontractor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Subcontractors"],
                "summary": "Patch subcontractor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubcontractorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/daysheet": {
            "post": {
                "tags": ["Exports"],
                "summary": "Generate a day sheet",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a day sheet via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "DropRequest": {
            "type": "object",
            "properties": {
                "subcontractor_id": {"type": "string"},
                "date": {"type": "string"},
                "target_hour": {"type": "number"}
            },
            "required": ["subcontractor_id", "date"]
        },
        "ResizeRequest": {
            "type": "object",
            "properties": {
                "pointer_delta_px": {"type": "number"},
                "pixels_per_hour": {"type": "number"}
            },
            "required": ["pixels_per_hour"]
        },
        "CreateAppointmentRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "subcontractor_id": {"type": "string"},
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "status": {"type": "string"},
                "all_day": {"type": "boolean"},
                "notes": {"type": "string"}
            },
            "required": ["title", "subcontractor_id", "start_at", "end_at"]
        },
        "UpdateAppointmentRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "subcontractor_id": {"type": "string"},
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "status": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "CreateSubcontractorRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "sort_order": {"type": "integer"}
            },
            "required": ["name"]
        },
        "UpdateSubcontractorRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "active": {"type": "boolean"},
                "sort_order": {"type": "integer"}
            }
        },
        "GenerateExportRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "subcontractor_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["date", "format"]
        },
        "BoardEvent": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "left_pct": {"type": "number"},
                "width_pct": {"type": "number"},
                "top_px": {"type": "integer"},
                "layer": {"type": "integer"},
                "span": {"type": "string", "enum": ["single", "start", "middle", "end"]},
                "status": {"type": "string"},
                "color_class": {"type": "string"},
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "resizable": {"type": "boolean"}
            }
        },
        "BoardRow": {
            "type": "object",
            "properties": {
                "subcontractor_id": {"type": "string"},
                "subcontractor_name": {"type": "string"},
                "color_class": {"type": "string"},
                "row_height_px": {"type": "integer"},
                "layer_count": {"type": "integer"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/BoardEvent"}}
            }
        },
        "BoardResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "start_hour": {"type": "integer"},
                "end_hour": {"type": "integer"},
                "snap_minutes": {"type": "integer"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/BoardRow"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
