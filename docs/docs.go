// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Welcome",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.MessageBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Dependency status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.StatusResponse"}}
                }
            }
        },
        "/api/notes": {
            "get": {
                "description": "All records newest first. Filters are exact matches; page and page_size paginate when both are given.",
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "List notes",
                "parameters": [
                    {"type": "string", "description": "year", "name": "year", "in": "query"},
                    {"type": "string", "description": "subject", "name": "subject", "in": "query"},
                    {"type": "string", "description": "course", "name": "course", "in": "query"},
                    {"type": "string", "description": "document type", "name": "type", "in": "query"},
                    {"type": "string", "description": "folder", "name": "folder", "in": "query"},
                    {"type": "integer", "description": "page, 1-based", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size, at most 500", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/database.Note"}},
                        "headers": {"X-Total-Count": {"type": "integer", "description": "number of matching records"}}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "post": {
                "description": "Stores the file in the object store and creates its record.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Upload a note",
                "parameters": [
                    {"type": "file", "description": "document", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "title", "name": "title", "in": "formData"},
                    {"type": "string", "description": "year", "name": "year", "in": "formData", "required": true},
                    {"type": "string", "description": "subject", "name": "subject", "in": "formData", "required": true},
                    {"type": "string", "description": "course", "name": "course", "in": "formData", "required": true},
                    {"type": "string", "description": "document type", "name": "type", "in": "formData", "required": true},
                    {"type": "string", "description": "object store folder", "name": "folder", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/database.Note"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/notes/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Get a note",
                "parameters": [{"type": "integer", "description": "note id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/database.Note"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "put": {
                "description": "Partial update of title, fileUrl, year, subject, course, type and folder. Other fields are rejected.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Update a note",
                "parameters": [
                    {"type": "integer", "description": "note id", "name": "id", "in": "path", "required": true},
                    {"description": "fields to change", "name": "note", "in": "body", "required": true, "schema": {"$ref": "#/definitions/note.UpdateNoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/database.Note"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Delete a note",
                "parameters": [{"type": "integer", "description": "note id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.MessageBody"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Upload a note (legacy)",
                "parameters": [
                    {"type": "file", "description": "document", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "year", "name": "year", "in": "formData", "required": true},
                    {"type": "string", "description": "subject", "name": "subject", "in": "formData", "required": true},
                    {"type": "string", "description": "course", "name": "course", "in": "formData", "required": true},
                    {"type": "string", "description": "document type", "name": "type", "in": "formData", "required": true},
                    {"type": "string", "description": "object store folder", "name": "folder", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LegacyUploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/storage/files": {
            "get": {
                "description": "Reads the object store listing page by page up to the configured bound. When truncated, pass next_cursor back as cursor to continue.",
                "produces": ["application/json"],
                "tags": ["storage"],
                "summary": "List stored files",
                "parameters": [{"type": "string", "description": "resume cursor", "name": "cursor", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/oss.Listing"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/resources": {
            "get": {
                "description": "pdf and docx files grouped by section and top level folder, with display names.",
                "produces": ["application/json"],
                "tags": ["storage"],
                "summary": "Browse resources",
                "parameters": [{"type": "string", "description": "resume cursor", "name": "cursor", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ResourcesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "database.Note": {
            "description": "uploaded file metadata",
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "title": {"type": "string", "example": "Data Structures Unit 1"},
                "fileUrl": {"type": "string", "example": "https://res.cloudinary.com/demo/raw/upload/v1/Notes/2023/ds.pdf"},
                "publicId": {"type": "string", "example": "Notes/2023/ds.pdf"},
                "year": {"type": "string", "example": "2023"},
                "subject": {"type": "string", "example": "Data Structures"},
                "course": {"type": "string", "example": "BCA"},
                "type": {"type": "string", "example": "notes"},
                "folder": {"type": "string", "example": "Notes/2023"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "note.UpdateNoteRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "fileUrl": {"type": "string"},
                "year": {"type": "string"},
                "subject": {"type": "string"},
                "course": {"type": "string"},
                "type": {"type": "string"},
                "folder": {"type": "string"}
            }
        },
        "oss.Object": {
            "description": "object store entry",
            "type": "object",
            "properties": {
                "public_id": {"type": "string", "example": "Notes/2023/data_structures-notes.pdf"},
                "url": {"type": "string"},
                "created_at": {"type": "string"},
                "folder": {"type": "string", "example": "Notes/2023"}
            }
        },
        "oss.Listing": {
            "description": "object store listing",
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"$ref": "#/definitions/oss.Object"}},
                "next_cursor": {"type": "string"},
                "truncated": {"type": "boolean"}
            }
        },
        "catalog.Entry": {
            "description": "catalog entry",
            "type": "object",
            "properties": {
                "public_id": {"type": "string"},
                "url": {"type": "string"},
                "created_at": {"type": "string"},
                "extension": {"type": "string", "example": "PDF"},
                "displayName": {"type": "string", "example": "Data Structures Notes"},
                "originalName": {"type": "string", "example": "data_structures-notes.pdf"}
            }
        },
        "catalog.Group": {
            "description": "catalog folder",
            "type": "object",
            "properties": {
                "folder": {"type": "string", "example": "Notes"},
                "files": {"type": "array", "items": {"$ref": "#/definitions/catalog.Entry"}}
            }
        },
        "handler.ResourcesResponse": {
            "description": "grouped resources",
            "type": "object",
            "properties": {
                "notes": {"type": "array", "items": {"$ref": "#/definitions/catalog.Group"}},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/catalog.Group"}},
                "next_cursor": {"type": "string"},
                "truncated": {"type": "boolean"}
            }
        },
        "handler.LegacyUploadResponse": {
            "type": "object",
            "properties": {
                "msg": {"type": "string", "example": "File uploaded successfully"},
                "file": {"$ref": "#/definitions/database.Note"}
            }
        },
        "handler.ComponentStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "error": {"type": "string"}
            }
        },
        "handler.StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "version": {"type": "string", "example": "1.0.0"},
                "provider": {"type": "string", "example": "cloudinary"},
                "database": {"$ref": "#/definitions/handler.ComponentStatus"},
                "storage": {"$ref": "#/definitions/handler.ComponentStatus"}
            }
        },
        "response.ErrorBody": {
            "description": "error response body",
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "fail"},
                "message": {"type": "string", "example": "Note not found"},
                "fields": {"type": "array", "items": {"type": "string"}},
                "request_id": {"type": "string"}
            }
        },
        "response.MessageBody": {
            "description": "message response body",
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Note deleted successfully"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "College Notes API",
	Description:      "Shared notes and question papers: uploads are stored in a cloud object store and described by metadata records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
