package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Physics Learn API",
        "description": "Past question papers, chapter notes and the course catalog for the physics department",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Past Questions", "description": "Exam papers with parsed questions and bound figures"},
        {"name": "Chapter Notes", "description": "PDF notes attached to catalog chapters"},
        {"name": "Catalog", "description": "Subjects and chapters per year of study"},
        {"name": "Auth", "description": "Registration, login and token inspection"},
        {"name": "Site", "description": "Notices and articles"},
        {"name": "Admin", "description": "User management, content, settings, stats and exports"}
    ],
    "paths": {
        "/past-questions": {
            "get": {
                "tags": ["Past Questions"],
                "summary": "List published exam papers",
                "parameters": [
                    {"name": "subjectCode", "in": "query", "type": "string"},
                    {"name": "yearSlug", "in": "query", "type": "string", "enum": ["first", "second", "third", "fourth"]},
                    {"name": "examYear", "in": "query", "type": "string"},
                    {"name": "examType", "in": "query", "type": "string", "enum": ["midterm", "final", "internal", "practical", "other"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Past Questions"],
                "summary": "Create exam paper",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "X-Requested-With", "in": "header", "type": "string", "required": true},
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "subjectCode", "in": "formData", "type": "string", "required": true},
                    {"name": "yearSlug", "in": "formData", "type": "string", "required": true},
                    {"name": "examYear", "in": "formData", "type": "string", "required": true},
                    {"name": "examType", "in": "formData", "type": "string", "required": true},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "published", "in": "formData", "type": "boolean"},
                    {"name": "questionContent", "in": "formData", "type": "string"},
                    {"name": "questions", "in": "formData", "type": "string", "description": "JSON array of questions"},
                    {"name": "pdfUrl", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"},
                    {"name": "images", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Upload failed on every storage tier", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/past-questions/subject/{subjectCode}/{yearSlug}": {
            "get": {
                "tags": ["Past Questions"],
                "summary": "List every paper of a subject and year",
                "parameters": [
                    {"name": "subjectCode", "in": "path", "type": "string", "required": true},
                    {"name": "yearSlug", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/past-questions/{id}": {
            "get": {
                "tags": ["Past Questions"],
                "summary": "Get exam paper and count a download",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExamPaper"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Past Questions"],
                "summary": "Update exam paper",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "X-Requested-With", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Past Questions"],
                "summary": "Delete exam paper and its assets",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "X-Requested-With", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/past-questions/{id}/print": {
            "get": {
                "tags": ["Past Questions"],
                "summary": "Render the question sheet as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/chapter-notes": {
            "get": {
                "tags": ["Chapter Notes"],
                "summary": "List published chapter notes",
                "parameters": [
                    {"name": "yearSlug", "in": "query", "type": "string"},
                    {"name": "subjectCode", "in": "query", "type": "string"},
                    {"name": "chapterId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Chapter Notes"],
                "summary": "Create chapter note",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "subjectCode", "in": "formData", "type": "string", "required": true},
                    {"name": "yearSlug", "in": "formData", "type": "string", "required": true},
                    {"name": "chapterId", "in": "formData", "type": "string", "required": true},
                    {"name": "pdfUrl", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog subjects",
                "parameters": [
                    {"name": "yearSlug", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/chapters": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List published chapters",
                "parameters": [
                    {"name": "yearSlug", "in": "query", "type": "string"},
                    {"name": "subjectCode", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/years": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List academic years",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/years/{slug}/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the subjects of a year",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown year"}
                }
            }
        },
        "/subjects/{yearSlug}/{subjectCode}/info": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a subject by year and code",
                "parameters": [
                    {"name": "yearSlug", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Subject not found"}
                }
            }
        },
        "/subjects/{yearSlug}/{subjectCode}/units": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List units of a subject",
                "parameters": [
                    {"name": "yearSlug", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{yearSlug}/{subjectCode}/materials": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List materials of a subject",
                "parameters": [
                    {"name": "yearSlug", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/posts": {
            "get": {
                "tags": ["Site"],
                "summary": "List published posts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials"},
                    "429": {"description": "Too many attempts"}
                }
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "403": {"description": "Not an admin"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/past-questions/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the paper catalogue as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV attachment"}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Content and runtime counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/units": {
            "get": {
                "tags": ["Admin"],
                "summary": "List units",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "yearSlug", "in": "query", "type": "string"},
                    {"name": "subjectCode", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create a unit",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Unit code already used for the subject"}
                }
            }
        },
        "/admin/materials": {
            "get": {
                "tags": ["Admin"],
                "summary": "List materials",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "yearSlug", "in": "query", "type": "string"},
                    {"name": "subjectCode", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create a material",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/posts": {
            "get": {
                "tags": ["Admin"],
                "summary": "List posts including drafts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create a post",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/settings": {
            "get": {
                "tags": ["Admin"],
                "summary": "Read site settings",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update site settings",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ImageAsset": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "caption": {"type": "string"},
                "order": {"type": "integer"}
            }
        },
        "Question": {
            "type": "object",
            "properties": {
                "questionNumber": {"type": "string"},
                "content": {"type": "string"},
                "images": {"type": "array", "items": {"$ref": "#/definitions/ImageAsset"}}
            }
        },
        "ExamPaper": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "subjectCode": {"type": "string"},
                "yearSlug": {"type": "string"},
                "examYear": {"type": "string"},
                "examType": {"type": "string"},
                "questionContent": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/Question"}},
                "images": {"type": "array", "items": {"$ref": "#/definitions/ImageAsset"}},
                "pdfUrl": {"type": "string"},
                "pageCount": {"type": "integer"},
                "published": {"type": "boolean"},
                "downloadCount": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "user": {"type": "object"}
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
