// Package docs holds the OpenAPI document served under /swagger.
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
        "/detect-face": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["posters"],
                "summary": "Detect the face in a photo",
                "parameters": [
                    {"type": "file", "description": "Photo", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.FaceSuccessResponse"}},
                    "400": {"description": "Missing file", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Face service failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Face detection is not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/events": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create a new event",
                "parameters": [
                    {"description": "Event to create", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Event created successfully", "schema": {"$ref": "#/definitions/handlers.EventSuccessResponse"}},
                    "400": {"description": "Bad request if input is invalid", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing or invalid organizer token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/events/{code}/template": {
            "get": {
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Fetch an event template",
                "parameters": [
                    {"type": "string", "description": "Event code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TemplateSuccessResponse"}},
                    "404": {"description": "Unknown event code", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/events/{code}/preview": {
            "get": {
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Resolve a template for a preview",
                "parameters": [
                    {"type": "string", "description": "Event code", "name": "code", "in": "path", "required": true},
                    {"type": "integer", "default": 1080, "description": "Viewport edge in pixels", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PreviewSuccessResponse"}},
                    "400": {"description": "Invalid size", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown event code", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/events/{code}/posters": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["image/jpeg"],
                "tags": ["posters"],
                "summary": "Generate a personalized poster",
                "parameters": [
                    {"type": "string", "description": "Event code", "name": "code", "in": "path", "required": true},
                    {"type": "file", "description": "Attendee photo", "name": "photo", "in": "formData", "required": true},
                    {"type": "string", "description": "Attendee name", "name": "name", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Rendered poster", "schema": {"type": "file"}},
                    "400": {"description": "Missing photo", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown event code", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Event has no background yet", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Photo too large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Photo or background is not a readable image", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Render queue is full", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "504": {"description": "Render timed out", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/template": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Replace an event template",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "id", "in": "path", "required": true},
                    {"description": "Template document", "name": "template", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Template"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SavedTemplateSuccessResponse"}},
                    "400": {"description": "Malformed JSON or event id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Template could not be saved", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/template/slots/{slot}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Move, resize or restyle a slot",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "id", "in": "path", "required": true},
                    {"enum": ["photo", "text"], "type": "string", "description": "Slot", "name": "slot", "in": "path", "required": true},
                    {"description": "Slot edit", "name": "edit", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SavedTemplateSuccessResponse"}},
                    "400": {"description": "Invalid edit", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Template could not be saved", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/events/{id}/background": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Upload an event background",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "Background image", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BackgroundSuccessResponse"}},
                    "400": {"description": "Missing file", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "File is not a readable image", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.CreateEventRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 120}
            }
        },
        "handlers.UpdateSlotRequest": {
            "type": "object",
            "required": ["viewport_width", "viewport_height"],
            "properties": {
                "viewport_width": {"type": "number"},
                "viewport_height": {"type": "number"},
                "center_x": {"type": "number"},
                "center_y": {"type": "number"},
                "width": {"type": "number"},
                "height": {"type": "number"},
                "shape": {"type": "string", "enum": ["circle", "square"]},
                "content": {"type": "string", "maxLength": 40},
                "font": {"type": "string"},
                "color": {"type": "string"},
                "font_size_px": {"type": "number"}
            }
        },
        "handlers.EventSuccessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {"$ref": "#/definitions/models.Event"}
            }
        },
        "handlers.TemplateSuccessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {
                    "type": "object",
                    "properties": {
                        "event_id": {"type": "string"},
                        "event_code": {"type": "string"},
                        "template": {"$ref": "#/definitions/models.Template"},
                        "background_resolved_url": {"type": "string", "x-nullable": true}
                    }
                }
            }
        },
        "handlers.PreviewSuccessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {
                    "type": "object",
                    "properties": {
                        "event_code": {"type": "string"},
                        "layout": {"$ref": "#/definitions/geometry.Layout"},
                        "background_resolved_url": {"type": "string", "x-nullable": true}
                    }
                }
            }
        },
        "handlers.SavedTemplateSuccessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {
                    "type": "object",
                    "properties": {
                        "event_id": {"type": "string"},
                        "template": {"$ref": "#/definitions/models.Template"},
                        "layout": {"$ref": "#/definitions/geometry.Layout"},
                        "repairs": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        },
        "handlers.BackgroundSuccessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {
                    "type": "object",
                    "properties": {
                        "event_id": {"type": "string"},
                        "background_path": {"type": "string"},
                        "template": {"$ref": "#/definitions/models.Template"}
                    }
                }
            }
        },
        "handlers.FaceSuccessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {
                    "type": "object",
                    "properties": {
                        "found": {"type": "boolean"},
                        "face": {
                            "type": "object",
                            "properties": {
                                "x": {"type": "number"},
                                "y": {"type": "number"},
                                "w": {"type": "number"},
                                "h": {"type": "number"}
                            }
                        }
                    }
                }
            }
        },
        "models.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "template": {"$ref": "#/definitions/models.Template"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.Template": {
            "type": "object",
            "properties": {
                "canvas": {
                    "type": "object",
                    "properties": {"width": {"type": "number"}, "height": {"type": "number"}}
                },
                "background": {
                    "type": "object",
                    "properties": {"url": {"type": "string"}}
                },
                "photo": {
                    "type": "object",
                    "properties": {
                        "x": {"type": "number"},
                        "y": {"type": "number"},
                        "size": {"type": "number"},
                        "shape": {"type": "string", "enum": ["circle", "square"]}
                    }
                },
                "text": {
                    "type": "object",
                    "properties": {
                        "x": {"type": "number"},
                        "y": {"type": "number"},
                        "w": {"type": "number"},
                        "h": {"type": "number"},
                        "content": {"type": "string"},
                        "font": {"type": "string"},
                        "color": {"type": "string"},
                        "size": {"type": "number"}
                    }
                }
            }
        },
        "geometry.Rect": {
            "type": "object",
            "properties": {
                "center_x": {"type": "number"},
                "center_y": {"type": "number"},
                "width": {"type": "number"},
                "height": {"type": "number"}
            }
        },
        "geometry.Layout": {
            "type": "object",
            "properties": {
                "canvas": {
                    "type": "object",
                    "properties": {"width": {"type": "number"}, "height": {"type": "number"}}
                },
                "photo": {"$ref": "#/definitions/geometry.Rect"},
                "shape": {"type": "string"},
                "corner_radius": {"type": "number"},
                "text": {"$ref": "#/definitions/geometry.Rect"},
                "font_size": {"type": "number"}
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VibraFrame API",
	Description:      "Event poster templates and personalized poster generation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
