// Package docs holds the generated swagger documentation. Regenerate with
// `swag init -g cmd/signd/docs.go -o docs` after changing API annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "signd maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "summary": "Service metadata",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.ServiceInfo"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Health check reflecting model load state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.HealthResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    }
                }
            }
        },
        "/labels": {
            "get": {
                "produces": ["application/json"],
                "summary": "Ordered class label listing",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.LabelsResponse"}
                    }
                }
            }
        },
        "/predict": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Classify an uploaded traffic sign image",
                "parameters": [
                    {
                        "type": "file",
                        "name": "file",
                        "description": "Image to classify (JPEG, PNG, GIF)",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.PredictResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    },
                    "413": {
                        "description": "Request Entity Too Large",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    }
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Runtime status and counters",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.StatusResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "types.ServiceInfo": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Traffic Sign Classification API"},
                "version": {"type": "string", "example": "1.0.0"},
                "endpoints": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "model_loaded": {"type": "boolean", "example": true},
                "model_path": {"type": "string", "example": "/models/traffic_sign_model.onnx"}
            }
        },
        "types.Prediction": {
            "type": "object",
            "properties": {
                "class_id": {"type": "integer", "example": 14},
                "label": {"type": "string", "example": "Stop"},
                "confidence": {"type": "number", "example": 0.98}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "prediction": {"$ref": "#/definitions/types.Prediction"},
                "top_predictions": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/types.Prediction"}
                },
                "filename": {"type": "string", "example": "stop_sign.jpg"}
            }
        },
        "types.LabelsResponse": {
            "type": "object",
            "properties": {
                "total_classes": {"type": "integer", "example": 43},
                "labels": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "ready"},
                "model_id": {"type": "string", "example": "traffic_sign_model.onnx"},
                "model_path": {"type": "string"},
                "last_error": {"type": "string"},
                "class_count": {"type": "integer", "example": 43},
                "top_k": {"type": "integer", "example": 3},
                "predictions_total": {"type": "integer", "example": 120},
                "failures_total": {"type": "integer", "example": 2},
                "uptime_seconds": {"type": "integer", "example": 3600},
                "server_time_unix": {"type": "integer", "example": 1700000000}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "undecodable image payload"},
                "code": {"type": "integer", "example": 400}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "signd API",
	Description:      "HTTP API for traffic sign image classification.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
