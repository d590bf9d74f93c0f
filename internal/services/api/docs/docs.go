// Package docs holds the OpenAPI document for the crimecast API; regenerate
// with `swag init --v3.1 -g cmd/crimecast-api/main.go -o internal/services/api/docs`
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/predictor/predict": {
            "post": {
                "tags": ["Predictor"],
                "summary": "Crime probability at a point for the four time segments of a day",
                "description": "Returns a GeoJSON FeatureCollection with one feature per segment (Night, Morning, Afternoon, Evening).",
                "requestBody": {
                    "description": "location, date and optional crime type",
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.PredictInput"}}}
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.PredictionCollection"}}}},
                    "400": {"description": "validation error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}},
                    "422": {"description": "invalid date", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}},
                    "503": {"description": "model unavailable", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}}
                }
            }
        },
        "/predictor/train": {
            "post": {
                "tags": ["Predictor"],
                "summary": "Start training a new model in the background",
                "responses": {
                    "202": {"description": "training started", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Status"}}}},
                    "409": {"description": "training already in progress", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}}
                }
            }
        },
        "/predictor/status": {
            "get": {
                "tags": ["Predictor"],
                "summary": "Predictor state and active model",
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Status"}}}}
                }
            }
        },
        "/predictor/hotspots": {
            "get": {
                "tags": ["Predictor"],
                "summary": "Hotspot centres of the active model",
                "responses": {
                    "200": {"description": "GeoJSON FeatureCollection", "content": {"application/json": {"schema": {"type": "object", "additionalProperties": {}}}}},
                    "503": {"description": "model unavailable", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}}
                }
            }
        },
        "/predictor/models": {
            "get": {
                "tags": ["Predictor"],
                "summary": "Trained model versions, newest first",
                "parameters": [
                    {"name": "limit", "in": "query", "description": "max rows (default 50)", "schema": {"type": "integer"}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/domain.ModelInfo"}}}}},
                    "422": {"description": "bad limit", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}}
                }
            }
        },
        "/crimes/summary": {
            "get": {
                "tags": ["Crimes"],
                "summary": "Summary of the crime set the predictor trains on",
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Summary"}}}},
                    "503": {"description": "crime store unavailable", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {
                "tags": ["Meta"],
                "summary": "Health check",
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.HealthResponse"}}}}}
            }
        },
        "/meta/ready": {
            "get": {
                "tags": ["Meta"],
                "summary": "Readiness probe with storage checks",
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ReadyResponse"}}}}}
            }
        },
        "/meta/version": {
            "get": {
                "tags": ["Meta"],
                "summary": "Build and version info",
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/version.BuildInfo"}}}}}
            }
        },
        "/meta/service": {
            "get": {
                "tags": ["Meta"],
                "summary": "Service info and uptime",
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ServiceResponse"}}}}}
            }
        }
    },
    "components": {
        "schemas": {
            "domain.PredictInput": {
                "type": "object",
                "required": ["date", "latitude", "longitude"],
                "properties": {
                    "latitude": {"type": "number", "minimum": -90, "maximum": 90, "example": 41.8781},
                    "longitude": {"type": "number", "minimum": -180, "maximum": 180, "example": -87.6298},
                    "date": {"type": "string", "example": "2026-10-16"},
                    "crime_type": {"type": "string", "maxLength": 64, "example": "ROBBERY"}
                }
            },
            "domain.Factor": {
                "type": "object",
                "properties": {
                    "feature": {"type": "string", "example": "crime_density"},
                    "importance": {"type": "number", "example": 0.31}
                }
            },
            "domain.PredictionProperties": {
                "type": "object",
                "properties": {
                    "probability": {"type": "number", "example": 0.72},
                    "crime_type": {"type": "string", "example": "ALL"},
                    "radius": {"type": "integer", "example": 300},
                    "factors": {"type": "array", "items": {"$ref": "#/components/schemas/domain.Factor"}},
                    "address": {"type": "string"},
                    "time_of_day": {"type": "string", "example": "Evening"},
                    "model_version": {"type": "string", "example": "01927b3e-9c1a-7d2e-8f00-5a1b2c3d4e5f"}
                }
            },
            "domain.PointGeometry": {
                "type": "object",
                "properties": {
                    "type": {"type": "string", "example": "Point"},
                    "coordinates": {"type": "array", "items": {"type": "number"}}
                }
            },
            "domain.PredictionFeature": {
                "type": "object",
                "properties": {
                    "type": {"type": "string", "example": "Feature"},
                    "geometry": {"$ref": "#/components/schemas/domain.PointGeometry"},
                    "properties": {"$ref": "#/components/schemas/domain.PredictionProperties"}
                }
            },
            "domain.PredictionCollection": {
                "type": "object",
                "properties": {
                    "type": {"type": "string", "example": "FeatureCollection"},
                    "features": {"type": "array", "items": {"$ref": "#/components/schemas/domain.PredictionFeature"}}
                }
            },
            "domain.Params": {
                "type": "object",
                "properties": {
                    "hotspots": {"type": "integer"},
                    "trees": {"type": "integer"},
                    "seed": {"type": "integer"},
                    "max_depth": {"type": "integer"},
                    "negative_ratio": {"type": "integer"},
                    "negative_min_km": {"type": "number"},
                    "negative_attempts": {"type": "integer"},
                    "target": {"type": "string"}
                }
            },
            "domain.ModelInfo": {
                "type": "object",
                "properties": {
                    "version": {"type": "string", "example": "01927b3e-9c1a-7d2e-8f00-5a1b2c3d4e5f"},
                    "name": {"type": "string", "example": "crime-hotspot-rf"},
                    "algorithm": {"type": "string", "example": "random_forest"},
                    "params": {"$ref": "#/components/schemas/domain.Params"},
                    "accuracy": {"type": "number", "example": 0.91},
                    "is_active": {"type": "boolean", "example": true},
                    "trained_at": {"type": "string", "example": "2026-10-16T10:00:00Z"},
                    "positives": {"type": "integer", "example": 1200},
                    "negatives": {"type": "integer", "example": 2400},
                    "path": {"type": "string"}
                }
            },
            "domain.Status": {
                "type": "object",
                "properties": {
                    "state": {"type": "string", "example": "trained"},
                    "active_version": {"type": "string", "example": "01927b3e-9c1a-7d2e-8f00-5a1b2c3d4e5f"},
                    "trained_at": {"type": "string"},
                    "training_since": {"type": "string"},
                    "last_error": {"type": "string"}
                }
            },
            "domain.CategoryCount": {
                "type": "object",
                "properties": {
                    "category": {"type": "string", "example": "THEFT"},
                    "count": {"type": "integer", "example": 120}
                }
            },
            "domain.Summary": {
                "type": "object",
                "properties": {
                    "total": {"type": "integer"},
                    "with_location": {"type": "integer"},
                    "violent": {"type": "integer"},
                    "first": {"type": "string"},
                    "last": {"type": "string"},
                    "categories": {"type": "array", "items": {"$ref": "#/components/schemas/domain.CategoryCount"}}
                }
            },
            "httpkit.Envelope": {
                "type": "object",
                "properties": {
                    "status_code": {"type": "integer"},
                    "status": {"type": "string"},
                    "code": {"type": "integer"},
                    "kind": {"type": "string"},
                    "error": {"type": "string"},
                    "field": {"type": "string"},
                    "request_id": {"type": "string"},
                    "data": {}
                }
            },
            "http.HealthResponse": {
                "type": "object",
                "properties": {
                    "ok": {"type": "boolean", "example": true},
                    "service": {"type": "string", "example": "crimecast-api"},
                    "started": {"type": "string", "example": "2026-10-16T09:00:00Z"},
                    "now": {"type": "string", "example": "2026-10-16T09:05:00Z"}
                }
            },
            "http.ReadyCheck": {
                "type": "object",
                "properties": {
                    "name": {"type": "string", "example": "pg"},
                    "status": {"type": "string", "example": "ok"},
                    "error": {"type": "string"}
                }
            },
            "http.ReadyResponse": {
                "type": "object",
                "properties": {
                    "status": {"type": "string", "example": "ok"},
                    "checks": {"type": "array", "items": {"$ref": "#/components/schemas/http.ReadyCheck"}},
                    "now": {"type": "string"}
                }
            },
            "http.ServiceResponse": {
                "type": "object",
                "properties": {
                    "name": {"type": "string", "example": "crimecast-api"},
                    "started": {"type": "string"},
                    "uptime": {"type": "integer", "example": 300}
                }
            },
            "version.BuildInfo": {
                "type": "object",
                "properties": {
                    "service": {"type": "string"},
                    "version": {"type": "string"},
                    "commit": {"type": "string"},
                    "date": {"type": "string"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "Crimecast API",
	Description:      "Crime hotspot prediction over historical crime records",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
