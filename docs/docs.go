// Package docs registers the swagger document of the HTTP relay.
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
                "summary": "registrar state and redis reachability",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.ResponseEntry"}}
                }
            }
        },
        "/v1/apns/device_token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "relay the device token the platform issued",
                "parameters": [
                    {
                        "description": "hex or base64 device token",
                        "name": "req",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.DeviceTokenReq"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ResponseEntry"}}
                }
            }
        },
        "/v1/apns/notification": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "relay a notification the platform delivered",
                "parameters": [
                    {
                        "description": "raw APNs payload",
                        "name": "req",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ResponseEntry"}}
                }
            }
        },
        "/v1/tokens": {
            "get": {
                "produces": ["application/json"],
                "summary": "cached and live token pair",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResponseEntry"}}
                }
            }
        },
        "/v1/topics/subscribe": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "subscribe this installation to a topic",
                "parameters": [
                    {
                        "description": "topic",
                        "name": "req",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.TopicReq"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ResponseEntry"}}
                }
            }
        },
        "/v1/topics/unsubscribe": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "unsubscribe this installation from a topic",
                "parameters": [
                    {
                        "description": "topic",
                        "name": "req",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.TopicReq"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ResponseEntry"}}
                }
            }
        },
        "/v1/test_push/{type}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "send one push to this installation's own cached token",
                "parameters": [
                    {
                        "type": "string",
                        "description": "apple or firebase",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "message",
                        "name": "req",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.PushMessage"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ResponseEntry"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.ResponseEntry"}}
                }
            }
        }
    },
    "definitions": {
        "api.ResponseEntry": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "timestamp": {"type": "integer"}
            }
        },
        "handler.DeviceTokenReq": {
            "type": "object",
            "properties": {
                "device_token": {"type": "string"}
            }
        },
        "handler.TopicReq": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"}
            }
        },
        "models.PushMessage": {
            "type": "object",
            "properties": {
                "body": {"type": "string"},
                "data": {"type": "object", "additionalProperties": {"type": "string"}},
                "title": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:         "1.0",
	Host:            "",
	BasePath:        "/",
	Schemes:         []string{},
	Title:           "fcm-bridge",
	Description:     "Relays APNs registration into FCM tokens and topics.",
	SwaggerTemplate: docTemplate,
}

func init() {
	swag.Register(swag.Name, SwaggerInfo)
}
