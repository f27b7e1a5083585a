// Package docs registers the OpenAPI description of /api/v1 with swag.
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
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange owner or student credentials for a bearer token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/students": {
            "get": {"tags": ["students"], "summary": "List students", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["students"],
                "summary": "Register a student; username and password are derived",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/NewStudent"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Student"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/students/{id}": {
            "patch": {"tags": ["students"], "summary": "Update a student", "security": [{"Bearer": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["students"], "summary": "Delete a student and their bookings", "security": [{"Bearer": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/students/{id}/payment": {
            "get": {"tags": ["payments"], "summary": "Monthly fee for a student", "security": [{"Bearer": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/bookings": {
            "get": {"tags": ["bookings"], "summary": "List bookings", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["bookings"], "summary": "Book a seat and shift", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Cell already booked"}}},
            "delete": {"tags": ["bookings"], "summary": "Free a seat and shift", "security": [{"Bearer": []}], "parameters": [{"in": "query", "name": "seat", "required": true, "type": "integer"}, {"in": "query", "name": "shift", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}}}
        },
        "/payments": {
            "get": {"tags": ["payments"], "summary": "List ledger entries", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["payments"], "summary": "Record a payment", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/attendance": {
            "get": {"tags": ["attendance"], "summary": "Attendance for a student and month", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["attendance"], "summary": "Mark attendance manually", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Current settings", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Change seats, rate or library location", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/state": {
            "get": {"tags": ["settings"], "summary": "Export the whole state document", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/me": {
            "get": {"tags": ["self"], "summary": "Signed-in student's bookings, due and attendance", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/me/checkin": {
            "post": {"tags": ["self"], "summary": "Check in with the library QR code", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Wrong code or out of range"}}}
        },
        "/me/checkout": {
            "post": {"tags": ["self"], "summary": "Close today's open time pair", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Nothing open"}}}
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "LoginRequest": {"type": "object", "required": ["loginType", "mobile", "password"], "properties": {"loginType": {"type": "string", "enum": ["owner", "student"]}, "mobile": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "role": {"type": "string"}, "studentId": {"type": "string"}}},
        "NewStudent": {"type": "object", "required": ["fullName", "fatherName", "address", "mobileNumber", "admissionDate"], "properties": {"fullName": {"type": "string"}, "fatherName": {"type": "string"}, "address": {"type": "string"}, "mobileNumber": {"type": "string"}, "admissionDate": {"type": "string", "example": "2024-03-01"}}},
        "Student": {"type": "object", "properties": {"id": {"type": "string"}, "fullName": {"type": "string"}, "fatherName": {"type": "string"}, "address": {"type": "string"}, "mobileNumber": {"type": "string"}, "admissionDate": {"type": "string"}, "userName": {"type": "string"}, "password": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Library Work Automate API",
	Description:      "Students, seat bookings, payments and attendance for a study library.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
