// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Create an account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for a bearer token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/profile": {
            "get": {"tags": ["profile"], "security": [{"BearerAuth": []}], "summary": "Current profile with its daily kcal target", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["profile"], "security": [{"BearerAuth": []}], "summary": "Create or replace the profile", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/intake/entries": {"post": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Log a food intake", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/intake/entries/{id}": {
            "put": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Change the units of an entry", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Remove an entry", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/intake/days": {"get": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Logs for a list or range of days", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/intake/days/{date}": {"get": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Log of one day", "parameters": [{"name": "date", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/intake/days/{date}/reset": {"post": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Clear a day", "parameters": [{"name": "date", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/intake/days/{date}/undo": {"post": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Drop the last entry of a day", "parameters": [{"name": "date", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/intake/sync": {"get": {"tags": ["intake"], "security": [{"BearerAuth": []}], "summary": "Days changed since a timestamp", "responses": {"200": {"description": "OK"}}}},
        "/stats/weekly": {"get": {"tags": ["stats"], "security": [{"BearerAuth": []}], "summary": "Summary of a window of days", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/stats/weekly/snapshot": {"get": {"tags": ["stats"], "security": [{"BearerAuth": []}], "summary": "Last persisted weekly summary", "responses": {"200": {"description": "OK"}}}},
        "/stats/streaks": {"get": {"tags": ["stats"], "security": [{"BearerAuth": []}], "summary": "Current and longest streak", "responses": {"200": {"description": "OK"}}}},
        "/stats/calendar": {"get": {"tags": ["stats"], "security": [{"BearerAuth": []}], "summary": "Month grid with day statuses", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso Kcal API",
	Description:      "Calorie intake logging with streaks and weekly compliance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
