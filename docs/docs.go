// Package docs отдаёт Swagger-описание HTTP API по /swagger/doc.json.
// Регистрируется в swag через пустой импорт в cmd/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["service"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/tournaments": {
            "get": {
                "tags": ["tournaments"],
                "summary": "List tournaments",
                "parameters": [
                    {"name": "field_id", "in": "query", "type": "integer"},
                    {"name": "creator_id", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["groups_then_knockout", "single_elimination", "round_robin"]},
                    {"name": "status", "in": "query", "type": "string", "enum": ["preparation", "registration_open", "registration_closed", "in_progress", "finished", "cancelled"]},
                    {"name": "limit", "in": "query", "type": "integer", "default": 20},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Tournament list"},
                    "400": {"description": "Invalid query parameter"}
                }
            },
            "post": {
                "tags": ["tournaments"],
                "summary": "Create a tournament",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Tournament created"},
                    "403": {"description": "Administrator role required"},
                    "409": {"description": "Name conflict for this creator"},
                    "422": {"description": "Validation failed"}
                }
            }
        },
        "/api/tournaments/{id}": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Tournament detail with participations, matches and standings",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Tournament detail"},
                    "404": {"description": "Tournament not found"}
                }
            },
            "put": {
                "tags": ["tournaments"],
                "summary": "Update tournament details",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Tournament updated"},
                    "403": {"description": "Only the creator or a super admin may update"},
                    "404": {"description": "Tournament not found"},
                    "422": {"description": "Validation failed"}
                }
            },
            "delete": {
                "tags": ["tournaments"],
                "summary": "Delete a tournament in preparation or cancelled state",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "204": {"description": "Tournament deleted"},
                    "404": {"description": "Tournament not found"},
                    "409": {"description": "Tournament is not deletable in its current state"}
                }
            }
        },
        "/api/tournaments/{id}/status": {
            "patch": {
                "tags": ["tournaments"],
                "summary": "Transition tournament status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Status changed"},
                    "404": {"description": "Tournament not found"},
                    "409": {"description": "Illegal status transition or no draw generated"}
                }
            }
        },
        "/api/tournaments/{id}/participations": {
            "get": {
                "tags": ["participations"],
                "summary": "List participations of a tournament",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "Participation list"},
                    "404": {"description": "Tournament not found"}
                }
            },
            "post": {
                "tags": ["participations"],
                "summary": "Request participation for a team (captain only)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "201": {"description": "Participation requested"},
                    "403": {"description": "Registration closed or caller is not the captain"},
                    "409": {"description": "Team already holds an active participation"}
                }
            }
        },
        "/api/participations/{id}/review": {
            "patch": {
                "tags": ["participations"],
                "summary": "Approve or reject a pending participation",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Participation reviewed"},
                    "404": {"description": "Participation not found"},
                    "409": {"description": "Already reviewed or tournament full"},
                    "422": {"description": "Unknown decision or missing rejection reason"}
                }
            }
        },
        "/api/tournaments/{id}/draw": {
            "post": {
                "tags": ["draw"],
                "summary": "Generate the draw and start the tournament",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Draw generated"},
                    "404": {"description": "Tournament not found"},
                    "409": {"description": "Draw not allowed in the current state"},
                    "422": {"description": "Not enough approved teams"}
                }
            }
        },
        "/api/tournaments/{id}/request-redraw": {
            "post": {
                "tags": ["draw"],
                "summary": "Issue a one-shot redraw confirmation token",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Redraw token issued"},
                    "404": {"description": "Tournament not found"},
                    "409": {"description": "Tournament is not in progress"}
                }
            }
        },
        "/api/tournaments/{id}/confirm-redraw": {
            "post": {
                "tags": ["draw"],
                "summary": "Confirm the redraw with a previously issued token",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Draw regenerated"},
                    "404": {"description": "Tournament not found"},
                    "410": {"description": "Token invalid or expired"}
                }
            }
        },
        "/api/tournaments/{id}/matches": {
            "get": {
                "tags": ["matches"],
                "summary": "List matches of a tournament",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "group", "in": "query", "type": "string"},
                    {"name": "round", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["scheduled", "played", "cancelled"]}
                ],
                "responses": {
                    "200": {"description": "Match list"},
                    "404": {"description": "Tournament not found"}
                }
            }
        },
        "/api/matches/{id}": {
            "get": {
                "tags": ["matches"],
                "summary": "Match by identifier",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Match"},
                    "404": {"description": "Match not found"}
                }
            }
        },
        "/api/matches/{id}/result": {
            "post": {
                "tags": ["matches"],
                "summary": "Record a match result",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Result recorded"},
                    "404": {"description": "Match not found"},
                    "409": {"description": "Match already played"},
                    "422": {"description": "Invalid score or knockout draw"}
                }
            }
        },
        "/api/tournaments/{id}/standings": {
            "get": {
                "tags": ["standings"],
                "summary": "Standings tables grouped by group label",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Standings"},
                    "404": {"description": "Tournament not found"}
                }
            }
        },
        "/api/tournaments/{id}/qualifiers": {
            "get": {
                "tags": ["standings"],
                "summary": "Top teams per group (groups format only)",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Qualifiers"},
                    "404": {"description": "Tournament not found"},
                    "422": {"description": "Qualifiers are only defined for the groups format"}
                }
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

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Urban Foot Center Competition API",
	Description:      "Tournament lifecycle, draws, match results, standings and live updates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
