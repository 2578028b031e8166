// Package docs registers the generated swagger specification.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "mwecauictclub@gmail.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register new member",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Current member",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/departments": {
            "get": {
                "tags": ["Departments"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Departments"],
                "summary": "Create department",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/departments/{id}": {
            "get": {
                "tags": ["Departments"],
                "summary": "Get department",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Departments"],
                "summary": "Update department",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Departments"],
                "summary": "Delete department",
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}
            }
        },
        "/departments/{id}/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Departments"],
                "summary": "Department members",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Courses"],
                "summary": "Create course",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "List members",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Get own profile",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Update own profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/profile/picture": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Record picture upload",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Approve member",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/users/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Reject member",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/users/{id}/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Member activity",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Payments"],
                "summary": "List payments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Payments"],
                "summary": "Submit payment",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/payments/my_payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Payments"],
                "summary": "My payments",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/payments/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Payments"],
                "summary": "Get payment",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/payments/{id}/confirm_payment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Payments"],
                "summary": "Confirm payment",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/projects": {
            "get": {"tags": ["Projects"], "summary": "List projects", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Projects"],
                "summary": "Create project",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/projects/featured": {
            "get": {"tags": ["Projects"], "summary": "Featured projects", "responses": {"200": {"description": "OK"}}}
        },
        "/events": {
            "get": {"tags": ["Events"], "summary": "List events", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Events"],
                "summary": "Create event",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/events/upcoming": {
            "get": {"tags": ["Events"], "summary": "Upcoming events", "responses": {"200": {"description": "OK"}}}
        },
        "/announcements": {
            "get": {"tags": ["Announcements"], "summary": "List announcements", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Announcements"],
                "summary": "Create announcement",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/announcements/recent": {
            "get": {"tags": ["Announcements"], "summary": "Recent announcements", "responses": {"200": {"description": "OK"}}}
        },
        "/announcements/urgent": {
            "get": {"tags": ["Announcements"], "summary": "Urgent announcements", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "ictclub.mwecau.ac.tz",
	BasePath:         "/api/v1",
	Schemes:          []string{"https"},
	Title:            "MWECAU ICT Club Portal API",
	Description:      "Membership portal API for the MWECAU ICT Club",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
