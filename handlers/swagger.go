package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves an OpenAPI description of the screens.
// - GET /swagger/index.html  -> Swagger UI loading the document below
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>solargrid-web Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Guarded screens answer 303 to /login without a session and 303 to
// /unauthorized when the role gate fails.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "solargrid-web", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "View": {"type":"object","properties":{"page":{"type":"string"},"title":{"type":"string"},"user":{"type":"object"},"nav":{"type":"array","items":{"type":"object"}},"notices":{"type":"array","items":{"type":"object","properties":{"level":{"type":"string"},"text":{"type":"string"}}}},"redirect":{"type":"string"},"data":{}}}
    },
    "responses": {
      "Screen": { "description": "rendered view", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/View" } } } },
      "Redirect": { "description": "guard redirect to /login or /unauthorized" }
    }
  },
  "paths": {
    "/login": {
      "get": { "summary": "Login screen", "responses": { "200": { "$ref": "#/components/responses/Screen" } } },
      "post": { "summary": "Log in and remember the session for this browser", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "$ref": "#/components/responses/Screen" }, "400": { "$ref": "#/components/responses/Screen" }, "401": { "$ref": "#/components/responses/Screen" }, "429": { "description": "rate limit exceeded" } } }
    },
    "/signup": {
      "get": { "summary": "Sign up screen", "responses": { "200": { "$ref": "#/components/responses/Screen" } } },
      "post": { "summary": "Register an account", "responses": { "201": { "$ref": "#/components/responses/Screen" }, "400": { "$ref": "#/components/responses/Screen" } } }
    },
    "/logout": {
      "post": { "summary": "Clear the session", "responses": { "303": { "description": "redirect to /login" } } }
    },
    "/home": { "get": { "summary": "Home screen (authenticated)", "responses": { "200": { "$ref": "#/components/responses/Screen" }, "303": { "$ref": "#/components/responses/Redirect" } } } },
    "/unauthorized": { "get": { "summary": "Shown when a role is missing", "responses": { "200": { "$ref": "#/components/responses/Screen" } } } },
    "/solargrid": { "get": { "summary": "List solar grids (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" }, "303": { "$ref": "#/components/responses/Redirect" } } } },
    "/solargrid/new": {
      "get": { "summary": "New solar grid form (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } },
      "post": { "summary": "Create a solar grid (ROLE_USER)", "responses": { "201": { "$ref": "#/components/responses/Screen" }, "400": { "$ref": "#/components/responses/Screen" } } }
    },
    "/solargrid/edit": {
      "get": { "summary": "Edit form for ?id= (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } },
      "post": { "summary": "Update a solar grid (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } }
    },
    "/solargrid/{id}": { "delete": { "summary": "Delete a solar grid (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } } },
    "/solargrid/simulate": { "post": { "summary": "Load grids into the simulator (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } } },
    "/profile": { "get": { "summary": "Own profile (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } } },
    "/profile/edit": {
      "get": { "summary": "Profile form (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } },
      "post": { "summary": "Update own profile (ROLE_USER)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } }
    },
    "/users": { "get": { "summary": "List users (ROLE_ADMIN)", "responses": { "200": { "$ref": "#/components/responses/Screen" }, "303": { "$ref": "#/components/responses/Redirect" } } } },
    "/users/edit": {
      "get": { "summary": "Edit user ?id= (ROLE_ADMIN)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } },
      "post": { "summary": "Update a user (ROLE_ADMIN)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } }
    },
    "/users/{id}": { "delete": { "summary": "Delete a user (ROLE_ADMIN)", "responses": { "200": { "$ref": "#/components/responses/Screen" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
