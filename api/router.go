// api/router.go
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookshelf-backend/api/docs"
	"github.com/Annany2002/bookshelf-backend/api/handlers"
	"github.com/Annany2002/bookshelf-backend/api/middleware"
	"github.com/Annany2002/bookshelf-backend/api/models"
	"github.com/Annany2002/bookshelf-backend/config"
	"github.com/Annany2002/bookshelf-backend/internal/domain"
)

// Fixed documentation paths.
const (
	DocsPath        = "/api/py/docs"
	OpenAPIJSONPath = "/api/py/openapi.json"
	OpenAPIYAMLPath = "/api/py/openapi.yaml"

	apiTitle   = "Bookshelf API"
	apiVersion = "0.1.0"
)

// route pairs a documented operation with its handler chain.
type route struct {
	op       docs.Operation
	handlers []gin.HandlerFunc
}

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(db *sql.DB, cfg *config.Config) (*gin.Engine, error) {
	router := gin.Default() // Includes Logger and Recovery

	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)))
	}
	// Runs after Logger/Recovery and wraps every handler below.
	router.Use(middleware.ErrorHandler())

	session := middleware.Session(db)
	guard := middleware.APIKeyAuth()

	// --- Token issuance ---
	generate := route{
		op: docs.Operation{
			Method:      http.MethodPost,
			Path:        "/apikeys/generate",
			OperationID: "generate_api_key",
			Summary:     "Generate Api Key",
			Response:    models.GenerateAPIKeyResponse{},
		},
		handlers: []gin.HandlerFunc{session, handlers.GenerateAPIKey},
	}
	if cfg.AdminSecret != "" {
		adminGate, err := middleware.AdminSecret(cfg.AdminSecret)
		if err != nil {
			return nil, err
		}
		generate.op.Security = []string{docs.AdminSecretScheme}
		generate.handlers = []gin.HandlerFunc{adminGate, session, handlers.GenerateAPIKey}
	}

	// --- Books ---
	listBooks := route{
		op: docs.Operation{
			Method:      http.MethodGet,
			Path:        "/books",
			OperationID: "read_books",
			Summary:     "Read Books",
			Security:    []string{docs.BearerScheme},
			Response:    []domain.Book{},
		},
		handlers: []gin.HandlerFunc{session, guard, handlers.ListBooks},
	}
	createBook := route{
		op: docs.Operation{
			Method:      http.MethodPost,
			Path:        "/books",
			OperationID: "add_book",
			Summary:     "Add Book",
			Request:     models.CreateBookRequest{},
			Response:    domain.Book{},
		},
		handlers: []gin.HandlerFunc{session, handlers.CreateBook},
	}
	if cfg.RequireAuthForWrites {
		createBook.op.Security = []string{docs.BearerScheme}
		createBook.handlers = []gin.HandlerFunc{session, guard, handlers.CreateBook}
	}

	// --- Health ---
	ping := route{
		op: docs.Operation{
			Method:      http.MethodGet,
			Path:        "/ping",
			OperationID: "ping",
			Summary:     "Ping",
			Response:    models.PingResponse{},
		},
		handlers: []gin.HandlerFunc{handlers.Ping(db)},
	}

	openAPI := docs.NewDocument(apiTitle, apiVersion)
	for _, r := range []route{generate, listBooks, createBook, ping} {
		router.Handle(r.op.Method, r.op.Path, r.handlers...)
		openAPI.Add(r.op)
	}

	// --- Docs ---
	router.GET(OpenAPIJSONPath, openAPI.ServeJSON)
	router.GET(OpenAPIYAMLPath, openAPI.ServeYAML)
	router.GET(DocsPath, docs.ServeUI(apiTitle, OpenAPIJSONPath))

	return router, nil
}
