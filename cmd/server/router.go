package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/taskward-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskward-api/internal/api/middleware"
	"github.com/phrazzld/taskward-api/internal/api/shared"
	"github.com/phrazzld/taskward-api/internal/config"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.Handler(corsOptions(app.config.CORS)))

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
	)
	taskHandler := api.NewTaskHandler(app.taskStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Task endpoints (protected)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		})
	})

	// Health check endpoint reporting which configuration is present,
	// never the values themselves.
	r.Get("/health", app.healthCheck)

	return r
}

// corsOptions derives the cross-origin policy from configuration.
// Development allows any origin; production restricts to the configured
// origin, falling back to any when none is set.
func corsOptions(cfg config.CORSConfig) cors.Options {
	allowedOrigins := []string{"*"}
	if cfg.Environment == "production" && cfg.AllowedOrigin != "" {
		allowedOrigins = []string{cfg.AllowedOrigin}
	}

	return cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}
}

// healthCheckResponse is the payload returned by the /health endpoint.
type healthCheckResponse struct {
	Status        string                  `json:"status"`
	Configuration healthConfigurationInfo `json:"configuration"`
}

type healthConfigurationInfo struct {
	DatabaseURLSet bool   `json:"database_url_set"`
	JWTSecretSet   bool   `json:"jwt_secret_set"`
	Environment    string `json:"environment"`
	AllowedOrigin  string `json:"allowed_origin"`
}

// healthCheck handles GET /health requests.
func (app *application) healthCheck(w http.ResponseWriter, r *http.Request) {
	allowedOrigin := app.config.CORS.AllowedOrigin
	if allowedOrigin == "" {
		allowedOrigin = "not set (using permissive CORS)"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, healthCheckResponse{
		Status: "healthy",
		Configuration: healthConfigurationInfo{
			DatabaseURLSet: app.config.Database.URL != "",
			JWTSecretSet:   app.config.Auth.JWTSecret != "",
			Environment:    app.config.CORS.Environment,
			AllowedOrigin:  allowedOrigin,
		},
	})
}
