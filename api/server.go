/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/auth/*           Session (login, logout, me)
  /api/daily/*          Daily mission checklist
  /api/home             Day counter and plan banner
  /api/stats            All-time aggregates
  /api/exams/*          Exam board
  /api/journal/*        Daily journal
  /api/books/*          Reading log
  /api/rules            Static ruleset
  /*                    Static files (frontend)

STATIC FILE SERVING:
  In production, serves the built React app from web/dist/.
  Falls back to index.html for client-side routing.

SECURITY NOTE:
  The session middleware (Sessions.RequireUser) is NOT mounted. Data
  routes answer without the router demanding a valid cookie; handlers
  resolve identity from the cookie themselves. Mount it on the /api
  group to enforce authentication.

SEE ALSO:
  - handlers.go: Handler implementations
  - session.go: Cookie JWT layer
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Session routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		// Daily mission routes
		r.Route("/daily", func(r chi.Router) {
			r.Get("/", h.GetDaily)
			r.Post("/tasks/{id}/toggle", h.ToggleTask)
			r.Put("/tasks/{id}/field", h.SaveTaskField)
		})

		// Dashboard routes
		r.Get("/home", h.GetHome)
		r.Get("/stats", h.GetStats)

		// Exam routes
		r.Route("/exams", func(r chi.Router) {
			r.Get("/", h.GetExams)
			r.Post("/toggle", h.ToggleUnit)
		})

		// Journal routes
		r.Route("/journal", func(r chi.Router) {
			r.Get("/today", h.GetJournal)
			r.Put("/today", h.SaveJournal)
		})

		// Book routes
		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.ListBooks)
			r.Post("/", h.AddBook)
			r.Put("/{id}/status", h.SetBookStatus)
			r.Put("/{id}/lesson", h.SetBookLesson)
			r.Delete("/{id}", h.DeleteBook)
		})

		// Rules route
		r.Get("/rules", h.GetRules)
	})

	// Serve static files (React app)
	// First try ./web/dist (development), then fall back to message
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		// Try relative to executable
		exe, _ := os.Executable()
		staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			fullPath := filepath.Join(staticDir, path)

			// Check if file exists
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Ghost Mode 90</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Ghost Mode 90 API</h1>
<p>The frontend is not built yet. Run <code>cd web && npm install && npm run build</code></p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/daily">/api/daily</a> - Today's mission</li>
<li><a href="/api/home">/api/home</a> - Day counter</li>
<li><a href="/api/rules">/api/rules</a> - The rules</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
