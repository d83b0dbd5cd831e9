package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/reflectai/reflect-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/signout", handlers.Signout)

	// Journal entry routes
	r.Get("/api/entries", handlers.GetEntries)
	r.Put("/api/entries", handlers.SaveEntry)
	r.Delete("/api/entries", handlers.DeleteEntry)
	r.Post("/api/entries/analyze", handlers.AnalyzeEntry)
}
