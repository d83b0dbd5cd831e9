package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"github.com/go-chi/chi/v5"

	"github.com/reflectai/reflect-backend/internal/config"
	"github.com/reflectai/reflect-backend/internal/database"
	"github.com/reflectai/reflect-backend/internal/handlers"
	"github.com/reflectai/reflect-backend/internal/middleware"
	"github.com/reflectai/reflect-backend/internal/routes"
	"github.com/reflectai/reflect-backend/internal/services"
	"github.com/reflectai/reflect-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Entry persistence: MongoDB by default, local disk store as fallback
	switch cfg.EntriesBackend {
	case "local":
		handlers.InitEntryStore(store.NewLocalStore(cfg.DataDir))
		log.Printf("✅ Local entry store at %s", cfg.DataDir)
	default:
		log.Printf("Connecting to MongoDB...")
		if cfg.MongoURI != "" {
			// Mask password in log for security
			maskedURI := cfg.MongoURI
			if strings.Contains(maskedURI, "@") {
				parts := strings.Split(maskedURI, "@")
				if len(parts) > 0 && strings.Contains(parts[0], ":") {
					userPass := strings.Split(parts[0], ":")
					if len(userPass) >= 3 {
						maskedURI = strings.Replace(maskedURI, userPass[2], "***", 1)
					}
				}
			}
			log.Printf("MongoDB URI: %s", maskedURI)
		}
		if err := database.ConnectMongo(cfg.MongoURI); err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.DisconnectMongo()

		mongoStore := store.NewMongoStore(database.DB)
		if err := mongoStore.EnsureIndexes(context.Background()); err != nil {
			log.Printf("⚠️ WARNING: failed to ensure MongoDB entry indexes: %v", err)
		} else {
			log.Println("✅ MongoDB entry indexes ensured")
		}
		handlers.InitEntryStore(mongoStore)
	}

	// AI analysis
	handlers.InitAnalyzer(services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL))

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit (no host check; no CDN/proxy)
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity("") {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/auth/signout")
	log.Println("  GET  /api/entries")
	log.Println("  PUT  /api/entries")
	log.Println("  DELETE /api/entries")
	log.Println("  POST /api/entries/analyze")

	log.Printf("🚀 ReflectAI backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
