package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/mind-engage/mindengage-quizsheets/internal/api/http"
	auth "github.com/mind-engage/mindengage-quizsheets/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quizsheets/internal/config"
	"github.com/mind-engage/mindengage-quizsheets/internal/db"
	"github.com/mind-engage/mindengage-quizsheets/internal/importer"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/rbac"
	"github.com/mind-engage/mindengage-quizsheets/internal/storage"
	syncx "github.com/mind-engage/mindengage-quizsheets/internal/sync"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using process environment")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)
	events := syncx.NewEventRepo(dbh, "")

	// --- Import pipeline ---
	src, err := storage.Open(cfg.SourceDriver, cfg.SourceBasePath, storage.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	})
	if err != nil {
		log.Fatalf("import source: %v", err)
	}
	coord, err := importer.FromConfig(cfg.Import, store, src, importer.WithEvents(events))
	if err != nil {
		log.Fatalf("importer: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, auth.Account{
			Username: cfg.AdminUser,
			PassHash: cfg.AdminPassHash,
			Role:     "admin",
		}))
	}

	// Protected API (JWT -> role in context -> RBAC). Imports run inline, so
	// the timeout is generous.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(middleware.Timeout(15 * time.Minute))
		api.MountAPI(pr, store, coord, events)
	})

	// Uploads only make sense when imports read the local filesystem.
	if fs, ok := src.(*storage.FSSource); ok {
		r.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(authSvc))
			pr.Use(rbac.Require(rbac.PermImportRun))
			pr.Route("/uploads", func(ur chi.Router) {
				api.MountUploads(ur, fs)
			})
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s, source=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.SourceDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
