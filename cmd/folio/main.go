// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/folio-go/internal/ai"
	"github.com/olegiv/folio-go/internal/config"
	"github.com/olegiv/folio-go/internal/geoip"
	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/idp"
	"github.com/olegiv/folio-go/internal/logging"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/scheduler"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/version"
)

const requestTimeout = 30 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "folio - portfolio, blog and job-tracking API server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_TOKEN_SECRET     Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_DB_PATH          SQLite database path (default: ./data/folio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_IDP_VERIFY_URL   Remote identity provider verify endpoint (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_GEOIP_DB_PATH    GeoLite2-Country database path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_OPENAI_API_KEY   OpenAI API key for excerpt generation (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("folio %s (built: %s)\n", version.String(), version.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Choose the credential verifier: a remote provider when configured,
	// the built-in token service otherwise. The token service also backs
	// the local sign-in endpoint in both cases.
	tokens := idp.NewTokenService([]byte(cfg.TokenSecret), time.Duration(cfg.TokenTTL)*time.Second)
	var verifier idp.Verifier = tokens
	if cfg.UseRemoteIdentity() {
		verifier = idp.NewRemoteVerifier(cfg.IdentityVerifyURL, cfg.IdentitySecret)
		slog.Info("using remote identity provider", "url", cfg.IdentityVerifyURL)
	}

	var geo *geoip.Reader
	if cfg.GeoIPEnabled() {
		geo, err = geoip.Open(cfg.GeoIPDBPath)
		if err != nil {
			slog.Warn("geoip disabled", "error", err)
		} else {
			defer func() { _ = geo.Close() }()
			slog.Info("geoip enabled", "path", cfg.GeoIPDBPath)
		}
	}

	var excerpts *ai.ExcerptGenerator
	if cfg.AIEnabled() {
		excerpts = ai.NewExcerptGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		slog.Info("excerpt generation enabled", "model", cfg.OpenAIModel)
	}

	events := service.NewEventService(db)
	h := api.NewHandler(db, events, api.Options{
		Geo:        geo,
		Excerpts:   excerpts,
		UploadsDir: cfg.UploadsDir,
	})
	authHandler := api.NewAuthHandler(h, tokens)

	r := newRouter(db, verifier, events, h, authHandler)

	// Start maintenance scheduler
	sched := scheduler.New(db, logger, cfg.StaleJobDays, cfg.ContactRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Allows for image uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newRouter assembles the /api/v1 surface. Role sets are fixed at
// registration; RequireRole panics on an empty or unknown set, so a
// misregistered route fails at startup rather than serving anyone.
func newRouter(db *sql.DB, verifier idp.Verifier, events *service.EventService,
	h *api.Handler, authHandler *api.AuthHandler) chi.Router {

	authenticate := middleware.Authenticate(verifier, db)
	anyUser := middleware.RequireRoleWithEventLog(events, model.RoleAdmin, model.RoleUser)
	adminOnly := middleware.RequireRoleWithEventLog(events, model.RoleAdmin)

	publicLimiter := middleware.NewGlobalRateLimiter(2, 10)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestPath)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.Status)

		// Public surface, rate limited per IP.
		r.Group(func(r chi.Router) {
			r.Use(publicLimiter.Middleware())
			r.Post("/auth/token", authHandler.IssueToken)
			r.Post("/contact", h.SubmitContact)
		})

		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{slug}", h.GetPost)
		r.Get("/testimonials", h.ListTestimonials)
		r.Get("/website-updates", h.ListWebsiteUpdates)
		r.Get("/website-updates/{id}", h.GetWebsiteUpdate)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.With(anyUser).Get("/auth", h.WhoAmI)

			r.Group(func(r chi.Router) {
				r.Use(anyUser)

				r.Get("/users/me", h.Me)
				r.Get("/users/{email}", h.GetUser)
				r.Put("/users", h.UpdateProfile)
				r.Put("/users/switch-role", h.SwitchRole)

				r.Post("/posts", h.CreatePost)
				r.Put("/posts/{slug}", h.UpdatePost)
				r.Delete("/posts/{slug}", h.DeletePost)
				r.Post("/posts/{slug}/excerpt", h.GenerateExcerpt)

				r.Route("/portfolios/{email}", func(r chi.Router) {
					r.Get("/", h.GetPortfolio)
					r.Post("/education", h.CreateEducation)
					r.Put("/education/{id}", h.UpdateEducation)
					r.Delete("/education/{id}", h.DeleteEducation)
					r.Post("/experience", h.CreateExperience)
					r.Put("/experience/{id}", h.UpdateExperience)
					r.Delete("/experience/{id}", h.DeleteExperience)
					r.Post("/projects", h.CreateProject)
					r.Put("/projects/{id}", h.UpdateProject)
					r.Delete("/projects/{id}", h.DeleteProject)
					r.Post("/projects/{id}/image", h.UploadProjectImage)
					r.Post("/skills", h.CreateSkillCategory)
					r.Put("/skills/{id}", h.UpdateSkillCategory)
					r.Delete("/skills/{id}", h.DeleteSkillCategory)
				})

				r.Get("/jobs", h.ListJobApplications)
				r.Post("/jobs", h.CreateJobApplication)
				r.Get("/jobs/{id}", h.GetJobApplication)
				r.Put("/jobs/{id}", h.UpdateJobApplication)
				r.Delete("/jobs/{id}", h.DeleteJobApplication)
			})

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Get("/users", h.ListUsers)

				r.Get("/testimonials/all", h.ListAllTestimonials)
				r.Post("/testimonials", h.CreateTestimonial)
				r.Put("/testimonials/{id}", h.UpdateTestimonial)
				r.Delete("/testimonials/{id}", h.DeleteTestimonial)

				r.Post("/website-updates", h.CreateWebsiteUpdate)
				r.Put("/website-updates/{id}", h.UpdateWebsiteUpdate)
				r.Delete("/website-updates/{id}", h.DeleteWebsiteUpdate)

				r.Get("/contact", h.ListContactMessages)
				r.Delete("/contact/{id}", h.DeleteContactMessage)

				r.Get("/events", h.ListEvents)
			})
		})
	})

	return r
}
