// Entry point for the video platform backend. Wires configuration, the
// database pool, the media uploader, services, handlers and the HTTP router,
// then runs the server with graceful shutdown.
//
// @title VideoTube API
// @version 1.0
// @description Account and session management API for the video platform.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/auth"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/background"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/config"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/db"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/media"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/users"
)

func main() {
	// .env is a development convenience; production sets variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.EnableExtensions(pool); err != nil {
		log.Fatalf("Failed to enable extensions: %v", err)
	}

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	uploader, err := media.NewS3Uploader(cfg.Media)
	if err != nil {
		log.Fatalf("Failed to create media uploader: %v", err)
	}

	userRepo := auth.NewPostgresUserRepository(pool)
	tokenIssuer := auth.NewTokenIssuer(*cfg.Auth)

	authService := auth.NewService(userRepo, tokenIssuer, uploader, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService, *cfg.Auth)

	userService := users.NewService(userRepo, uploader)
	userHandlers := users.NewHandlers(userService)

	// Expired refresh tokens are unusable but still occupy rows; the sweeper
	// clears them in the background.
	sweeperStopChan := make(chan struct{})
	background.StartSessionSweeper(userRepo, cfg.Auth.RefreshTokenDuration, sweeperStopChan)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that keeps the JSON error envelope consistent.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/api/v1/healthcheck", handleHealthcheck)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
		r.Post("/refresh-token", authHandlers.HandleRefreshToken())

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(tokenIssuer))

			r.Post("/logout", authHandlers.HandleLogout())
			r.Post("/change-password", authHandlers.HandleChangePassword())
			r.Get("/current-user", userHandlers.HandleCurrentUser())
			r.Patch("/update-account", userHandlers.HandleUpdateAccount())
			r.Patch("/avatar", userHandlers.HandleUpdateAvatar())
			r.Patch("/cover-image", userHandlers.HandleUpdateCoverImage())
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(sweeperStopChan)

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// handleHealthcheck godoc
// @Summary Health check
// @Tags healthcheck
// @Produce json
// @Success 200 {object} auth.ApiResponse
// @Router /healthcheck [get]
func handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	auth.WriteJSON(w, http.StatusOK, "OK", "Everything is O.K")
}

// writeError is a local helper for the panic recovery middleware; handlers
// use auth.WriteError, which also unwraps arbitrary errors.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
