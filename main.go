package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/luciolemos/itapiru-srv798468/internal/config"
	"github.com/luciolemos/itapiru-srv798468/internal/database"
	"github.com/luciolemos/itapiru-srv798468/internal/handlers"
	authmw "github.com/luciolemos/itapiru-srv798468/internal/middleware"
	"github.com/luciolemos/itapiru-srv798468/internal/repository"
	"github.com/luciolemos/itapiru-srv798468/internal/seed"
	"github.com/luciolemos/itapiru-srv798468/internal/throttle"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, freshDB, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	sd, err := seed.Load(cfg.SeedPath)
	if err != nil {
		log.Fatalf("Failed to load seed: %v", err)
	}

	repo, err := repository.New(db, sd, cfg.AdminUser, cfg.AdminPass, freshDB)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	loginLimiter := throttle.New(5, 5*time.Minute, 10*time.Minute)

	pageHandler := handlers.NewPageHandler(repo, cfg.JWTSecret, cfg.ContactLog)
	authHandler := handlers.NewAuthHandler(repo, loginLimiter, cfg.JWTSecret)
	adminHandler := handlers.NewAdminHandler(repo, cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Static files (public)
	fileServer := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/itapiru", http.StatusSeeOther)
	})

	// Public routes (no auth)
	r.Get("/itapiru", pageHandler.Home)
	r.Get("/itapiru/contato", pageHandler.ContactPage)
	r.Post("/itapiru/contato", pageHandler.ContactSubmit)
	r.Get("/itapiru/login", authHandler.LoginPage)
	r.Post("/itapiru/login", authHandler.Login)
	r.Post("/itapiru/logout", authHandler.Logout)

	// Protected admin area
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAdmin(cfg.JWTSecret))

		r.Get("/itapiru/admin", adminHandler.Dashboard)
		r.Get("/itapiru/admin/account", adminHandler.Account)
		r.Post("/itapiru/admin/account/update", adminHandler.AccountUpdate)

		r.Post("/itapiru/admin/groups/create", adminHandler.CreateGroup)
		r.Post("/itapiru/admin/groups/update", adminHandler.UpdateGroup)
		r.Post("/itapiru/admin/groups/delete", adminHandler.DeleteGroup)

		r.Post("/itapiru/admin/sections/create", adminHandler.CreateSection)
		r.Post("/itapiru/admin/sections/update", adminHandler.UpdateSection)
		r.Post("/itapiru/admin/sections/delete", adminHandler.DeleteSection)

		r.Post("/itapiru/admin/cards/create", adminHandler.CreateCard)
		r.Post("/itapiru/admin/cards/update", adminHandler.UpdateCard)
		r.Post("/itapiru/admin/cards/delete", adminHandler.DeleteCard)
	})

	// Public section pages, after the fixed routes so they don't shadow them
	r.Get("/itapiru/{section}", pageHandler.Section)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		srv.Shutdown(context.Background())
	}()

	log.Printf("Server starting on http://localhost%s", addr)
	log.Printf("Database: %s", cfg.DBPath)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
