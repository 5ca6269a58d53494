package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/petcarehq/petcare/internal/config"
	"github.com/petcarehq/petcare/internal/database"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository/postgres"
	"github.com/petcarehq/petcare/internal/service"
	transport "github.com/petcarehq/petcare/internal/transport/http"
	"github.com/petcarehq/petcare/internal/transport/http/handlers"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepo(pool)
	petRepo := postgres.NewPetRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenMinutes)
	userService := service.NewUserService(userRepo)
	petService := service.NewPetService(petRepo, userRepo)

	if err := seedAdmin(ctx, cfg, userRepo, userService); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	petHandler := handlers.NewPetHandler(petService)

	router := transport.NewRouter(cfg, authHandler, userHandler, petHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// seedAdmin creates the bootstrap admin from ADMIN_EMAIL/ADMIN_PASSWORD
// when configured and no admin account exists yet.
func seedAdmin(ctx context.Context, cfg *config.Config, userRepo *postgres.UserRepo, userService *service.UserService) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	count, err := userRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := userService.CreateUser(ctx, cfg.AdminEmail, cfg.AdminPassword, "Administrator", domain.RoleAdmin); err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			return nil
		}
		return err
	}
	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}
