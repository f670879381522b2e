package router

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/anonto42/collab/backend/internal/handlers"
	"github.com/anonto42/collab/backend/internal/middleware"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/anonto42/collab/backend/pkg/config"
	"github.com/labstack/echo/v4"
)

// SetupRoutes migrates the schema, wires repositories into services and
// registers every route. firebaseAuth may be nil.
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, firebaseAuth handlers.TokenVerifier, logger *slog.Logger) error {
	if err := repositories.Migrate(db.SQL); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Println("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	accountRepo := repositories.NewGormAccountRepository(db.SQL)
	followRepo := repositories.NewGormFollowRepository(db.SQL)
	commentRepo := repositories.NewGormCommentRepository(db.SQL)
	likeRepo := repositories.NewGormLikeRepository(db.SQL)
	tx := repositories.NewGormTransactor(db.SQL)

	var postRepo repositories.PostRepository
	if cfg.StoreBackend == config.BackendMongo {
		mongoPosts := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
		if err := mongoPosts.EnsureIndexes(context.Background()); err != nil {
			return fmt.Errorf("failed to create MongoDB indexes: %w", err)
		}
		postRepo = mongoPosts
		log.Println("Posts stored in MongoDB.")
	} else {
		postRepo = repositories.NewGormPostRepository(db.SQL)
	}

	// --- Initialize Services ---
	clock := services.RealClock{}
	assembler := services.NewAssembler(accountRepo, followRepo, likeRepo, commentRepo, cfg.AvatarServer, cfg.AvatarSize)
	graph := services.NewGraphService(accountRepo, followRepo, postRepo, assembler, logger)
	feed := services.NewFeedService(postRepo, commentRepo, likeRepo, graph, tx, clock, logger)
	updates := services.NewUpdatePoller(postRepo, graph)
	accounts := services.NewAccountService(accountRepo, postRepo, commentRepo, likeRepo, tx, clock, logger)

	if cfg.AdminAccount != "" {
		created, err := accounts.EnsureAccount(context.Background(), models.CreateAccountRequest{
			Account:  cfg.AdminAccount,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			Roles:    []string{models.RoleAdministrator},
			System:   true,
		})
		if err != nil {
			return fmt.Errorf("failed to bootstrap administrator: %w", err)
		}
		if created {
			logger.Info("administrator account created", "account", cfg.AdminAccount)
		}
	}

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(accounts, firebaseAuth, cfg.JWTSecret, logger)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	handlers.NewAccountHandler(accounts, logger).RegisterAccountRoutes(api)
	log.Println("Account routes configured.")

	handlers.NewPeopleHandler(graph, feed, assembler, logger).RegisterPeopleRoutes(api)
	log.Println("People routes configured.")

	handlers.NewTimelineHandler(feed, updates, assembler, logger).RegisterTimelineRoutes(api)
	log.Println("Timeline routes configured.")

	handlers.NewPostHandler(feed, assembler, logger).RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	handlers.NewSearchHandler(feed, assembler, logger).RegisterSearchRoutes(api)
	log.Println("Search routes configured.")

	admin := api.Group("/admin", middleware.RequireRole(models.RoleAdministrator))
	handlers.NewAdminHandler(accounts, logger).RegisterAdminRoutes(admin)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
	return nil
}
