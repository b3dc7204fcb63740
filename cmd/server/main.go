package main

import (
	"log"
	"net/http"

	_ "reviewhub/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"reviewhub/internal/auth"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/db"
	"reviewhub/internal/handler"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/router"
	"reviewhub/internal/service"
)

// @title ReviewHub API
// @version 1.0
// @description Product review platform with rating aggregation, filtered search, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Review{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	aggregator := service.NewAggregator(productRepo, reviewRepo)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	reviewService := service.NewReviewService(reviewRepo, productRepo, aggregator, cacheClient)
	resolverService := service.NewResolverService(productRepo, reviewRepo, userRepo, aggregator, cacheClient)
	queryService := service.NewQueryService(productRepo, reviewRepo)
	adminService := service.NewAdminService(userRepo, productRepo, reviewRepo, aggregator, cacheClient)
	userService := service.NewUserService(userRepo, reviewRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	reviewHandler := handler.NewReviewHandler(reviewService, resolverService, queryService)
	adminHandler := handler.NewAdminHandler(adminService, queryService)
	userHandler := handler.NewUserHandler(userService)

	router.Register(e, cfg, authHandler, reviewHandler, adminHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
