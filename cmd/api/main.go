package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/config"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/db"
	apihttp "github.com/Callmeduobgne/Luong-ban-hoa/internal/http"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	productRepo := repository.NewPgProductRepository(pool)
	orderRepo := repository.NewPgOrderRepository(pool)
	cartRepo := repository.NewPgCartRepository(pool)
	blogRepo := repository.NewPgBlogRepository(pool)

	tokenSvc := service.NewTokenService(
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLHours)*time.Hour,
	)
	authSvc := service.NewAuthService(logger, userRepo, tokenSvc)
	adminSvc := service.NewAdminService(logger, userRepo, orderRepo)
	orderSvc := service.NewOrderService(orderRepo)

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	adminHandler := apihttp.NewAdminHandler(logger, adminSvc, orderSvc)
	productHandler := apihttp.NewProductHandler(logger, productRepo)
	cartHandler := apihttp.NewCartHandler(logger, cartRepo)
	blogHandler := apihttp.NewBlogHandler(logger, blogRepo)
	healthHandler := apihttp.NewHealthHandler(pool, cfg.Environment)

	router := apihttp.NewRouter(
		logger,
		authSvc,
		authHandler,
		adminHandler,
		productHandler,
		cartHandler,
		blogHandler,
		healthHandler,
		cfg.CORSOrigins,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
