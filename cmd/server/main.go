package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/adapter/handler"
	"github.com/ardenlim/stockpoint/internal/adapter/storage"
	"github.com/ardenlim/stockpoint/internal/auth"
	"github.com/ardenlim/stockpoint/internal/config"
	"github.com/ardenlim/stockpoint/internal/core/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping mysql", zap.Error(err))
	}
	log.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	log.Info("connected to redis")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)

	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		log.Fatal("failed to ensure schema", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenLifetime)

	authService := service.NewAuthService(mysqlAdapter, mysqlAdapter, tokens, cfg.BcryptCost, log)
	staffService := service.NewStaffService(mysqlAdapter, cfg.BcryptCost, log)
	customerService := service.NewCustomerService(mysqlAdapter, cfg.BcryptCost, log)
	inventoryService := service.NewInventoryService(mysqlAdapter, redisAdapter, log)
	transactionService := service.NewTransactionService(mysqlAdapter, mysqlAdapter, mysqlAdapter, redisAdapter, log)
	dashboardService := service.NewDashboardService(mysqlAdapter, redisAdapter, cfg.LowStockThreshold, log)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("failed to seed administrator", zap.Error(err))
	}
	if err := inventoryService.WarmMirror(ctx); err != nil {
		log.Fatal("failed to warm stock mirror", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	httpHandler := handler.NewHTTPHandler(
		authService,
		staffService,
		customerService,
		inventoryService,
		transactionService,
		dashboardService,
		tokens,
		log,
	)
	httpHandler.RegisterRoutes(engine)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}

	rdb.Close()
	db.Close()
	log.Info("stopped")
}
