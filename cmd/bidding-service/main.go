package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"auction-marketplace/internal/api/handlers"
	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/infrastructure/leader"
	"auction-marketplace/internal/infrastructure/mysql"
	"auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

func main() {
	log := logger.New()
	log.Info("Starting Bidding Service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db, err := mysql.Open(ctx, mysql.PoolConfig{
		DSN:             cfg.MySQL.DSN,
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
	})
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	// Initialize repositories
	itemRepo := mysql.NewMySQLItemRepository(db)
	bidRepo := mysql.NewMySQLBidRepository(db)
	paymentRepo := mysql.NewMySQLPaymentRepository(db)
	transitionLog := mysql.NewMySQLTransitionLog(db)

	// Initialize Redis based components
	highBidCache := redis.NewRedisHighBidCache(rdb)
	eventPublisher := redis.NewRedisEventPublisher(rdb)
	sessionStore := redis.NewRedisSessionStore(rdb)
	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)

	// Initialize the bidding engine
	clk := clock.NewSystem()
	ledger := services.NewBidLedger(bidRepo, highBidCache, log)
	validator := services.NewBidValidator()
	lifecycle := services.NewAuctionLifecycle(itemRepo, transitionLog, eventPublisher, clk, log)
	bidding := services.NewBiddingService(itemRepo, ledger, validator, eventPublisher, clk, log)
	resolver := services.NewWinnerResolver(itemRepo, ledger, clk)
	payments := services.NewPaymentService(paymentRepo, bidRepo, resolver, clk, log)
	sweeper := services.NewCronPhaseSweeper(lifecycle, leaderElection, cfg.Instance.ID, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(handlers.IdentityMiddleware(sessionStore, log))

	// Initialize handlers
	bidHandler := handlers.NewBidHandler(bidding, ledger, resolver, log)
	adminHandler := handlers.NewAdminHandler(lifecycle, log)
	paymentHandler := handlers.NewPaymentHandler(payments, log)

	// API routes
	api := e.Group("/api/v1")
	api.POST("/items/:id/bids", bidHandler.PlaceBid)
	api.GET("/items/:id/bids", bidHandler.ListBids)
	api.GET("/items/:id/bids/high", bidHandler.HighBid)
	api.GET("/items/:id/winner", bidHandler.GetWinner)
	api.GET("/items/:id/winner/:userID", bidHandler.IsWinner)
	api.PUT("/items/:id/approval", adminHandler.SetApproval)
	api.POST("/sweep", adminHandler.RunSweep)
	api.POST("/payments", paymentHandler.CreatePayment)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "bidding-service",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Start the periodic sweep
	if err := sweeper.Start(context.Background(), cfg.Sweep.Interval); err != nil {
		log.Error("Failed to start phase sweeper", "error", err)
		os.Exit(1)
	}

	// Try to become sweep leader
	go func() {
		for {
			became, err := leaderElection.BecomeLeader(context.Background(), cfg.Instance.ID)
			if err != nil {
				log.Error("Failed to attempt leadership", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if became {
				log.Info("Became sweep leader", "instance_id", cfg.Instance.ID)
			}
			time.Sleep(10 * time.Second)
		}
	}()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting bidding service server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down bidding service...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sweeper.Stop(); err != nil {
		log.Error("Failed to stop sweeper", "error", err)
	}
	if err := leaderElection.ReleaseLeadership(ctx, cfg.Instance.ID); err != nil {
		log.Error("Failed to release leadership", "error", err)
	}
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Bidding service stopped")
}
