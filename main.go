package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"hotel-desk/cache"
	"hotel-desk/config"
	"hotel-desk/jobs"
	"hotel-desk/metrics"
	"hotel-desk/routes"
	"hotel-desk/services"
	"hotel-desk/utils"
)

func main() {
	cfg, err := config.Load(utils.EnvOrDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		// logger not built yet
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logging)
	fatal := func(msg string, err error) {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}

	db, err := config.ConnectDatabase(cfg.Database, logger)
	if err != nil {
		fatal("database connect failed", err)
	}

	metrics.Register()

	// Stats cache is optional
	var statsCache cache.Cache = cache.Noop{}
	if cfg.Redis.Address != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.Connect(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, dashboard stats will not be cached", "addr", cfg.Redis.Address, "error", err)
		} else {
			defer rdb.Close()
			statsCache = cache.NewRedisCache(rdb)
			logger.Info("redis connected", "addr", cfg.Redis.Address)
		}
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = utils.GenerateSecureToken(32)
		if err != nil {
			fatal("generate jwt secret", err)
		}
		logger.Warn("JWT_SECRET not set; using a random secret, sessions end on restart")
	}

	// Initialize services
	roomService := services.NewRoomService(db, statsCache, logger, cfg.Redis.StatsTTL)
	bookingService := services.NewBookingService(db, roomService, logger, services.BookingOptions{
		AllocationRetries: cfg.Booking.AllocationRetries,
		EnforceDateOrder:  cfg.Booking.EnforceDateOrder,
	})
	authService := services.NewAuthService(db, logger, secret, cfg.Auth.TokenTTL)

	if err := authService.SeedAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Warn("default admin seed failed", "error", err)
	}

	scheduler := cron.New()
	if err := jobs.InitCronJobs(scheduler, cfg.Jobs.AuditSchedule, roomService, logger); err != nil {
		fatal("init cron jobs", err)
	}
	scheduler.Start()

	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRouter(routes.Deps{
		Auth:         authService,
		Rooms:        roomService,
		Bookings:     bookingService,
		Logger:       logger,
		CorsOrigins:  cfg.Server.CorsOrigins,
		SecureCookie: cfg.Server.SecureCookie,
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("listen", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
}
