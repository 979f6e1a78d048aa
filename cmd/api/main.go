package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/mocard/benefits-api/internal/config"
	"github.com/mocard/benefits-api/internal/handler"
	appointmenthandler "github.com/mocard/benefits-api/internal/handler/appointment"
	cardhandler "github.com/mocard/benefits-api/internal/handler/card"
	clinichandler "github.com/mocard/benefits-api/internal/handler/clinic"
	generationhandler "github.com/mocard/benefits-api/internal/handler/generation"
	"github.com/mocard/benefits-api/internal/middleware"
	"github.com/mocard/benefits-api/internal/repository/postgres"
	"github.com/mocard/benefits-api/internal/router"
	appointmentservice "github.com/mocard/benefits-api/internal/service/appointment"
	cardservice "github.com/mocard/benefits-api/internal/service/card"
	clinicservice "github.com/mocard/benefits-api/internal/service/clinic"
	generationservice "github.com/mocard/benefits-api/internal/service/generation"
	"github.com/mocard/benefits-api/pkg/logger"
	"github.com/mocard/benefits-api/pkg/messaging"
	redisbroker "github.com/mocard/benefits-api/pkg/messaging/redis"
	"github.com/mocard/benefits-api/pkg/metrics"
)

func main() {
	log := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &log.ZL)
		if err != nil {
			log.Fatal(err, "failed to connect to redis")
		}
		defer broker.Close()
	} else {
		log.Warn("redis url not configured, progress events disabled")
	}

	m := metrics.NewMetrics("benefits", "api")

	batchRepo := postgres.NewBatchRepository(db)
	cardRepo := postgres.NewCardRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	generationSvc := generationservice.NewService(batchRepo, cardRepo, broker, m, log, cfg.Generation)
	cardSvc := cardservice.NewService(cardRepo)
	clinicSvc := clinicservice.NewService(clinicRepo)
	appointmentSvc := appointmentservice.NewService(appointmentRepo, cardRepo)

	healthHandler := handler.NewHandler(db.Ping)

	r := router.NewRouter(router.Config{
		RateLimit:     rate.Limit(cfg.Server.RateLimitRPS),
		RateBurst:     cfg.Server.RateLimitBurst,
		Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "benefits_api",
	},
		healthHandler,
		generationhandler.NewHandler(generationSvc),
		cardhandler.NewHandler(cardSvc),
		clinichandler.NewHandler(clinicSvc),
		appointmenthandler.NewHandler(appointmentSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "forced shutdown")
	}

	log.Info("server stopped")
}
