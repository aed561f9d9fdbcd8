package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fareaz/eTuitionBd-Server/internal/auth"
	"github.com/fareaz/eTuitionBd-Server/internal/cache"
	"github.com/fareaz/eTuitionBd-Server/internal/config"
	"github.com/fareaz/eTuitionBd-Server/internal/data"
	"github.com/fareaz/eTuitionBd-Server/internal/events"
	"github.com/fareaz/eTuitionBd-Server/internal/handler"
	"github.com/fareaz/eTuitionBd-Server/internal/logging"
	"github.com/fareaz/eTuitionBd-Server/internal/middleware"
	"github.com/fareaz/eTuitionBd-Server/internal/payments"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	logger := logging.New(zapLogger)
	ctx = logging.ContextWithLogger(ctx, logger)

	cfg, err := config.New()
	if err != nil {
		logger.Fatal(ctx, "cannot create config", zap.Error(err))
	}
	logger.Info(ctx, "created config")

	pool, err := data.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "cannot create db pool", zap.Error(err))
	}
	defer pool.Close()
	logger.Info(ctx, "connected db")

	userRepo := data.NewUserRepository(pool)
	tuitionRepo := data.NewTuitionRepository(pool)
	tutorRepo := data.NewTutorRepository(pool)
	applicationRepo := data.NewApplicationRepository(pool)
	paymentRepo := data.NewPaymentRepository(pool)

	var appCache service.Cache = cache.NopCache{}
	if cfg.RedisURL != "" {
		redisConn := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		appCache = cache.NewRedisCache(redisConn)
		logger.Info(ctx, "connected redis")
	}

	var producer service.EventProducer = events.NopProducer{}
	if cfg.KafkaBrokers != "" {
		kafkaProducer, err := events.NewProducer(events.Config{
			Brokers: strings.Split(cfg.KafkaBrokers, ","),
		})
		if err != nil {
			logger.Fatal(ctx, "cannot create kafka producer", zap.Error(err))
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer
		logger.Info(ctx, "connected kafka")
	}

	provider := payments.NewStripeProvider(cfg.StripeSecretKey)

	userService := service.NewUserService(userRepo, appCache)
	tuitionService := service.NewTuitionService(tuitionRepo, userRepo)
	tutorService := service.NewTutorService(tutorRepo, userRepo)
	applicationService := service.NewApplicationService(applicationRepo, tuitionRepo, tutorRepo, userRepo, producer)
	paymentService := service.NewPaymentService(paymentRepo, applicationRepo, applicationService, provider, service.CheckoutConfig{
		Currency:   cfg.CheckoutCurrency,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	})

	userHandler := handler.NewUserHandler(userService)
	tuitionHandler := handler.NewTuitionHandler(tuitionService, appCache)
	tutorHandler := handler.NewTutorHandler(tutorService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	authMiddleware := middleware.NewAuthMiddleware(auth.NewJWTVerifier(cfg.JWTSecret))

	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 10<<20) // 10 MB
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	userHandler.RegisterRoutes(r, authMiddleware)
	tuitionHandler.RegisterRoutes(r, authMiddleware)
	tutorHandler.RegisterRoutes(r, authMiddleware)
	applicationHandler.RegisterRoutes(r, authMiddleware)
	paymentHandler.RegisterRoutes(r, authMiddleware)

	port := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info(ctx, "Starting server", zap.String("port", port))

	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "cannot start http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(ctx, "server forced to shutdown", zap.Error(err))
	}
	logger.Info(ctx, "Server stopped")
}
