package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"

	"github.com/KonarzewskiP/software-testing/internal/config"
	"github.com/KonarzewskiP/software-testing/internal/handlers"
	"github.com/KonarzewskiP/software-testing/internal/kafka"
	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/middleware"
	"github.com/KonarzewskiP/software-testing/internal/phone"
	rediswrap "github.com/KonarzewskiP/software-testing/internal/redis"
	"github.com/KonarzewskiP/software-testing/internal/services"
	"github.com/KonarzewskiP/software-testing/internal/storage"
)

var log *logger.Logger

func main() {
	log = logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("ENV", "Error loading .env file, using environment variables")
	}

	log.LogProcess("STARTUP", "Banking service starting up...")

	cfg := config.Load()
	log.Info("CONFIG", "Configuration loaded successfully")

	var store storage.Store
	if cfg.Database.Host != "" {
		mysqlStore, err := storage.NewMySQLStore(cfg.Database, log)
		if err != nil {
			log.Fatal("DATABASE", "Failed to initialize MySQL: "+err.Error())
		}
		store = mysqlStore
	} else {
		log.Warn("DATABASE", "DB_HOST not set, falling back to in-memory storage")
		store = storage.NewInMemoryStore()
	}
	defer store.Close()

	log.LogProcess("KAFKA", "Initializing Kafka producer...")
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MockMode, log)
	if err != nil {
		log.Fatal("KAFKA", "Failed to create Kafka producer: "+err.Error())
	}
	defer producer.Close()

	var idempotency *rediswrap.Idempotency
	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
		idempotency = rediswrap.NewIdempotency(redisClient)
		log.LogProcess("REDIS", "Idempotency reservations enabled")
	} else {
		log.Warn("REDIS", "REDIS_ADDR not set, idempotency keys will be ignored")
	}

	stripeService, err := services.NewStripeService(cfg.Stripe, log)
	if err != nil {
		log.Fatal("STRIPE", "Failed to initialize Stripe service: "+err.Error())
	}

	phoneValidator := phone.NewValidator()

	paymentService := services.NewPaymentService(store, store, stripeService, producer, log, cfg.Payment.AcceptedCurrencies)
	registrationService := services.NewCustomerRegistrationService(store, phoneValidator, producer, log)
	accountService := services.NewAccountService(store, store, producer, log)
	log.LogProcess("SERVICE", "All services initialized")

	paymentHandler := handlers.NewPaymentHandler(paymentService, idempotency)
	customerHandler := handlers.NewCustomerHandler(registrationService)
	accountHandler := handlers.NewAccountHandler(accountService)

	// Registration requests can also arrive over Kafka.
	if !cfg.Kafka.MockMode {
		consumer, err := kafka.NewRegistrationConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, log)
		if err != nil {
			log.Fatal("KAFKA", "Failed to create registration consumer: "+err.Error())
		}
		defer consumer.Close()

		go func() {
			log.LogKafka("START", kafka.TopicRegistrations, "Starting registration consumer")
			if err := consumer.ConsumeRegistrations(context.Background(), registrationService.RegisterNewCustomer); err != nil {
				log.Error("KAFKA", "Consumer error: "+err.Error())
			}
		}()
	}

	router := setupRouter(paymentHandler, customerHandler, accountHandler, store)
	log.LogProcess("ROUTER", "HTTP router configured")

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.LogProcess("SERVER", "Starting HTTP server on "+cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "Server failed to start: "+err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("SHUTDOWN", "Received shutdown signal, initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("SHUTDOWN", "Server forced to shutdown: "+err.Error())
	}

	log.Info("SHUTDOWN", "Banking service shutdown completed")
}

func setupRouter(
	paymentHandler *handlers.PaymentHandler,
	customerHandler *handlers.CustomerHandler,
	accountHandler *handlers.AccountHandler,
	store storage.Store,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders(log))
	router.Use(middleware.RateLimit(log))

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := store.HealthCheck(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "banking-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.Register)
			customers.POST("/:id/charge", paymentHandler.ChargeCard)
			customers.GET("/:id/payments", paymentHandler.ListPayments)
		}

		v1.POST("/accounts", accountHandler.Create)
	}

	return router
}
