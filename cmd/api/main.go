package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/viewing_scheduler/internal/adapter/cache"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/handler"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/publisher"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/repository/memory"
	"github.com/srgjo27/viewing_scheduler/internal/adapter/repository/postgres"
	"github.com/srgjo27/viewing_scheduler/internal/core/ports"
	"github.com/srgjo27/viewing_scheduler/internal/core/services"
	"github.com/srgjo27/viewing_scheduler/internal/platform/config"
	"github.com/srgjo27/viewing_scheduler/internal/platform/database"
	"github.com/srgjo27/viewing_scheduler/internal/platform/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	shutdownTracer, err := obs.InitTracer(context.Background(), "viewing-scheduler", cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}

	var events ports.EventPublisher = publisher.LogPublisher{}
	if cfg.RabbitURL != "" {
		amqpPub, err := publisher.NewAMQPPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpPub.Close()
		events = amqpPub
		log.Printf("Publishing booking events to exchange %s", cfg.BookingExchange)
	}

	var (
		bookingRepo      ports.BookingRepository
		propertyDir      ports.PropertyDirectory
		userDir          ports.UserDirectory
		reservationCache ports.ReservationCache
	)

	switch cfg.Store {
	case config.StoreMemory:
		properties := memory.NewPropertyDirectory()
		if err := properties.Seed(cfg.SeedProperties); err != nil {
			log.Fatalf("Invalid SEED_PROPERTIES: %v", err)
		}
		bookingRepo = memory.NewBookingRepository(properties)
		propertyDir = properties
		userDir = memory.NewUserDirectory()
		reservationCache = memory.NewReservationCache(loc)
		log.Printf("Using in-memory store with %d seeded properties", len(cfg.SeedProperties))

	default:
		db, err := database.NewPostgresDB(database.Config{
			Host:            cfg.DBHost,
			Port:            cfg.DBPort,
			User:            cfg.DBUser,
			Password:        cfg.DBPassword,
			DBName:          cfg.DBName,
			SSLMode:         cfg.DBSSLMode,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			log.Fatalf("Failed to connect to db after retries: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate db: %v", err)
		}

		log.Printf("Connecting to Redis at %s...", cfg.RedisAddr())

		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr(),
			DB:   cfg.RedisDB,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Redis connected successfully!")
		defer redisClient.Close()

		bookingRepo = postgres.NewBookingRepository(db)
		propertyDir = postgres.NewPropertyDirectory(db)
		userDir = postgres.NewUserDirectory(db)
		reservationCache = cache.NewReservationCache(redisClient, cfg.CacheTTL, loc)
	}

	clock := ports.RealClock{}
	validator := services.NewConflictValidator(loc)

	bookingService := services.NewBookingService(bookingRepo, propertyDir, events, reservationCache, validator, clock)
	availabilityService := services.NewAvailabilityService(bookingRepo, propertyDir, reservationCache, validator, clock)
	calendarService := services.NewCalendarService(bookingRepo, propertyDir, userDir, validator)

	bookingHandler := handler.NewBookingHandler(bookingService, availabilityService, calendarService)
	router := handler.NewRouter(bookingHandler, []byte(cfg.JWTSecret), cfg.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracer(ctx); err != nil {
		log.Printf("Tracer shutdown: %v", err)
	}

	log.Println("Server exiting")
}
