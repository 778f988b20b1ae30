package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type App struct {
	// Storage; memory keeps everything in process and needs neither Postgres nor Redis
	Store          string   `envconfig:"STORE" default:"postgres"`
	SeedProperties []string `envconfig:"SEED_PROPERTIES"`
	// DB
	DBHost            string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort            string        `envconfig:"DB_PORT" default:"5432"`
	DBUser            string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword        string        `envconfig:"DB_PASSWORD"`
	DBName            string        `envconfig:"DB_NAME" default:"viewing_scheduler"`
	DBSSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	// Redis
	RedisHost string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort string        `envconfig:"REDIS_PORT" default:"6379"`
	RedisDB   int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	// RabbitMQ; events are only logged when empty
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`
	// Identity
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	// Scheduling
	Timezone string `envconfig:"SCHEDULER_TIMEZONE" default:"Europe/Amsterdam"`
	// Network
	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	// Tracing; disabled when empty
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Env          string `envconfig:"ENV" default:"dev"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (App, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println(".env not found, using OS environment only")
	}

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return c, fmt.Errorf("invalid STORE %q: want %s or %s", c.Store, StorePostgres, StoreMemory)
	}
	return c, nil
}

func (c App) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c App) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
