package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/catalog"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/kv"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/notify"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/web"
)

type Config struct {
	HTTPPort        string
	StoreBackend    string // memory | redis | mongo | postgres
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsDir   string
	KafkaBrokers    string
	CacheRedisAddr  string // order read cache; empty disables it
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StoreBackend:    getEnv("STORE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "shopstream"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    pgPort,
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "shopstream"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		CacheRedisAddr:  getEnv("ORDER_CACHE_REDIS_ADDR", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func openStore(ctx context.Context, cfg *Config) (kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return kv.NewMemoryStore(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to redis at %s", cfg.RedisAddr)
		return kv.NewRedisStore(client), func() { client.Close() }, nil
	case "mongo":
		db, err := kv.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
		return kv.NewMongoStore(db), func() { db.Client().Disconnect(ctx) }, nil
	case "postgres":
		store, err := kv.NewPostgresStore(&kv.Credentials{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			DBName:   cfg.PostgresDB,
		})
		if err != nil {
			return nil, nil, err
		}
		if e2 := store.RunMigrations(cfg.MigrationsDir); e2 != nil {
			return nil, nil, e2
		}
		log.Printf("Connected to postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)
		return store, func() { store.Close() }, nil
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
		return nil, nil, nil
	}
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	blobs, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open durable store: %v", err)
	}
	defer closeStore()

	var cache order.Cache
	if cfg.CacheRedisAddr != "" {
		cacheClient := redis.NewClient(&redis.Options{Addr: cfg.CacheRedisAddr})
		defer cacheClient.Close()
		if e2 := cacheClient.Ping(ctx).Err(); e2 != nil {
			log.Fatal("Order cache redis connection failed:", e2)
		}
		cache = order.NewRedisCache(cacheClient)
		log.Printf("Order cache enabled at %s", cfg.CacheRedisAddr)
	}

	var notifier order.Notifier = notify.Noop{}
	if cfg.KafkaBrokers != "" {
		publisher := notify.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer publisher.Close()
		notifier = publisher
		log.Printf("Order events publishing to %s", cfg.KafkaBrokers)
	}

	orderService := order.NewService(blobs, cache, notifier)
	lookup := order.NewLookup(orderService)
	sessions := web.NewSessions(blobs, orderService)
	provider := catalog.NewStaticProvider(catalog.DemoProducts())

	router := web.NewRouter(
		web.NewCartHandler(sessions, provider),
		web.NewCheckoutHandler(sessions),
		web.NewOrdersHandler(lookup, cfg.RequestTimeout),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.Fatalf("server error: %v", errServe)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		log.Fatalf("server forced to shutdown: %v", errShutdown)
	}

	log.Println("server exited")
}
