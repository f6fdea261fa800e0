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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Admpapi/lucifer-website/internal/cart"
	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/checkout"
	h "github.com/Admpapi/lucifer-website/internal/http"
	"github.com/Admpapi/lucifer-website/internal/metrics"
	"github.com/Admpapi/lucifer-website/internal/order"
	"github.com/Admpapi/lucifer-website/internal/payment"
	"github.com/Admpapi/lucifer-website/internal/publisher"
	"github.com/Admpapi/lucifer-website/internal/support"
)

type Config struct {
	HTTPPort        string
	BaseURL         string
	StripeSecretKey string

	CatalogDBPath         string
	CatalogMigrationsPath string

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string
	CartCacheTTL  time.Duration

	PGHost                string
	PGPort                int
	PGUser                string
	PGPassword            string
	PGDBName              string
	OrdersMigrationsPath  string
	SupportMigrationsPath string

	KafkaBrokers []string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:3000"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "./storefront.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_PATH", "./internal/catalog/migrations"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storefront"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CartCacheTTL:  getEnvDuration("CART_CACHE_TTL", 15*time.Minute),

		PGHost:                getEnv("POSTGRES_HOST", "localhost"),
		PGPort:                getEnvInt("POSTGRES_PORT", 5432),
		PGUser:                getEnv("POSTGRES_USER", "storefront"),
		PGPassword:            getEnv("POSTGRES_PASSWORD", "storefront"),
		PGDBName:              getEnv("POSTGRES_DB", "storefront"),
		OrdersMigrationsPath:  getEnv("ORDERS_MIGRATIONS_PATH", "./internal/order/migrations"),
		SupportMigrationsPath: getEnv("SUPPORT_MIGRATIONS_PATH", "./internal/support/migrations"),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	if cfg.StripeSecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}

	ctx := context.Background()

	// Catalog store (sqlite)
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog database ready at %s", cfg.CatalogDBPath)

	// Cart store (mongo) + cache (redis)
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartRepo := cart.NewMongoRepository(mongoDB)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	cartSvc := cart.NewService(cartRepo, cart.NewRedisCache(redisClient, cfg.CartCacheTTL), catalogRepo)

	// Orders + support (postgres)
	creds := &order.Credentials{
		Host:              cfg.PGHost,
		Port:              cfg.PGPort,
		User:              cfg.PGUser,
		Password:          cfg.PGPassword,
		DBName:            cfg.PGDBName,
		MigrationsDirPath: cfg.OrdersMigrationsPath,
	}
	orderRepo, err := order.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run order migrations: %v", err)
	}

	supportRepo := support.NewRepository(orderRepo.DB())
	if err := supportRepo.RunMigrations(cfg.SupportMigrationsPath); err != nil {
		log.Fatalf("Failed to run support migrations: %v", err)
	}
	supportSvc := support.NewService(supportRepo)
	log.Printf("Postgres ready at %s:%d", cfg.PGHost, cfg.PGPort)

	// Checkout (stripe behind a circuit breaker)
	checkoutMetrics := metrics.NewCheckoutMetrics()
	provider := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.RequestTimeout)
	checkoutSvc := checkout.NewService(provider, orderRepo, checkoutMetrics, cfg.BaseURL)

	// Outbox poller feeds the purchase-notification topic
	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	poller := publisher.NewOutboxPoller(orderRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)
	log.Printf("Outbox poller started, brokers: %v", cfg.KafkaBrokers)

	// Handlers
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, cfg.RequestTimeout)
	orderHandler := h.NewOrderHandler(checkoutSvc, orderRepo, cfg.RequestTimeout)
	productHandler := h.NewProductHandler(catalogRepo, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartSvc, checkoutSvc, cfg.RequestTimeout)
	supportHandler := h.NewSupportHandler(supportSvc, cfg.RequestTimeout)
	adminHandler := h.NewAdminHandler(orderRepo, supportSvc, catalogRepo, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/create-checkout-session", checkoutHandler.CreateSession)
		r.Get("/order-details", orderHandler.GetOrderDetails)
		r.Get("/orders", orderHandler.ListOrders)
		r.Get("/products", productHandler.ListProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/support-tickets", func(r chi.Router) {
			r.Get("/", supportHandler.ListTickets)
			r.Post("/", supportHandler.CreateTicket)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.AdminOnly)
			r.Get("/orders", adminHandler.ListOrders)
			r.Get("/analytics", adminHandler.GetAnalytics)
			r.Post("/products", adminHandler.CreateProduct)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.Printf("failed to disconnect mongo client: %v", err)
	}

	log.Println("server exited")
}
