package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-savings-circle/internal/events"
	"github.com/sbilibin2017/gw-savings-circle/internal/handlers"
	"github.com/sbilibin2017/gw-savings-circle/internal/jwt"
	"github.com/sbilibin2017/gw-savings-circle/internal/locker"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/metrics"
	"github.com/sbilibin2017/gw-savings-circle/internal/middlewares"
	"github.com/sbilibin2017/gw-savings-circle/internal/notifier"
	"github.com/sbilibin2017/gw-savings-circle/internal/repositories"
	"github.com/sbilibin2017/gw-savings-circle/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sbilibin2017/gw-savings-circle/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const (
	lockTTL     = 30 * time.Second
	lockTimeout = 5 * time.Second
)

// config holds everything read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	// Empty RedisHost disables the distributed circle lock
	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	// No brokers disables event publishing
	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret     string
	JWTExp        time.Duration
	WebhookSecret string

	CircleMaxMembers   int
	CircleAutoComplete bool

	NotifierWorkers   int
	NotifierQueueSize int
	NotifierMaxRetry  time.Duration
}

// @title gw-savings-circle API
// @version 1.0.0
// @description Rotating savings circles: membership, contributions, payouts and wallets
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the application config.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	if cfg.PGPort, err = getInt("POSTGRES_PORT", "5432"); err != nil {
		return
	}
	if cfg.PGMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return
	}
	if cfg.PGMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return
	}
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", "10"); err != nil {
		return
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return
	}

	// Kafka config
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "circle-events")

	// Auth config
	cfg.JWTSecret = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	jwtExpSecond, err := getInt("JWT_EXP_SECOND", "3600")
	if err != nil {
		return
	}
	cfg.JWTExp = time.Duration(jwtExpSecond) * time.Second
	cfg.WebhookSecret = getEnv("PAYMENT_WEBHOOK_SECRET", "")

	// Circle rules
	if cfg.CircleMaxMembers, err = getInt("CIRCLE_MAX_MEMBERS", strconv.Itoa(services.DefaultMaxMembers)); err != nil {
		return
	}
	if cfg.CircleAutoComplete, err = strconv.ParseBool(getEnv("CIRCLE_AUTO_COMPLETE", "true")); err != nil {
		err = fmt.Errorf("CIRCLE_AUTO_COMPLETE: %w", err)
		return
	}

	// Notifier config
	if cfg.NotifierWorkers, err = getInt("NOTIFIER_WORKERS", strconv.Itoa(notifier.DefaultWorkers)); err != nil {
		return
	}
	if cfg.NotifierQueueSize, err = getInt("NOTIFIER_QUEUE_SIZE", strconv.Itoa(notifier.DefaultQueueSize)); err != nil {
		return
	}
	maxRetrySecond, err := getInt("NOTIFIER_MAX_RETRY_SECONDS", "30")
	if err != nil {
		return
	}
	cfg.NotifierMaxRetry = time.Duration(maxRetrySecond) * time.Second

	return
}

// app is the set of dependencies the router needs.
type app struct {
	circles       *services.CircleService
	ledger        *services.LedgerService
	wallets       *services.WalletService
	notifications *services.NotificationService
	tokens        middlewares.Tokener
	audit         middlewares.AuditPublisher
	metrics       *metrics.Ledger
	webhookSecret string
}

// newRouter mounts the API under /api/v1. Everything except the payment webhook requires a bearer token.
func newRouter(a app, swaggerURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	audit := middlewares.AuditMiddleware(a.audit)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.With(audit).Post("/webhooks/payments", handlers.NewPaymentWebhookHandler(a.wallets, a.webhookSecret))

		// Protected routes with JWT middleware, audited with the caller's id
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(a.tokens))
			r.Use(audit)

			r.Post("/circles", handlers.NewCreateCircleHandler(a.circles))
			r.Get("/circles", handlers.NewListCirclesHandler(a.circles))
			r.Post("/circles/join", handlers.NewJoinCircleHandler(a.circles))
			r.Get("/circles/{circleID}", handlers.NewGetCircleHandler(a.circles, a.ledger))
			r.Patch("/circles/{circleID}", handlers.NewUpdateCircleHandler(a.circles))
			r.Post("/circles/{circleID}/start", handlers.NewStartCircleHandler(a.circles))
			r.Get("/circles/{circleID}/members", handlers.NewListMembersHandler(a.circles))
			r.Put("/circles/{circleID}/members/order", handlers.NewReorderMembersHandler(a.circles))
			r.Delete("/circles/{circleID}/members/{userID}", handlers.NewRemoveMemberHandler(a.circles))
			r.Post("/circles/{circleID}/contribute", handlers.NewContributeHandler(a.ledger))
			r.Post("/circles/{circleID}/claim", handlers.NewClaimHandler(a.ledger))

			r.Get("/wallet", handlers.NewGetWalletHandler(a.wallets))
			r.Get("/wallet/transactions", handlers.NewListTransactionsHandler(a.wallets))
			r.Post("/wallet/deposit", handlers.NewDepositHandler(a.wallets))

			r.Get("/notifications", handlers.NewListNotificationsHandler(a.notifications))
			r.Post("/notifications/{notificationID}/read", handlers.NewMarkNotificationReadHandler(a.notifications))
		})
	})

	r.Handle("/metrics", a.metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	return r
}

// run initializes the logger, database, Redis, Kafka, notifier and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgres connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	if err := repositories.Migrate(ctx, db); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	// Connect to Redis
	var circleLocker services.CircleLocker = locker.Noop{}
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection error: %w", err)
		}
		defer rdb.Close()
		circleLocker = locker.New(rdb, lockTTL, lockTimeout)
	} else {
		logger.Log.Warn("REDIS_HOST not set, circle locks are process local")
	}

	// Connect to Kafka
	var writer events.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		writer = events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Log.Infow("Publishing events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Log.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}
	publisher := events.NewPublisher(writer)

	if cfg.WebhookSecret == "" {
		logger.Log.Warn("PAYMENT_WEBHOOK_SECRET not set, payment webhooks will be rejected")
	}

	m := metrics.New()

	// Initialize repositories
	txManager := repositories.NewTxManager(db)
	circleRepo := repositories.NewCircleRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	contributionRepo := repositories.NewContributionRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize notifier
	dispatcher := notifier.New(notificationRepo, publisher, m, notifier.Config{
		Workers:   cfg.NotifierWorkers,
		QueueSize: cfg.NotifierQueueSize,
		MaxRetry:  cfg.NotifierMaxRetry,
	})

	// Initialize services
	a := app{
		circles: services.NewCircleService(txManager, circleRepo, memberRepo, walletRepo, dispatcher, cfg.CircleMaxMembers),
		ledger: services.NewLedgerService(txManager, circleRepo, memberRepo, contributionRepo, walletRepo, transactionRepo,
			circleLocker, dispatcher, m, cfg.CircleAutoComplete),
		wallets:       services.NewWalletService(txManager, walletRepo, transactionRepo, dispatcher),
		notifications: services.NewNotificationService(notificationRepo),
		tokens:        jwt.New(cfg.JWTSecret, cfg.JWTExp),
		audit:         publisher,
		metrics:       m,
		webhookSecret: cfg.WebhookSecret,
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: newRouter(a, fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	dispatcher.Close()
	if err := publisher.Close(); err != nil {
		logger.Log.Errorw("Kafka writer close error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return serveErr
}
