package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"foodrunner-api/cache"
	"foodrunner-api/config"
	_ "foodrunner-api/docs"
	"foodrunner-api/handlers"
	"foodrunner-api/logger"
	"foodrunner-api/middleware"
	"foodrunner-api/notify"
	"foodrunner-api/routes"
	"foodrunner-api/services"
	"foodrunner-api/store"
	"foodrunner-api/store/gormstore"
	"foodrunner-api/store/mongostore"
	"foodrunner-api/uploads"
)

const serviceName = "foodrunner-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, os.Stdout, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service_failed", "", "API stopped with an error", err)
		os.Exit(1)
	}
	log.Info("service_stopped", "", "Service stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("db_close_failed", "", err.Error())
		}
	}()
	log.Info("db_connected", "", "Database ready", slog.String("driver", cfg.Database.Driver))

	// Redis is optional. Keep the interfaces nil when it is absent.
	var (
		responses *cache.Cache
		revoked   middleware.RevocationChecker
		revoker   services.TokenRevoker
	)
	rdb := config.ConnectRedis(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		responses = cache.New(rdb, cfg.Redis.CacheTTL, log)
		revocations := middleware.NewRedisRevocations(rdb)
		revoked, revoker = revocations, revocations
	}

	hub, closeHub := buildHub(cfg.Notify, rdb, st, log)
	defer closeHub()

	uploader, err := uploads.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		return fmt.Errorf("failed to configure uploads: %w", err)
	}

	tokens := middleware.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, revoked)
	authSvc := services.NewAuthService(st, services.NewPasswordHasher(cfg.Auth.PasswordHasher), tokens, revoker, uploader, log)
	catalogSvc := services.NewCatalogService(st, st)
	orderSvc := services.NewOrderService(st, st, st, hub, log)

	if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(cfg.CORSOrigins))

	h := handlers.New(authSvc, catalogSvc, orderSvc, tokens, log)
	h.SecureCookies = cfg.IsProduction()
	routes.SetupRoutes(r, h, tokens, responses)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("service_started", "", "Server running on port "+cfg.Port,
			slog.String("env", cfg.AppEnv),
			slog.String("swagger", "/swagger/index.html"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("graceful_shutdown", "", "Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.Driver == "mongo" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return mongostore.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	}
	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	return gormstore.New(db), nil
}

// buildHub subscribes the configured notifiers. A notifier whose backend is
// unavailable is skipped with a warning. The returned func drains pending
// deliveries before closing the backends.
func buildHub(cfg config.NotifyConfig, rdb *redis.Client, users store.Users, log *logger.Logger) (*notify.Hub, func()) {
	hub := notify.NewHub(log)
	var closers []func() error

	for _, name := range cfg.Notifiers {
		switch name {
		case "log":
			hub.Subscribe(notify.NewLogNotifier(log))
		case "amqp":
			n, err := notify.DialAMQP(cfg.AMQPURL)
			if err != nil {
				log.Warn("notifier_unavailable", "", err.Error(), slog.String("notifier", name))
				continue
			}
			hub.Subscribe(n)
			closers = append(closers, n.Close)
		case "redis":
			if rdb == nil {
				log.Warn("notifier_unavailable", "", "Redis is not configured", slog.String("notifier", name))
				continue
			}
			hub.Subscribe(notify.NewRedisNotifier(rdb))
		case "email":
			if cfg.SMTP.Host == "" {
				log.Warn("notifier_unavailable", "", "SMTP host is not configured", slog.String("notifier", name))
				continue
			}
			lookup := func(ctx context.Context, userID string) (string, error) {
				u, err := users.UserByID(ctx, userID)
				if err != nil {
					return "", err
				}
				return u.Email, nil
			}
			hub.Subscribe(notify.NewEmailNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, lookup))
		default:
			log.Warn("notifier_unknown", "", "Unknown notifier "+name)
		}
	}

	return hub, func() {
		hub.Close()
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn("notifier_close_failed", "", err.Error())
			}
		}
	}
}
