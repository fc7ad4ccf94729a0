package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sation/internal/auth"
	"sation/internal/config"
	"sation/internal/domain/services"
	"sation/internal/handler"
	"sation/internal/handler/sse"
	"sation/internal/middleware"
	"sation/internal/notify"
	"sation/internal/repository"
	serviceDocsys "sation/internal/service/docsystem"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logOut, closeLog, err := config.LogOutput(cfg, "server")
	if err != nil {
		log.Fatalf("Failed to set up log output: %v", err)
	}
	defer closeLog()

	logger := config.NewLogger(cfg.Environment, logOut)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"driver", cfg.DatabaseDriver,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	if verifier != nil {
		defer verifier.Close()
	}
	if cfg.DevUserID != "" {
		logger.Warn("DEV MODE: requests without a token act as DEV_USER_ID", "dev_user_id", cfg.DevUserID)
	}

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer backend.Close()

	// Change notices: in-process by default, fanned out through Redis when configured
	localBroker := notify.NewBroker(notify.DefaultBuffer, logger)
	var (
		publisher  services.ChangePublisher  = localBroker
		subscriber services.ChangeSubscriber = localBroker
	)
	if cfg.RedisURL != "" {
		client, err := notify.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()

		redisBroker := notify.NewRedisBroker(client, cfg.TablePrefix, localBroker, logger)
		go func() {
			if err := redisBroker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("redis relay stopped", "error", err)
			}
		}()
		publisher, subscriber = redisBroker, redisBroker
		logger.Info("change notices relayed through redis")
	}

	svc := serviceDocsys.SetupServices(backend.Documents, backend.TxManager, logger,
		serviceDocsys.WithPublisher(publisher),
	)

	handlers := &handler.Handlers{
		Documents: handler.NewDocumentHandler(svc.Documents, logger),
		Tree:      handler.NewTreeHandler(svc.Tree, logger),
		Archive:   handler.NewArchiveHandler(svc.Archive, svc.Trash, logger),
		Search:    handler.NewSearchHandler(svc.Search, logger),
		Events:    handler.NewEventsHandler(subscriber, &sse.Config{KeepAliveInterval: cfg.SSEKeepAlive}, logger),
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Logging → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(verifier, middleware.AuthOptions{
		PublicPrefixes: handler.PublicPrefixes,
		DevUserID:      cfg.DevUserID,
	}, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newVerifier prefers JWKS, then an HS256 secret. With neither, only DEV_USER_ID requests pass.
func newVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	switch {
	case cfg.JWKSURL != "":
		return auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	case cfg.JWTSecret != "":
		return auth.NewHMACVerifier(cfg.JWTSecret, logger)
	default:
		logger.Warn("no JWKS_URL or JWT_SECRET configured; bearer tokens will be rejected")
		return nil, nil
	}
}
