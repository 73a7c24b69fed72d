package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/config"
	"github.com/goalmate/amatta/internal/handlers"
	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/metadata"
	"github.com/goalmate/amatta/internal/middleware"
	"github.com/goalmate/amatta/internal/services/recommend"
	"github.com/goalmate/amatta/internal/session"
	"github.com/goalmate/amatta/internal/telemetry"
	"github.com/goalmate/amatta/internal/todolist"
)

// serviceName identifies this process in traces.
const serviceName = "amatta-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("upstream_base_url", cfg.UpstreamBaseURL),
		zap.String("completed_removal_mode", string(cfg.CompletedRemoval)),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry is optional; a broken collector must not stop the server.
	var tracingEnabled bool
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracingEnabled = true
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Redis backs rate limiting and the metadata cache. Both degrade
	// gracefully, so a missing redis is a warning, not a fatal.
	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		zapLogger.Warn("invalid_redis_url", zap.Error(err))
	} else {
		redisClient = redis.NewClient(opts)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			zapLogger.Warn("redis_unavailable", zap.Error(err))
			redisClient = nil
		} else {
			zapLogger.Info("connected_to_redis")
			defer func() {
				if err := redisClient.Close(); err != nil {
					zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
				}
			}()
		}
		pingCancel()
	}

	// Core wiring: one remote client feeds the proxy, the sessions and
	// the boards; the extractor feeds the og-image endpoint and the
	// enricher, which decorates both accepted results and refreshed
	// board lists.
	client := recommend.NewClient(cfg.UpstreamBaseURL, zapLogger)

	extractorOpts := []metadata.ExtractorOption{}
	if redisClient != nil {
		extractorOpts = append(extractorOpts,
			metadata.WithCache(metadata.NewRedisCache(redisClient, cfg.MetadataCacheTTL, zapLogger)))
	}
	extractor := metadata.NewExtractor(cfg.MetadataTimeout, zapLogger, extractorOpts...)
	enricher := metadata.NewEnricher(extractor, cfg.EnrichDelay, zapLogger)

	sessionManager := session.NewManager(client, enricher, zapLogger)
	boards := todolist.NewBoards(client, cfg.RemoveDelay, cfg.CompletedRemoval, zapLogger,
		todolist.WithEnricher(enricher))

	todoHandler := handlers.NewTodoProxyHandler(client, zapLogger)
	ogImageHandler := handlers.NewOGImageHandler(extractor)
	sessionHandler := handlers.NewSessionHandler(sessionManager, boards, zapLogger)
	boardHandler := handlers.NewBoardHandler(boards, zapLogger)
	healthChecker := handlers.NewHealthChecker(redisClient, cfg.UpstreamBaseURL)

	r := mux.NewRouter()

	// Middleware. Outermost first; gorilla/mux runs them in registration
	// order.
	if tracingEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes, no rate limiting for health checks.
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	openAPIHandler := handlers.NewOpenAPIHandler(openAPIPath)
	openAPIHandler.RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api").Subrouter()
	if redisClient != nil {
		rateLimitMW, err := middleware.RateLimit(redisClient, cfg.RateLimit)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
		apiRouter.Use(rateLimitMW)
	} else {
		zapLogger.Warn("rate_limiting_disabled_no_redis")
	}

	todoHandler.RegisterRoutes(apiRouter.PathPrefix("/todos").Subrouter())
	ogImageHandler.RegisterRoutes(apiRouter)
	sessionHandler.RegisterRoutes(apiRouter.PathPrefix("/sessions").Subrouter())
	boardHandler.RegisterRoutes(apiRouter.PathPrefix("/board").Subrouter())

	// Preflight requests get a bare 204; CORS headers are already set by
	// the middleware above.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
