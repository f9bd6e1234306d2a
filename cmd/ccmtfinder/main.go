package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/config"
	dbRedis "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/db/redis"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/pipeline"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	logpkg "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/logger"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/metrics"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/repository/session"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/repository/table"
	chiTransport "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/transport/chi"
	finderuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/finder"
	healthuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/health"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/version"
)

// sessionStore is what both the finder and the health check need from a session backend.
type sessionStore interface {
	finderuc.SessionStore
	healthuc.Pinger
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting CCMT program finder",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_path", cfg.Data.Path),
		zap.String("strategy", cfg.Data.Strategy),
		zap.String("sessions_driver", cfg.Sessions.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	ctx := context.Background()

	// Dataset: parsed once, classified at load time
	loader := table.NewLoader(cfg.Data.Path, institute.NewClassifier(institute.DefaultRules...), logger).
		WithDelimiter(cfg.Data.DelimiterRune())
	tables := table.NewCached(loader, logger)
	if _, err := tables.Table(ctx); err != nil {
		// Serve anyway: requests get 503 and the next one retries the load.
		logger.Warn("Dataset not loaded at startup", zap.Error(err))
	}

	matcher, err := program.NewMatcher(program.Strategy(cfg.Data.Strategy))
	if err != nil {
		logger.Fatal("Invalid program strategy", zap.Error(err))
	}

	sessions, closeSessions := buildSessionStore(ctx, cfg.Sessions, logger)
	defer closeSessions()

	finderSvc := finderuc.New(tables, sessions, pipeline.New(matcher)).
		WithSourceNote(cfg.Data.SourceNote)
	healthSvc := healthuc.New(tables, sessions)

	server := chiTransport.NewServer(finderSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Location"},
	}).Handler)
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildSessionStore creates the session backend for the configured driver.
// The returned func releases it.
func buildSessionStore(ctx context.Context, cfg config.SessionsConfig, logger *zap.Logger) (sessionStore, func()) {
	ttl := time.Duration(cfg.TTLSec) * time.Second

	switch cfg.Driver {
	case "redis", "valkey":
		// rueidis speaks RESP3 to both Redis and Valkey.
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create session store", zap.Error(err))
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			logger.Fatal("Session store not ready", zap.Error(err))
		}
		logger.Info("Connected to session store",
			zap.String("driver", cfg.Driver),
			zap.Strings("addrs", cfg.Addrs),
		)
		return session.NewKV(store, cfg.KeyPrefix, ttl), store.Close
	default:
		mem := session.NewMemory(ttl, time.Duration(cfg.SweepSec)*time.Second)
		return mem, mem.Close
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
