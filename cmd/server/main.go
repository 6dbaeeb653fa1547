package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/techlab_admin/internal/config"
	"github.com/Skotchmaster/techlab_admin/internal/events"
	"github.com/Skotchmaster/techlab_admin/internal/httpserver"
	"github.com/Skotchmaster/techlab_admin/internal/repo"
	"github.com/Skotchmaster/techlab_admin/internal/search"
	"github.com/Skotchmaster/techlab_admin/internal/service"
	pkgdb "github.com/Skotchmaster/techlab_admin/pkg/db"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
	middleware "github.com/Skotchmaster/techlab_admin/pkg/middleware/auth"
	"github.com/Skotchmaster/techlab_admin/pkg/tokens"
	"github.com/Skotchmaster/techlab_admin/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Env, cfg.LogLevel).With("service", "techlab-admin")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}

	store := repo.New(db)
	if err := store.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(ctx, cfg.KafkaBrokers[0], events.TopicProducts, events.TopicUsers); err != nil {
			logger.Warn("kafka_topics_not_ensured", "error", err)
		}
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			cancel()
			log.Fatalf("kafka: %v", err)
		}
		publisher = kp
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	products := &service.ProductService{Store: store, Events: publisher}
	if cfg.ESURL != "" {
		idx, err := search.NewIndex(ctx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_index_disabled", "reason", "cannot reach elasticsearch", "error", err)
		} else {
			products.Index = idx
			logger.Info("search_index_enabled", "index", idx.Name())
		}
	}
	cancel()

	if products.Index != nil {
		rctx, rcancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), time.Minute)
		n, err := products.Reindex(rctx)
		rcancel()
		if err != nil {
			logger.Warn("search_reindex_incomplete", "indexed", n, "error", err)
		} else {
			logger.Info("search_reindexed", "indexed", n)
		}
	}

	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authHandler := &httpserver.AuthHTTP{Svc: &service.AuthService{Users: store, Tokens: issuer}}

	e := httpserver.New(httpserver.Options{
		Logger:      logger,
		Development: cfg.IsDevelopment(),
		CORSOrigins: cfg.FrontendURLs,
		Dashboard:   web.Public(),
	}, &httpserver.Deps{
		AuthHandler:    authHandler,
		UserHandler:    &httpserver.UserHTTP{Svc: &service.UserService{Store: store, Events: publisher}, Auth: authHandler},
		ProductHandler: &httpserver.ProductHTTP{Svc: products},
		HealthHandler:  &httpserver.HealthHTTP{Store: store, Environment: cfg.Env},
		TokenAuth:      middleware.NewTokenAuth(issuer),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
