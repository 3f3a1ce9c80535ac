package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/justification-engine/internal/application"
	appai "github.com/bryanwahyu/justification-engine/internal/application/ai"
	appreview "github.com/bryanwahyu/justification-engine/internal/application/review"
	"github.com/bryanwahyu/justification-engine/internal/config"
	"github.com/bryanwahyu/justification-engine/internal/domain/letters"
	"github.com/bryanwahyu/justification-engine/internal/infra/ai/factory"
	mysqlp "github.com/bryanwahyu/justification-engine/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/justification-engine/internal/infra/db/postgres"
	"github.com/bryanwahyu/justification-engine/internal/infra/httpserver"
	"github.com/bryanwahyu/justification-engine/internal/infra/session"
	minioStore "github.com/bryanwahyu/justification-engine/internal/infra/storage"
	"github.com/bryanwahyu/justification-engine/internal/middleware"
	"github.com/bryanwahyu/justification-engine/internal/pkg/logger"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zl := logger.NewZapLogger(cfg.Log.FilePath, cfg.Log.Production)
	defer zl.Sync()

	ctx := context.Background()

	// init AI client
	client, err := factory.NewClient(factory.Options{
		Provider:  cfg.AI.Provider,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		BaseURL:   cfg.AI.BaseURL,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
	})
	if err != nil {
		log.Fatalf("ai client init error: %v", err)
	}
	if cfg.AI.APIKey == "" {
		zl.Warn("main", "no AI API key configured, every letter will use the fallback template", map[string]interface{}{"provider": cfg.AI.Provider})
	}

	sessions := session.NewMemoryStore(cfg.Session.TTL)
	middleware.SetSessionGauge(sessions.Count)

	svc := &appreview.Service{
		Sessions:      sessions,
		Writer:        appai.NewService(client, zl),
		Clock:         application.SystemClock{},
		AnalysisDelay: cfg.Analysis.Delay,
		Log:           zl,
	}
	checkers := map[string]middleware.HealthChecker{}

	// audit surat (opsional)
	if cfg.Database.Driver != "" {
		repo, db, err := openLetterStore(ctx, cfg)
		if err != nil {
			log.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
		}
		defer db.Close()
		svc.Letters = repo
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// arsip surat di minio (opsional)
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Archive = store
		checkers["archive"] = store
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, zl, httpserver.Options{
		CookieName:        cfg.Session.CookieName,
		SecureCookie:      cfg.Session.SecureCookie,
		SessionMaxAge:     int(cfg.Session.TTL / time.Second),
		MaxUploadBytes:    cfg.Upload.MaxBytes,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RateLimitCapacity: cfg.RateLimit.Capacity,
		RateLimitRefill:   cfg.RateLimit.RefillRate,
		HealthCheckers:    checkers,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	go func() {
		zl.Info("main", "server listening", map[string]interface{}{"addr": addr, "provider": cfg.AI.Provider})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zl.Info("main", "shutting down server...", nil)

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zl.Error("main", "shutdown error", map[string]interface{}{"error": err.Error()})
	}
}

func openLetterStore(ctx context.Context, cfg *config.Config) (letters.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return mysqlp.NewLetterRepository(db), db, nil
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := pgp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pgp.NewLetterRepository(db), db, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
}
