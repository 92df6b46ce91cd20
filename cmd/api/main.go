package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/content-insight/internal/application"
	appai "github.com/bryanwahyu/content-insight/internal/application/ai"
	appanalyses "github.com/bryanwahyu/content-insight/internal/application/analyses"
	appfiles "github.com/bryanwahyu/content-insight/internal/application/files"
	appprojects "github.com/bryanwahyu/content-insight/internal/application/projects"
	appstats "github.com/bryanwahyu/content-insight/internal/application/stats"
	appusers "github.com/bryanwahyu/content-insight/internal/application/users"
	"github.com/bryanwahyu/content-insight/internal/config"
	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
	"github.com/bryanwahyu/content-insight/internal/domain/files"
	"github.com/bryanwahyu/content-insight/internal/domain/project"
	"github.com/bryanwahyu/content-insight/internal/domain/users"
	"github.com/bryanwahyu/content-insight/internal/infra/ai/openai"
	"github.com/bryanwahyu/content-insight/internal/infra/ai/usage"
	"github.com/bryanwahyu/content-insight/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/content-insight/internal/infra/db/mysql"
	"github.com/bryanwahyu/content-insight/internal/infra/db/postgres"
	"github.com/bryanwahyu/content-insight/internal/infra/httpserver"
	"github.com/bryanwahyu/content-insight/internal/infra/logging"
	"github.com/bryanwahyu/content-insight/internal/infra/queue"
	minioStore "github.com/bryanwahyu/content-insight/internal/infra/storage"
	"github.com/bryanwahyu/content-insight/internal/middleware"
)

type repositories struct {
	analyses analysis.Repository
	projects project.Repository
	files    files.Repository
	users    users.Repository
	db       *sql.DB
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	if repos.db != nil {
		defer repos.db.Close()
	}
	checkers := map[string]middleware.HealthChecker{}
	if repos.db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: repos.db}
	}

	clock := application.SystemClock{}

	// seed demo user
	userSvc := &appusers.Service{Repo: repos.users, Clock: clock}
	demo, err := userSvc.EnsureDemo(ctx)
	if err != nil {
		return err
	}

	// init AI client
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is empty; analyses will fail until it is set")
	}
	counter := usage.NewCounter()
	aiClient := openai.NewClient(openai.Options{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		SentimentModel: cfg.OpenAI.SentimentModel,
	}, counter)

	analysesSvc := &appanalyses.Service{
		Repo:   repos.analyses,
		Runner: appai.NewOrchestrator(aiClient, logger.Named("orchestrator")),
		Clock:  clock,
		Log:    logger.Named("analyses"),
	}
	handle := func(ctx context.Context, job analysis.Job) error {
		return middleware.TrackJob(func() error {
			return analysesSvc.Process(ctx, job.AnalysisID)
		})
	}

	// init queue
	closeQueue, err := startQueue(ctx, cfg, analysesSvc, handle, logger, checkers)
	if err != nil {
		return err
	}

	// init minio (opsional)
	filesSvc := &appfiles.Service{Repo: repos.files, Clock: clock, Log: logger.Named("files")}
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.BucketName,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		filesSvc.Blobs = store
		checkers["storage"] = store
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Capacity > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
		defer limiter.Stop()
	}

	handler := httpserver.NewRouter(httpserver.Deps{
		Analyses:    analysesSvc,
		Projects:    &appprojects.Service{Repo: repos.projects, Clock: clock},
		Files:       filesSvc,
		Stats:       &appstats.Service{Analyses: repos.analyses, Projects: repos.projects, Usage: aiClient},
		Users:       userSvc,
		Log:         logger.Named("http"),
		APIKeys:     cfg.Auth.APIKeys,
		DefaultUser: demo.ID,
		Limiter:     limiter,
		CORSOrigins: cfg.Server.CORSOrigins,
		Checkers:    checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("store", cfg.Store.Driver),
			zap.String("queue", cfg.Queue.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	// drain background analyses after HTTP stops accepting new ones
	closeQueue()
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			analyses: mysqlp.NewAnalysisRepository(db),
			projects: mysqlp.NewProjectRepository(db),
			files:    mysqlp.NewFileRepository(db),
			users:    mysqlp.NewUserRepository(db),
			db:       db,
		}, nil
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			analyses: postgres.NewAnalysisRepository(db),
			projects: postgres.NewProjectRepository(db),
			files:    postgres.NewFileRepository(db),
			users:    postgres.NewUserRepository(db),
			db:       db,
		}, nil
	default:
		return &repositories{
			analyses: memory.NewAnalysisRepository(),
			projects: memory.NewProjectRepository(),
			files:    memory.NewFileRepository(),
			users:    memory.NewUserRepository(),
		}, nil
	}
}

// startQueue sets svc.Queue and returns a func that stops the workers.
func startQueue(ctx context.Context, cfg *config.Config, svc *appanalyses.Service, handle queue.Handler,
	logger *zap.Logger, checkers map[string]middleware.HealthChecker) (func(), error) {
	if cfg.Queue.Driver != config.QueueRabbitMQ {
		q := queue.NewInProcess(cfg.Queue.Workers, cfg.Queue.Buffer, handle, logger.Named("queue"))
		svc.Queue = q
		return func() { _ = q.Close() }, nil
	}

	conn, err := queue.Dial(ctx, cfg.Queue.RabbitURL)
	if err != nil {
		return nil, err
	}
	svc.Queue = queue.NewPublisher(conn, cfg.Queue.QueueName)
	consumer := queue.NewConsumer(conn, cfg.Queue.QueueName, cfg.Queue.Workers, handle, logger.Named("queue"))
	// consumer pakai context sendiri supaya tidak berhenti sebelum HTTP shutdown
	if err := consumer.Start(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	checkers["queue"] = middleware.CheckFunc(func(context.Context) error {
		if conn.IsClosed() {
			return errors.New("rabbitmq connection closed")
		}
		return nil
	})
	return func() {
		_ = consumer.Close()
		_ = conn.Close()
	}, nil
}
