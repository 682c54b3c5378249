package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"RiskMonitor/internal/classifier"
	"RiskMonitor/internal/config"
	"RiskMonitor/internal/domain"
	"RiskMonitor/internal/httpapi"
	"RiskMonitor/internal/infrastructure/llm"
	"RiskMonitor/internal/infrastructure/parser"
	"RiskMonitor/internal/infrastructure/scheduler"
	"RiskMonitor/internal/infrastructure/slack"
	"RiskMonitor/internal/infrastructure/storage"
	"RiskMonitor/internal/infrastructure/telegram"
	"RiskMonitor/internal/logging"
	"RiskMonitor/internal/notify"
	"RiskMonitor/internal/ports"
	"RiskMonitor/internal/review"
	"RiskMonitor/internal/scanner"
	"RiskMonitor/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	db    *sql.DB
	redis *redis.Client

	classifier *classifier.Classifier
	pipeline   *usecase.Pipeline
	scheduler  *usecase.Scheduler
	handler    *httpapi.Handler
}

// New builds the application. Postgres, Redis, the AI backend and chat
// channels are optional; each is wired only when configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	a.classifier = classifier.New(cfg.Classifier.Tables(), baseLogger.With("component", "classifier"))

	if err := a.openDatabase(ctx); err != nil {
		return nil, err
	}
	repo := storage.NewPostgresRepository(a.db)
	if err := repo.Migrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewNaverScanner(cfg.Naver, nil, baseLogger.With("component", "scanner.naver")))
	lookback := time.Duration(cfg.Naver.LookbackHours) * time.Hour
	source := parser.NewStrategySource(registry, cfg.Sites, cfg.Naver.MaxArticles, lookback, baseLogger.With("component", "source"))

	aiClient := llm.NewOpenAIClient(cfg.AI)
	enricher := llm.NewEnricher(aiClient, cfg.AI.Model, a.classifier, baseLogger)

	deps := usecase.PipelineDeps{
		Source:            source,
		Classifier:        a.classifier,
		Notifier:          a.notifier(),
		Deduper:           a.deduper(ctx),
		Workers:           cfg.Classifier.Workers,
		EnrichConcurrency: cfg.AI.Concurrency,
		Logger:            baseLogger,
	}
	if a.db != nil {
		deps.Repository = repo
	}
	if aiClient != nil {
		deps.Enricher = enricher
	}
	a.pipeline = usecase.NewPipeline(deps)

	hour, minute, err := cfg.Scheduler.ClockTime()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	driver := scheduler.NewDailyScheduler(hour, minute, cfg.Scheduler.Location())
	a.scheduler = usecase.NewScheduler(driver, a.pipeline, baseLogger)

	workflow := review.NewService(repo, baseLogger.With("component", "review"))
	a.handler = httpapi.NewHandler(repo, workflow, enricher, a.classifier, baseLogger)

	return a, nil
}

func (a *Application) openDatabase(ctx context.Context) error {
	if a.cfg.Database.DSN == "" {
		a.logger.Warn("database dsn not set, running without persistence")
		return nil
	}

	db, err := sql.Open("postgres", a.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	a.db = db
	return nil
}

func (a *Application) notifier() ports.Notifier {
	n := a.cfg.Notifications
	var channels []notify.Channel
	if n.Telegram.BotToken != "" && n.Telegram.ChatID != "" {
		channels = append(channels, notify.Channel{Name: "telegram", Notifier: telegram.NewNotifier(n.Telegram.BotToken, n.Telegram.ChatID)})
	}
	if n.Slack.WebhookURL != "" {
		channels = append(channels, notify.Channel{Name: "slack", Notifier: slack.NewNotifier(n.Slack.WebhookURL)})
	}

	fanout := notify.NewFanout(a.logger, channels...)
	if fanout.Len() == 0 {
		return nil
	}
	return fanout
}

func (a *Application) deduper(ctx context.Context) ports.AlertDeduper {
	redisCfg := a.cfg.Notifications.Redis
	if redisCfg.URL == "" {
		return nil
	}

	client, err := notify.ConnectRedis(ctx, redisCfg.URL)
	if err != nil {
		a.logger.Warn("redis unavailable, alerts will not be de-duplicated", "err", err)
		return nil
	}
	a.redis = client
	return notify.NewRedisDeduper(client, redisCfg.AlertTTL)
}

// Collect performs a single pipeline run for today in the configured timezone.
func (a *Application) Collect(ctx context.Context) (usecase.RunStats, error) {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.ProcessDay(ctx, now)
}

// Classify runs the engine over ad-hoc text.
func (a *Application) Classify(title, description string) domain.Classification {
	return a.classifier.Classify(title, description)
}

// Serve runs the review API and the daily scheduler until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(a.handler, a.cfg.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr, "collect_at", a.cfg.Scheduler.CollectAt)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown", "err", err)
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Error("scheduler shutdown", "err", err)
	}

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

// Close releases database and Redis connections.
func (a *Application) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
