package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"PodcastPoster/internal/config"
	"PodcastPoster/internal/domain"
	"PodcastPoster/internal/infrastructure/feed"
	"PodcastPoster/internal/infrastructure/lookup"
	"PodcastPoster/internal/infrastructure/scheduler"
	"PodcastPoster/internal/infrastructure/state"
	"PodcastPoster/internal/infrastructure/x"
	"PodcastPoster/internal/logging"
	"PodcastPoster/internal/ports"
	"PodcastPoster/internal/resolve"
	"PodcastPoster/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	closer   io.Closer
}

// New builds a runnable application instance. Missing submission
// credentials are a fatal configuration error unless running dry.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if !cfg.Credentialed() && !cfg.X.DryRun {
		return nil, fmt.Errorf("submission credentials are not configured (X_API_KEY / X_API_SECRET / X_ACCESS_TOKEN / X_ACCESS_SECRET)")
	}

	var (
		repo   ports.StateRepository
		closer io.Closer
	)
	switch cfg.State.Backend {
	case "sqlite":
		sqliteRepo, err := state.NewSQLiteRepository(cfg.State.Path)
		if err != nil {
			return nil, fmt.Errorf("state backend: %w", err)
		}
		repo = sqliteRepo
		closer = sqliteRepo
	default:
		repo = state.NewFileRepository(cfg.State.Path, baseLogger.With("component", "state"))
	}

	directory := lookup.NewClient(
		cfg.Directory.BaseURL,
		cfg.Directory.PageLimit,
		nil,
		baseLogger.With("component", "lookup"),
	)

	selector := resolve.NewSelector(
		[]resolve.Matcher{
			resolve.NewDirectoryMatcher(directory, cfg.Directory.Country, baseLogger.With("component", "matcher.directory")),
			resolve.NewEmbeddedMatcher(),
		},
		cfg.Post.AllowEnclosures,
		baseLogger.With("component", "selector"),
	)

	publisher := x.NewClient(
		x.Credentials{
			APIKey:       cfg.X.APIKey,
			APISecret:    cfg.X.APISecret,
			AccessToken:  cfg.X.AccessToken,
			AccessSecret: cfg.X.AccessSecret,
		},
		baseLogger.With("component", "publisher"),
		x.WithDryRun(cfg.X.DryRun),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    feed.NewSource(nil, baseLogger.With("component", "source")),
		Resolver:  selector,
		State:     repo,
		Publisher: publisher,
		Feeds:     toDomainFeeds(cfg.Feeds),
		Options: usecase.Options{
			CheckItems:   cfg.Post.CheckItems,
			FreshWaitMin: cfg.Post.FreshWaitMin,
			TitleMaxLen:  cfg.Post.TitleMaxLen,
			Limit:        cfg.Post.Limit,
			URLWidth:     cfg.Post.URLWidth,
		},
		Logger: baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, closer: closer}, nil
}

// Run performs a single pipeline execution, or blocks on the cron schedule
// when one is configured.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if a.cfg.Scheduler.CronExpression == "" {
		return a.pipeline.Run(ctx, time.Now())
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression)
	sched := usecase.NewScheduler(driver, a.pipeline)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

func (a *Application) close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warn("close state backend", "error", err)
		}
	}
}

func toDomainFeeds(cfg []config.FeedConfig) []domain.FeedConfig {
	feeds := make([]domain.FeedConfig, 0, len(cfg))
	for _, fc := range cfg {
		feeds = append(feeds, domain.FeedConfig{
			URL:                fc.URL,
			Template:           fc.Template,
			Kind:               domain.FeedKind(fc.Kind),
			ProgramName:        fc.ProgramName,
			DirectoryProgramID: fc.DirectoryProgramID,
			FreshWaitMin:       fc.FreshWaitMin,
		})
	}
	return feeds
}
