package app

import (
	"context"
	"fmt"
	"log/slog"

	"BiasFeed/internal/belief"
	"BiasFeed/internal/config"
	"BiasFeed/internal/domain"
	"BiasFeed/internal/infrastructure/backend"
	"BiasFeed/internal/infrastructure/intelligence"
	"BiasFeed/internal/infrastructure/llm"
	"BiasFeed/internal/infrastructure/mock"
	"BiasFeed/internal/infrastructure/scheduler"
	"BiasFeed/internal/infrastructure/storage"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/ports"
	"BiasFeed/internal/provider"
	"BiasFeed/internal/scoring"
	"BiasFeed/internal/usecase"
)

// Application wires configs to controllers for one user session.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	Profile   *belief.Store
	Articles  *usecase.ArticleFeed
	Stories   *usecase.StoryFeed
	Chat      *usecase.Chat
	Refresher *usecase.Refresher

	closers []func() error
}

// New builds the application. The caller owns Close.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	sink := logging.NewSlogSink(baseLogger.With("component", "events"))
	a := &Application{cfg: cfg, logger: baseLogger}

	repo, err := a.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, baseLogger.With("component", "backend"))

	articleRegistry := provider.NewRegistry[domain.Article]()
	articleRegistry.Register(backend.NewArticleProvider(client))
	articleRegistry.Register(mock.ArticleProvider{})

	storyRegistry := provider.NewRegistry[domain.Story]()
	storyRegistry.Register(backend.NewStoryProvider(client))
	storyRegistry.Register(mock.StoryProvider{})

	articleSource, err := provider.NewChainFromRegistry(articleRegistry, cfg.Feed.Chain, baseLogger.With("component", "source.articles"), sink)
	if err != nil {
		return nil, fmt.Errorf("article chain: %w", err)
	}
	storySource, err := provider.NewChainFromRegistry(storyRegistry, cfg.Feed.Chain, baseLogger.With("component", "source.stories"), sink)
	if err != nil {
		return nil, fmt.Errorf("story chain: %w", err)
	}

	var scorer ports.Scorer
	if cfg.Intelligence.URL != "" {
		scorer = intelligence.NewClient(cfg.Intelligence.URL, cfg.Intelligence.APIKey, intelligence.Options{
			Timeout:  cfg.Intelligence.Timeout,
			RetryMax: cfg.Intelligence.RetryMax,
			Logger:   baseLogger.With("component", "intelligence"),
		})
	}
	engine := scoring.NewEngine(scoring.EngineDeps{
		Scorer: scorer,
		Method: domain.ScoreMethod(cfg.Intelligence.Method),
		Logger: baseLogger.With("component", "scoring"),
		Sink:   sink,
	})

	a.Profile = belief.NewStore(belief.StoreDeps{
		Repository: repo,
		Logger:     baseLogger.With("component", "profile"),
		Sink:       sink,
	})

	token := func() string { return cfg.Backend.AuthToken }
	bias := cfg.Feed.Bias()

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:  articleSource,
		Engine:  engine,
		Beliefs: a.Profile,
		Logger:  baseLogger.With("component", "pipeline"),
	})
	a.Articles = usecase.NewArticleFeed(usecase.ArticleFeedDeps{
		Pipeline:         pipeline,
		Token:            token,
		RequireAuth:      cfg.Feed.RequireAuth,
		LimitPerCategory: cfg.Feed.LimitPerCategory,
		InitialBias:      &bias,
		Logger:           baseLogger.With("component", "articles"),
		Sink:             sink,
	})
	a.Stories = usecase.NewStoryFeed(usecase.StoryFeedDeps{
		Source:      storySource,
		Token:       token,
		PageSize:    cfg.Feed.PageSize,
		InitialBias: &bias,
		Logger:      baseLogger.With("component", "stories"),
		Sink:        sink,
	})

	var generator ports.ReplyGenerator = llm.CannedGenerator{}
	if cfg.Chat.APIKey != "" {
		generator = llm.NewOpenAIGenerator(llm.OpenAIConfig{
			APIKey:       cfg.Chat.APIKey,
			Model:        cfg.Chat.Model,
			BaseURL:      cfg.Chat.BaseURL,
			SystemPrompt: cfg.Chat.SystemPrompt,
			MaxHistory:   cfg.Chat.MaxHistory,
		})
	}
	a.Chat = usecase.NewChat(usecase.ChatDeps{
		Generator: generator,
		Logger:    baseLogger.With("component", "chat"),
		Sink:      sink,
	})

	a.Refresher = usecase.NewRefresher(
		scheduler.NewTickerScheduler(cfg.Feed.RefreshInterval),
		a.Stories,
		baseLogger.With("component", "refresher"),
	)

	if cfg.Feed.UserID != "" {
		if err := a.Profile.Initialize(ctx, cfg.Feed.UserID); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("initialize profile: %w", err)
		}
	}

	return a, nil
}

// Config returns the configuration the application was built from.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Logger returns the base logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Close persists the profile and releases storage.
func (a *Application) Close() error {
	var firstErr error
	if a.Profile != nil {
		if err := a.Profile.Save(context.Background()); err != nil {
			firstErr = err
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *Application) openRepository(ctx context.Context) (ports.ProfileRepository, error) {
	switch a.cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryRepository(), nil
	case "", "sqlite":
		repo, err := storage.OpenSQLite(ctx, a.cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open profile store: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
}
