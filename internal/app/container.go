package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kapu/content-strategy-go/internal/config"
	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/server"
	"github.com/kapu/content-strategy-go/internal/service/ai"
	"github.com/kapu/content-strategy-go/internal/service/reddit"
	"github.com/kapu/content-strategy-go/internal/service/strategy"
	"github.com/kapu/content-strategy-go/internal/service/youtube"
	"go.uber.org/zap"
)

// Container bundles the assembled services behind the HTTP handler.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Handler  http.Handler
	Strategy *strategy.Service
	YouTube  *youtube.YouTubeService
	Tokens   *reddit.TokenCache

	closers []func()
}

// Close releases idle upstream connections.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles the strategy pipeline. When secrets are missing the
// pipeline is left unset and the handler answers every request with a
// configuration error, so the process still starts.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	container := &Container{Config: cfg, Logger: logger}

	handlerCfg := server.HandlerConfig{
		Secrets: cfg,
		Logger:  logger,
	}

	if missing := cfg.MissingSecrets(); len(missing) > 0 {
		logger.Warn("Required secrets are missing, strategy requests will be rejected",
			zap.Strings("missing", missing))
	} else {
		if err := container.buildPipeline(ctx); err != nil {
			container.Close()
			return nil, err
		}
		handlerCfg.Generator = container.Strategy
		handlerCfg.Quota = container.YouTube
		handlerCfg.Provider = cfg.LLM.Provider
	}

	container.Handler = server.NewRouter(server.NewHandler(handlerCfg))
	return container, nil
}

func (c *Container) buildPipeline(ctx context.Context) error {
	cfg, logger := c.Config, c.Logger

	ytSvc, err := youtube.NewYouTubeService(ctx, cfg.YouTube.APIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create youtube service: %w", err)
	}
	c.YouTube = ytSvc

	redditHTTP := &http.Client{Timeout: constants.APIConfig.RedditTimeout}
	c.closers = append(c.closers, redditHTTP.CloseIdleConnections)

	c.Tokens = reddit.NewTokenCache(reddit.TokenCacheConfig{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		Validity:     cfg.Reddit.TokenTTL,
		HTTPClient:   redditHTTP,
	}, logger)
	posts := reddit.NewClient(redditHTTP, constants.APIConfig.RedditOAuthBaseURL, cfg.Reddit.UserAgent, logger)

	provider, err := ai.NewProvider(ctx, ai.ProviderConfig{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLMAPIKey(),
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	synthesizer := ai.NewSynthesizer(provider, logger).WithTimeout(cfg.LLM.Timeout)

	aggregator := strategy.NewAggregator(ytSvc, posts, c.Tokens, strategy.FetchLimits{
		TrendingResults: cfg.YouTube.TrendingResults,
		ChannelVideos:   cfg.YouTube.ChannelVideos,
		HotPosts:        cfg.Reddit.HotPostLimit,
		MaxConcurrency:  constants.FetchDefaults.MaxConcurrency,
	}, logger)
	c.Strategy = strategy.NewService(aggregator, synthesizer, logger)

	logger.Info("Strategy pipeline assembled",
		zap.String("provider", provider.Name()),
		zap.String("model", provider.DefaultModel()),
		zap.Int("trending_results", cfg.YouTube.TrendingResults),
		zap.Int("channel_videos", cfg.YouTube.ChannelVideos),
		zap.Int("hot_posts", cfg.Reddit.HotPostLimit))

	return nil
}
