package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kapu/content-strategy-go/internal/config"
	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/internal/prompt"
	"github.com/kapu/content-strategy-go/internal/service/reddit"
	"github.com/kapu/content-strategy-go/internal/service/strategy"
	"github.com/kapu/content-strategy-go/internal/service/youtube"
)

var (
	flagAudience   string
	flagGoal       string
	flagChannels   []string
	flagSubreddits []string
	flagFormat     string
	flagTimeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "probe_sources",
	Short: "Run the source fan-out against live APIs",
	Long:  "probe_sources fetches trending videos, competitor uploads and subreddit hot posts, then prints what was collected and the assembled prompt. The LLM is never called.",
	RunE:  runProbe,
}

func init() {
	rootCmd.Flags().StringVar(&flagAudience, "audience", "", "target audience (required)")
	rootCmd.Flags().StringVar(&flagGoal, "goal", "", "content goal (required)")
	rootCmd.Flags().StringSliceVar(&flagChannels, "channel", nil, "competitor YouTube channel name (repeatable)")
	rootCmd.Flags().StringSliceVar(&flagSubreddits, "subreddit", nil, "subreddit name (repeatable)")
	rootCmd.Flags().StringVar(&flagFormat, "format", "text", "output format: text, json or yaml")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "overall fetch timeout")
	_ = rootCmd.MarkFlagRequired("audience")
	_ = rootCmd.MarkFlagRequired("goal")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type probeReport struct {
	Trending   []domain.VideoResult    `json:"trending" yaml:"trending"`
	Channels   []domain.ChannelVideos  `json:"channels" yaml:"channels"`
	Subreddits []domain.SubredditPosts `json:"subreddits" yaml:"subreddits"`
	Degraded   []string                `json:"degraded" yaml:"degraded"`
	QuotaUsed  int                     `json:"youtubeQuotaUsed" yaml:"youtubeQuotaUsed"`
	Prompt     string                  `json:"prompt" yaml:"prompt"`
}

func runProbe(cmd *cobra.Command, _ []string) error {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.YouTube.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	yt, err := youtube.NewYouTubeService(ctx, cfg.YouTube.APIKey, logger)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: constants.APIConfig.RedditTimeout}
	tokens := reddit.NewTokenCache(reddit.TokenCacheConfig{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		Validity:     cfg.Reddit.TokenTTL,
		HTTPClient:   httpClient,
	}, logger)
	posts := reddit.NewClient(httpClient, "", cfg.Reddit.UserAgent, logger)

	aggregator := strategy.NewAggregator(yt, posts, tokens, strategy.FetchLimits{
		TrendingResults: cfg.YouTube.TrendingResults,
		ChannelVideos:   cfg.YouTube.ChannelVideos,
		HotPosts:        cfg.Reddit.HotPostLimit,
	}, logger)

	req := &domain.StrategyRequest{
		Audience:           flagAudience,
		Goal:               flagGoal,
		CompetitorChannels: flagChannels,
		Subreddits:         flagSubreddits,
	}
	sources := aggregator.Collect(ctx, req)
	used, _, _ := yt.GetQuotaStatus()

	report := probeReport{
		Trending:   sources.Trending,
		Channels:   sources.Channels,
		Subreddits: sources.Subreddits,
		Degraded:   sources.Report.Degraded(),
		QuotaUsed:  used,
		Prompt:     prompt.BuildStrategyPrompt(req.Audience, req.Goal, sources),
	}

	out := cmd.OutOrStdout()
	switch flagFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(report)
	case "text":
		fmt.Fprintf(out, "=== Trending (%d) ===\n", len(report.Trending))
		for _, v := range report.Trending {
			fmt.Fprintf(out, "  - %s\n", v.Title)
		}
		for _, ch := range report.Channels {
			fmt.Fprintf(out, "=== Channel %s (%d) ===\n", ch.Channel, len(ch.Videos))
			for _, v := range ch.Videos {
				fmt.Fprintf(out, "  - %s\n", v.Title)
			}
		}
		for _, sub := range report.Subreddits {
			fmt.Fprintf(out, "=== %s (%d) ===\n", sub.Subreddit, len(sub.Posts))
			for _, p := range sub.Posts {
				fmt.Fprintf(out, "  - %s\n", p.Title)
			}
		}
		if len(report.Degraded) > 0 {
			fmt.Fprintf(out, "\nDegraded: %v\n", report.Degraded)
		}
		fmt.Fprintf(out, "YouTube quota used: %d/%d\n\n", report.QuotaUsed, constants.YouTubeQuota.DailyLimit)
		fmt.Fprintln(out, report.Prompt)
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: text, json, yaml)", flagFormat)
	}
}
