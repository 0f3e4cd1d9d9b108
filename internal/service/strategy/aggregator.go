package strategy

import (
	"context"

	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/internal/util"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// VideoSource is the YouTube side of the fan-out.
type VideoSource interface {
	SearchVideos(ctx context.Context, query string, maxResults int64) ([]domain.VideoResult, error)
	ChannelVideos(ctx context.Context, name string, maxResults int64) ([]domain.VideoResult, error)
}

// PostSource lists hot posts for a subreddit with a bearer token.
type PostSource interface {
	HotPosts(ctx context.Context, token, subreddit string, limit int) ([]domain.VideoResult, error)
}

// TokenProvider returns a bearer token, or false when none is available.
type TokenProvider interface {
	Token(ctx context.Context) (string, bool)
}

type FetchLimits struct {
	TrendingResults int
	ChannelVideos   int
	HotPosts        int
	MaxConcurrency  int
}

func DefaultFetchLimits() FetchLimits {
	return FetchLimits{
		TrendingResults: constants.FetchDefaults.TrendingResults,
		ChannelVideos:   constants.FetchDefaults.ChannelVideos,
		HotPosts:        constants.FetchDefaults.HotPosts,
		MaxConcurrency:  constants.FetchDefaults.MaxConcurrency,
	}
}

// Aggregator runs the three fetch groups concurrently. A failing fetch never
// fails the whole collection: it contributes an empty list and is recorded
// in the SourceReport.
type Aggregator struct {
	videos VideoSource
	posts  PostSource
	tokens TokenProvider
	limits FetchLimits
	logger *zap.Logger
}

func NewAggregator(videos VideoSource, posts PostSource, tokens TokenProvider, limits FetchLimits, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.MaxConcurrency <= 0 {
		limits.MaxConcurrency = constants.FetchDefaults.MaxConcurrency
	}
	return &Aggregator{
		videos: videos,
		posts:  posts,
		tokens: tokens,
		limits: limits,
		logger: logger,
	}
}

// Collect issues one keyword search, one listing per channel and one listing
// per subreddit, plus at most one token lookup. It returns after every fetch
// has finished.
func (a *Aggregator) Collect(ctx context.Context, req *domain.StrategyRequest) *domain.CollectedSources {
	report := &domain.SourceReport{}
	sources := &domain.CollectedSources{Report: report}

	var wg conc.WaitGroup
	wg.Go(func() {
		sources.Trending = a.fetchTrending(ctx, req.TrendingQuery(), report)
	})
	wg.Go(func() {
		sources.Channels = a.fetchChannels(ctx, req.CompetitorChannels, report)
	})
	wg.Go(func() {
		sources.Subreddits = a.fetchSubreddits(ctx, req.Subreddits, report)
	})
	wg.Wait()

	if report.HasDegraded() {
		a.logger.Warn("Some sources degraded to empty results",
			zap.Strings("sources", report.Degraded()))
	}

	return sources
}

func (a *Aggregator) fetchTrending(ctx context.Context, query string, report *domain.SourceReport) []domain.VideoResult {
	videos, err := a.videos.SearchVideos(ctx, query, int64(a.limits.TrendingResults))
	if err != nil {
		a.logger.Warn("Keyword video search failed",
			zap.String("query", query),
			zap.Error(err))
		report.MarkDegraded(domain.SourceYouTubeTrending)
		return []domain.VideoResult{}
	}
	return videos
}

func (a *Aggregator) fetchChannels(ctx context.Context, channels []string, report *domain.SourceReport) []domain.ChannelVideos {
	results := make([]domain.ChannelVideos, len(channels))
	if len(channels) == 0 {
		return results
	}

	p := pool.New().WithMaxGoroutines(a.limits.MaxConcurrency)
	for idx, channel := range channels {
		p.Go(func() {
			videos, err := a.videos.ChannelVideos(ctx, channel, int64(a.limits.ChannelVideos))
			if err != nil {
				a.logger.Warn("Channel video listing failed",
					zap.String("channel", channel),
					zap.Error(err))
				report.MarkDegraded(domain.SourceYouTubeChannel(channel))
				videos = []domain.VideoResult{}
			}
			results[idx] = domain.ChannelVideos{Channel: channel, Videos: videos}
		})
	}
	p.Wait()

	return results
}

func (a *Aggregator) fetchSubreddits(ctx context.Context, subreddits []string, report *domain.SourceReport) []domain.SubredditPosts {
	results := make([]domain.SubredditPosts, len(subreddits))
	if len(subreddits) == 0 {
		return results
	}
	for idx, name := range subreddits {
		results[idx] = domain.SubredditPosts{Subreddit: name, Posts: []domain.VideoResult{}}
	}

	token, ok := a.tokens.Token(ctx)
	if !ok {
		report.MarkDegraded(domain.SourceRedditToken)
		return results
	}

	p := pool.New().WithMaxGoroutines(a.limits.MaxConcurrency)
	for idx, name := range subreddits {
		p.Go(func() {
			posts, err := a.posts.HotPosts(ctx, token, name, a.limits.HotPosts)
			if err != nil {
				a.logger.Warn("Subreddit hot posts failed",
					zap.String("subreddit", name),
					zap.Error(err))
				report.MarkDegraded(domain.SourceSubreddit(util.TrimSubredditPrefix(name)))
				return
			}
			results[idx].Posts = posts
		})
	}
	p.Wait()

	return results
}
