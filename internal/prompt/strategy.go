package prompt

import (
	"fmt"
	"strings"

	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/internal/util"
)

const (
	titleSeparator   = ", "
	segmentSeparator = " | "
)

// NewStrategyPromptData flattens collected signals into prompt strings.
// Empty sources become placeholder markers so the prompt stays well formed.
func NewStrategyPromptData(audience, goal string, sources *domain.CollectedSources) StrategyPromptData {
	noData := constants.PromptFallbacks.NoData
	empty := constants.PromptFallbacks.Empty

	data := StrategyPromptData{
		Audience:         strings.TrimSpace(audience),
		Goal:             strings.TrimSpace(goal),
		TrendingTitles:   noData,
		CompetitorVideos: noData,
		SubredditPosts:   noData,
		CalendarDays:     domain.CalendarDays,
		NoDataMarker:     noData,
		EmptyMarker:      empty,
	}
	if sources == nil {
		return data
	}

	data.TrendingTitles = util.JoinOrFallback(domain.Titles(sources.Trending), titleSeparator, noData)

	if len(sources.Channels) > 0 {
		segments := make([]string, 0, len(sources.Channels))
		for _, ch := range sources.Channels {
			titles := util.JoinOrFallback(domain.Titles(ch.Videos), titleSeparator, empty)
			segments = append(segments, fmt.Sprintf("%s: %s", ch.Channel, titles))
		}
		data.CompetitorVideos = util.JoinOrFallback(segments, segmentSeparator, noData)
	}

	if len(sources.Subreddits) > 0 {
		segments := make([]string, 0, len(sources.Subreddits))
		for _, sub := range sources.Subreddits {
			titles := util.JoinOrFallback(domain.Titles(sub.Posts), titleSeparator, empty)
			segments = append(segments, fmt.Sprintf("r/%s: %s", util.TrimSubredditPrefix(sub.Subreddit), titles))
		}
		data.SubredditPosts = util.JoinOrFallback(segments, segmentSeparator, noData)
	}

	return data
}

// BuildStrategyPrompt renders the strategy prompt. It is pure: the same input
// always yields the same text.
func BuildStrategyPrompt(audience, goal string, sources *domain.CollectedSources) string {
	data := NewStrategyPromptData(audience, goal, sources)
	rendered, err := DefaultPromptBuilder().Render(TemplateStrategyPrompt, data)
	if err != nil {
		return FallbackStrategyPrompt(data)
	}
	return rendered
}
