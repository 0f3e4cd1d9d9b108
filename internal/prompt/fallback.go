package prompt

import "fmt"

// FallbackStrategyPrompt is the inline copy of the strategy template, used
// when the embedded template cannot be rendered.
func FallbackStrategyPrompt(data StrategyPromptData) string {
	return fmt.Sprintf(`You are an expert content strategist and social media analyst.
Build a data-driven content strategy for the creator described below, using the collected platform signals.

## Creator
- Target audience: %s
- Primary goal: %s

## Collected Signals
**Trending YouTube videos for this niche**:
%s

**Recent videos from competitor channels** (format: Channel: titles | Channel: titles):
%s

**Hot discussions in relevant subreddits** (format: r/name: titles | r/name: titles):
%s

## Response Format (JSON ONLY)
Respond with a single JSON object with exactly these four top-level keys and no other text:
{
  "trendDiscovery": "analysis of current trends",
  "contentAnalysis": "analysis of what content performs and why",
  "competitorReport": "per-competitor findings and opportunities",
  "strategyCalendar": [
    {"day": 1, "platform": "YouTube", "title": "...", "format": "...", "description": "..."}
  ]
}

Rules:
- "strategyCalendar" MUST be an array of exactly %d entries, one per day.
- Every calendar entry MUST have exactly the keys "day", "platform", "title", "format", "description".
`, data.Audience, data.Goal, data.TrendingTitles, data.CompetitorVideos, data.SubredditPosts, data.CalendarDays)
}
