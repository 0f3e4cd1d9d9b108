package domain

import (
	"encoding/json"
	"strings"
)

// StrategyRequest is the validated inbound request.
type StrategyRequest struct {
	Audience           string
	Goal               string
	CompetitorChannels []string
	Subreddits         []string
}

// TrendingQuery is the keyword query used for the generic video search.
func (r *StrategyRequest) TrendingQuery() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Audience + " " + r.Goal)
}

// VideoResult is a reduced projection of a platform search result.
// Subreddit posts reuse the same shape.
type VideoResult struct {
	Title string `json:"title"`
}

type ChannelVideos struct {
	Channel string        `json:"channel"`
	Videos  []VideoResult `json:"videos"`
}

type SubredditPosts struct {
	Subreddit string        `json:"subreddit"`
	Posts     []VideoResult `json:"posts"`
}

// Titles flattens results into their titles, skipping blanks.
func Titles(results []VideoResult) []string {
	titles := make([]string, 0, len(results))
	for _, r := range results {
		if t := strings.TrimSpace(r.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Top-level keys the synthesized strategy must carry.
const (
	KeyTrendDiscovery   = "trendDiscovery"
	KeyContentAnalysis  = "contentAnalysis"
	KeyCompetitorReport = "competitorReport"
	KeyStrategyCalendar = "strategyCalendar"
)

// CalendarDays is the required length of strategyCalendar.
const CalendarDays = 30

// StrategyKeys lists the top-level keys in response order.
var StrategyKeys = []string{
	KeyTrendDiscovery,
	KeyContentAnalysis,
	KeyCompetitorReport,
	KeyStrategyCalendar,
}

// CalendarEntryKeys lists the fields every calendar day must have.
var CalendarEntryKeys = []string{"day", "platform", "title", "format", "description"}

// StrategyResult holds the LLM output. Raw is returned to the caller as-is;
// Document is the decoded view used for validation and logging.
type StrategyResult struct {
	Raw      json.RawMessage
	Document map[string]json.RawMessage
	Provider string
	Model    string
}

