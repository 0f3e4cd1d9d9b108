package prompt

// StrategyPromptData feeds the strategy template. The list fields are
// already flattened to their prompt strings.
type StrategyPromptData struct {
	Audience         string
	Goal             string
	TrendingTitles   string
	CompetitorVideos string
	SubredditPosts   string
	CalendarDays     int
	NoDataMarker     string
	EmptyMarker      string
}
