package constants

import "time"

var APIConfig = struct {
	RedditTokenURL     string
	RedditOAuthBaseURL string
	RedditTimeout      time.Duration
	LLMTimeout         time.Duration
}{
	RedditTokenURL:     "https://www.reddit.com/api/v1/access_token",
	RedditOAuthBaseURL: "https://oauth.reddit.com",
	RedditTimeout:      10 * time.Second,
	LLMTimeout:         90 * time.Second,
}

var TokenConfig = struct {
	// Validity is kept below the provider's 60 minute TTL.
	Validity time.Duration
}{
	Validity: 50 * time.Minute,
}

var FetchDefaults = struct {
	TrendingResults   int
	ChannelVideos     int
	HotPosts          int
	ChannelMatchLimit int
	MaxConcurrency    int
}{
	TrendingResults:   10,
	ChannelVideos:     5,
	HotPosts:          10,
	ChannelMatchLimit: 1,
	MaxConcurrency:    8,
}

var YouTubeQuota = struct {
	DailyLimit  int
	SearchCost  int
	ResetZone   string
	WarnPercent float64
}{
	DailyLimit:  10000,
	SearchCost:  100, // search.list cost
	ResetZone:   "America/Los_Angeles",
	WarnPercent: 80,
}

var PromptFallbacks = struct {
	NoData string
	Empty  string
}{
	NoData: "No data collected",
	Empty:  "N/A",
}

var RequestLimits = struct {
	MaxBodyBytes int64
}{
	MaxBodyBytes: 1 << 20,
}

var ModelDefaults = struct {
	Gemini string
	OpenAI string
}{
	Gemini: "gemini-2.5-flash",
	OpenAI: "gpt-4.1-mini",
}
