package domain

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Source identifiers reported when a fetch degrades to an empty result.
const (
	SourceYouTubeTrending = "youtube:trending"
	SourceRedditToken     = "reddit:token"
)

// Names are query-escaped so ids never contain the comma used to join them.
func SourceYouTubeChannel(name string) string {
	return "youtube:channel:" + url.QueryEscape(name)
}

func SourceSubreddit(name string) string {
	return "reddit:r/" + url.QueryEscape(name)
}

// SourceReport collects degraded sources during a fan-out. Each id is
// recorded once. Safe for concurrent use.
type SourceReport struct {
	mu       sync.Mutex
	degraded map[string]struct{}
}

func (r *SourceReport) MarkDegraded(source string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.degraded == nil {
		r.degraded = make(map[string]struct{})
	}
	r.degraded[source] = struct{}{}
}

// Degraded returns the degraded sources sorted for stable output.
func (r *SourceReport) Degraded() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.degraded))
	for source := range r.degraded {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}

func (r *SourceReport) HasDegraded() bool {
	return len(r.Degraded()) > 0
}

func (r *SourceReport) String() string {
	return strings.Join(r.Degraded(), ",")
}

// CollectedSources is the output of the fetch fan-out.
type CollectedSources struct {
	Trending   []VideoResult
	Channels   []ChannelVideos
	Subreddits []SubredditPosts
	Report     *SourceReport
}
