package prompt

import (
	"strings"
	"testing"

	"github.com/kapu/content-strategy-go/internal/domain"
)

func sampleSources() *domain.CollectedSources {
	return &domain.CollectedSources{
		Trending: []domain.VideoResult{{Title: "Full body workout"}, {Title: "Beginner mistakes"}},
		Channels: []domain.ChannelVideos{
			{Channel: "Athlean-X", Videos: []domain.VideoResult{{Title: "Fix your squat"}, {Title: "Arm day"}}},
			{Channel: "Ghost Channel", Videos: []domain.VideoResult{}},
		},
		Subreddits: []domain.SubredditPosts{
			{Subreddit: "r/fitness", Posts: []domain.VideoResult{{Title: "Daily thread"}}},
		},
	}
}

func TestNewStrategyPromptDataFlattensSources(t *testing.T) {
	data := NewStrategyPromptData(" fitness beginners ", "grow a YouTube channel", sampleSources())

	if data.Audience != "fitness beginners" {
		t.Fatalf("expected trimmed audience, got %q", data.Audience)
	}
	if data.TrendingTitles != "Full body workout, Beginner mistakes" {
		t.Fatalf("unexpected trending titles: %q", data.TrendingTitles)
	}
	if data.CompetitorVideos != "Athlean-X: Fix your squat, Arm day | Ghost Channel: N/A" {
		t.Fatalf("unexpected competitor block: %q", data.CompetitorVideos)
	}
	if data.SubredditPosts != "r/fitness: Daily thread" {
		t.Fatalf("unexpected subreddit block: %q", data.SubredditPosts)
	}
	if data.CalendarDays != 30 {
		t.Fatalf("expected 30 calendar days, got %d", data.CalendarDays)
	}
}

func TestNewStrategyPromptDataFallbacks(t *testing.T) {
	data := NewStrategyPromptData("a", "b", &domain.CollectedSources{})

	for name, got := range map[string]string{
		"trending":   data.TrendingTitles,
		"competitor": data.CompetitorVideos,
		"subreddit":  data.SubredditPosts,
	} {
		if got != "No data collected" {
			t.Fatalf("expected %s fallback, got %q", name, got)
		}
	}

	nilData := NewStrategyPromptData("a", "b", nil)
	if nilData.TrendingTitles != "No data collected" {
		t.Fatalf("expected fallback for nil sources, got %q", nilData.TrendingTitles)
	}
}

func TestBuildStrategyPromptRequestsSchema(t *testing.T) {
	prompt := BuildStrategyPrompt("fitness beginners", "grow a YouTube channel", sampleSources())

	for _, want := range []string{
		"fitness beginners",
		"grow a YouTube channel",
		"Athlean-X: Fix your squat, Arm day",
		"r/fitness: Daily thread",
		`"trendDiscovery"`,
		`"contentAnalysis"`,
		`"competitorReport"`,
		`"strategyCalendar"`,
		"exactly 30 entries",
		`"day", "platform", "title", "format", "description"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildStrategyPromptIsDeterministic(t *testing.T) {
	a := BuildStrategyPrompt("x", "y", sampleSources())
	b := BuildStrategyPrompt("x", "y", sampleSources())
	if a != b {
		t.Fatalf("expected identical prompts for identical input")
	}
}

func TestFallbackPromptMatchesTemplateContract(t *testing.T) {
	data := NewStrategyPromptData("x", "y", sampleSources())
	fallback := FallbackStrategyPrompt(data)

	for _, want := range []string{"exactly 30 entries", `"strategyCalendar"`, data.CompetitorVideos} {
		if !strings.Contains(fallback, want) {
			t.Fatalf("fallback prompt missing %q", want)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := NewPromptBuilder().Render("missing.yaml", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}
