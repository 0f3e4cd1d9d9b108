package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"google.golang.org/api/option"
)

type fakeDataAPI struct {
	mu       sync.Mutex
	requests []map[string]string
	channels map[string]string
	videos   map[string][]string
	trending []string
	status   int
	body     string
}

func (f *fakeDataAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.requests = append(f.requests, map[string]string{
		"path":      r.URL.Path,
		"type":      q.Get("type"),
		"q":         q.Get("q"),
		"order":     q.Get("order"),
		"channelId": q.Get("channelId"),
		"max":       q.Get("maxResults"),
	})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return
	}

	switch {
	case q.Get("type") == "channel":
		id, ok := f.channels[q.Get("q")]
		if !ok {
			_, _ = w.Write([]byte(`{"items":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":{"kind":"youtube#channel","channelId":"` + id + `"},"snippet":{"channelId":"` + id + `","title":"x"}}]}`))
	case q.Get("channelId") != "":
		writeVideos(w, f.videos[q.Get("channelId")])
	default:
		writeVideos(w, f.trending)
	}
}

func writeVideos(w http.ResponseWriter, titles []string) {
	body := `{"items":[`
	for i, title := range titles {
		if i > 0 {
			body += ","
		}
		body += `{"id":{"kind":"youtube#video","videoId":"v` + title + `"},"snippet":{"title":"` + title + `"}}`
	}
	body += `]}`
	_, _ = w.Write([]byte(body))
}

func newTestService(t *testing.T, api *fakeDataAPI) *YouTubeService {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := NewYouTubeService(context.Background(), "test-key", nil,
		option.WithEndpoint(srv.URL+"/"),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestSearchVideosOrdersByRelevance(t *testing.T) {
	api := &fakeDataAPI{trending: []string{"Full body workout", "Beginner mistakes"}}
	svc := newTestService(t, api)

	videos, err := svc.SearchVideos(context.Background(), "fitness beginners grow a YouTube channel", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(videos) != 2 || videos[0].Title != "Full body workout" {
		t.Fatalf("unexpected videos: %+v", videos)
	}

	req := api.requests[0]
	if req["type"] != "video" || req["order"] != "relevance" || req["max"] != "10" {
		t.Fatalf("unexpected search params: %v", req)
	}
	if used, _, _ := svc.GetQuotaStatus(); used != 100 {
		t.Fatalf("expected 100 quota units, got %d", used)
	}
}

func TestChannelVideosResolvesThenListsByDate(t *testing.T) {
	api := &fakeDataAPI{
		channels: map[string]string{"Athlean-X": "UC123"},
		videos:   map[string][]string{"UC123": {"Fix your squat", "Arm day"}},
	}
	svc := newTestService(t, api)

	videos, err := svc.ChannelVideos(context.Background(), "Athlean-X", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(videos) != 2 || videos[1].Title != "Arm day" {
		t.Fatalf("unexpected videos: %+v", videos)
	}

	if len(api.requests) != 2 {
		t.Fatalf("expected 2 API calls, got %d", len(api.requests))
	}
	if api.requests[0]["type"] != "channel" || api.requests[0]["max"] != "1" {
		t.Fatalf("unexpected resolve params: %v", api.requests[0])
	}
	if api.requests[1]["channelId"] != "UC123" || api.requests[1]["order"] != "date" || api.requests[1]["max"] != "5" {
		t.Fatalf("unexpected listing params: %v", api.requests[1])
	}
}

func TestChannelVideosNoMatchIsEmpty(t *testing.T) {
	api := &fakeDataAPI{channels: map[string]string{}}
	svc := newTestService(t, api)

	videos, err := svc.ChannelVideos(context.Background(), "Nobody", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if videos == nil || len(videos) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", videos)
	}
	if len(api.requests) != 1 {
		t.Fatalf("expected only the resolve call, got %d", len(api.requests))
	}
}

func TestQuotaErrorsAreTyped(t *testing.T) {
	api := &fakeDataAPI{
		status: http.StatusForbidden,
		body:   `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded","message":"quota"}]}}`,
	}
	svc := newTestService(t, api)

	_, err := svc.SearchVideos(context.Background(), "anything", 5)
	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if quotaErr.Reason != "quotaExceeded" {
		t.Fatalf("unexpected reason %q", quotaErr.Reason)
	}
}

func TestNewYouTubeServiceRequiresKey(t *testing.T) {
	if _, err := NewYouTubeService(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error without API key")
	}
}
