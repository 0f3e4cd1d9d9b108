package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kapu/content-strategy-go/internal/domain"
)

type tokenServer struct {
	calls     atomic.Int32
	status    int
	body      string
	userAgent atomic.Value
}

func (s *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	s.userAgent.Store(r.Header.Get("User-Agent"))

	if user, pass, ok := r.BasicAuth(); !ok || user != "client" || pass != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if s.status != 0 {
		w.WriteHeader(s.status)
	}
	_, _ = w.Write([]byte(s.body))
}

func newTestCache(t *testing.T, srv *httptest.Server) *TokenCache {
	t.Helper()
	return NewTokenCache(TokenCacheConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
		UserAgent:    "strategy-test/1.0",
		Validity:     50 * time.Minute,
		HTTPClient:   srv.Client(),
	}, nil)
}

func TestTokenCacheReusesValidToken(t *testing.T) {
	ts := &tokenServer{body: `{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`}
	srv := httptest.NewServer(ts)
	defer srv.Close()

	cache := newTestCache(t, srv)

	for i := 0; i < 3; i++ {
		tok, ok := cache.Token(context.Background())
		if !ok || tok != "tok-1" {
			t.Fatalf("expected tok-1, got %q (ok=%v)", tok, ok)
		}
	}

	if got := ts.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one exchange, got %d", got)
	}
	if ua, _ := ts.userAgent.Load().(string); ua != "strategy-test/1.0" {
		t.Fatalf("expected custom user agent, got %q", ua)
	}
}

func TestTokenCacheRefreshesAfterExpiry(t *testing.T) {
	ts := &tokenServer{body: `{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`}
	srv := httptest.NewServer(ts)
	defer srv.Close()

	cache := newTestCache(t, srv)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	if _, ok := cache.Token(context.Background()); !ok {
		t.Fatalf("expected first exchange to succeed")
	}
	if want := now.Add(50 * time.Minute); !cache.Cached().ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, cache.Cached().ExpiresAt)
	}

	now = now.Add(49 * time.Minute)
	_, _ = cache.Token(context.Background())
	if got := ts.calls.Load(); got != 1 {
		t.Fatalf("expected no refresh inside validity window, got %d calls", got)
	}

	now = now.Add(2 * time.Minute)
	_, _ = cache.Token(context.Background())
	if got := ts.calls.Load(); got != 2 {
		t.Fatalf("expected refresh after expiry, got %d calls", got)
	}
}

func TestTokenCacheFailureReturnsUnavailable(t *testing.T) {
	cases := map[string]*tokenServer{
		"server error":         {status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		"missing access_token": {body: `{"token_type":"bearer"}`},
	}

	for name, ts := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(ts)
			defer srv.Close()

			cache := newTestCache(t, srv)
			tok, ok := cache.Token(context.Background())
			if ok || tok != "" {
				t.Fatalf("expected unavailable token, got %q (ok=%v)", tok, ok)
			}
			if cache.Cached().Value != "" {
				t.Fatalf("failed exchange must not store a token")
			}
		})
	}
}

func TestTokenCacheConcurrentRefreshLastWriteWins(t *testing.T) {
	ts := &tokenServer{body: `{"access_token":"tok-2","token_type":"bearer","expires_in":3600}`}
	srv := httptest.NewServer(ts)
	defer srv.Close()

	cache := newTestCache(t, srv)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	cache.token = domain.AccessToken{Value: "tok-1", ExpiresAt: now.Add(-time.Minute)}

	const callers = 16
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	oks := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], oks[i] = cache.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if !oks[i] || tokens[i] != "tok-2" {
			t.Fatalf("caller %d: expected tok-2, got %q (ok=%v)", i, tokens[i], oks[i])
		}
	}
	if got := ts.calls.Load(); got < 1 || got > callers {
		t.Fatalf("expected between 1 and %d exchanges, got %d", callers, got)
	}
	cached := cache.Cached()
	if cached.Value != "tok-2" || !cached.Valid(now) {
		t.Fatalf("expected a valid cached token afterwards, got %+v", cached)
	}
}
