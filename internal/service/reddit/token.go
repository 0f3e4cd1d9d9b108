package reddit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenCacheConfig configures the application-only OAuth exchange.
type TokenCacheConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	UserAgent    string
	Validity     time.Duration
	HTTPClient   *http.Client
}

// TokenCache holds one bearer token with a locally enforced expiry and
// refreshes it synchronously when it is absent or expired.
//
// Concurrent callers that all observe an expired token each run their own
// exchange; the last write wins. Tokens are interchangeable within their
// validity window, so the lock only covers reads and writes of the value.
type TokenCache struct {
	credentials *clientcredentials.Config
	httpClient  *http.Client
	validity    time.Duration
	now         func() time.Time
	logger      *zap.Logger

	mu    sync.RWMutex
	token domain.AccessToken
}

func NewTokenCache(cfg TokenCacheConfig, logger *zap.Logger) *TokenCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = constants.APIConfig.RedditTokenURL
	}

	validity := cfg.Validity
	if validity <= 0 {
		validity = constants.TokenConfig.Validity
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.APIConfig.RedditTimeout}
	}

	return &TokenCache{
		credentials: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: withUserAgent(httpClient, cfg.UserAgent),
		validity:   validity,
		now:        time.Now,
		logger:     logger,
	}
}

// Token returns a usable bearer token. ok is false when the exchange failed;
// callers treat that as the forum source being unavailable.
func (tc *TokenCache) Token(ctx context.Context) (string, bool) {
	if cached := tc.Cached(); cached.Valid(tc.now()) {
		return cached.Value, true
	}

	tc.logger.Debug("Reddit token missing or expired, exchanging credentials")

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, tc.httpClient)
	tok, err := tc.credentials.Token(exchangeCtx)
	if err != nil {
		tc.logger.Warn("Reddit token exchange failed", zap.Error(err))
		return "", false
	}
	if tok.AccessToken == "" {
		tc.logger.Warn("Reddit token response missing access_token")
		return "", false
	}

	fresh := domain.AccessToken{
		Value:     tok.AccessToken,
		ExpiresAt: tc.now().Add(tc.validity),
	}

	tc.mu.Lock()
	tc.token = fresh
	tc.mu.Unlock()

	tc.logger.Info("Reddit token refreshed",
		zap.Time("expires_at", fresh.ExpiresAt))

	return fresh.Value, true
}

// Cached returns the currently stored token without refreshing.
func (tc *TokenCache) Cached() domain.AccessToken {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.token
}

