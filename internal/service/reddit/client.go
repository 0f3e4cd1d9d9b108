package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/internal/util"
	"github.com/kapu/content-strategy-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title string `json:"title"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Client lists subreddit posts through the OAuth API host.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(httpClient *http.Client, baseURL, userAgent string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.APIConfig.RedditTimeout}
	}
	if baseURL == "" {
		baseURL = constants.APIConfig.RedditOAuthBaseURL
	}
	return &Client{
		httpClient: withUserAgent(httpClient, userAgent),
		baseURL:    baseURL,
		logger:     logger,
	}
}

// HotPosts returns the titles of the current hot posts in subreddit.
// "r/" prefixes are accepted.
func (c *Client) HotPosts(ctx context.Context, token, subreddit string, limit int) ([]domain.VideoResult, error) {
	name := util.TrimSubredditPrefix(subreddit)
	if name == "" {
		return nil, errors.NewAPIError("empty subreddit name", 400, map[string]any{
			"subreddit": subreddit,
		})
	}
	if limit <= 0 {
		limit = constants.FetchDefaults.HotPosts
	}

	reqURL := fmt.Sprintf("%s/r/%s/hot?limit=%s", c.baseURL, url.PathEscape(name), strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}

	authed := &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "bearer"}),
			Base:   c.httpClient.Transport,
		},
	}

	resp, err := authed.Do(req)
	if err != nil {
		return nil, errors.NewAPIError("request failed", 502, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewAPIError(
			fmt.Sprintf("Reddit API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{
				"url":  reqURL,
				"body": string(bodyBytes),
			},
		)
	}

	var payload listing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.NewAPIError("failed to decode response", 502, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}

	posts := make([]domain.VideoResult, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		if child.Data.Title == "" {
			continue
		}
		posts = append(posts, domain.VideoResult{Title: child.Data.Title})
	}

	c.logger.Debug("Reddit hot posts fetched",
		zap.String("subreddit", name),
		zap.Int("count", len(posts)))

	return posts, nil
}

type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}

// withUserAgent returns a copy of client that stamps every request with
// userAgent. Reddit throttles requests carrying generic agents.
func withUserAgent(client *http.Client, userAgent string) *http.Client {
	if userAgent == "" {
		return client
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *client
	wrapped.Transport = &userAgentTransport{userAgent: userAgent, base: base}
	return &wrapped
}
