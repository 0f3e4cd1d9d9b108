package youtube

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type YouTubeService struct {
	service    *youtube.Service
	logger     *zap.Logger
	quotaUsed  int
	quotaMu    sync.Mutex
	quotaReset time.Time
}

// NewYouTubeService creates a Data API client keyed by apiKey. Extra options
// are appended after the key (tests use them to point at a local endpoint).
func NewYouTubeService(ctx context.Context, apiKey string, logger *zap.Logger, opts ...option.ClientOption) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	ys := &YouTubeService{
		service:    service,
		logger:     logger,
		quotaReset: getNextQuotaReset(),
	}

	logger.Info("YouTube service initialized",
		zap.Time("quotaReset", ys.quotaReset))

	return ys, nil
}

func getNextQuotaReset() time.Time {
	pt, err := time.LoadLocation(constants.YouTubeQuota.ResetZone)
	if err != nil {
		pt = time.FixedZone("PT", -8*60*60)
	}
	now := time.Now().In(pt)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, pt)
}

// consumeQuota records usage for reporting. Requests are never rejected
// locally; the API enforces the real limit.
func (ys *YouTubeService) consumeQuota(cost int) {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	if time.Now().After(ys.quotaReset) {
		ys.quotaUsed = 0
		ys.quotaReset = getNextQuotaReset()
		ys.logger.Info("YouTube API quota auto-reset",
			zap.Time("nextReset", ys.quotaReset))
	}

	ys.quotaUsed += cost
	limit := constants.YouTubeQuota.DailyLimit
	usagePercent := float64(ys.quotaUsed) / float64(limit) * 100

	ys.logger.Debug("YouTube API quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", ys.quotaUsed),
		zap.Int("remaining", limit-ys.quotaUsed),
		zap.Float64("usagePercent", usagePercent))

	if usagePercent >= constants.YouTubeQuota.WarnPercent {
		ys.logger.Warn("YouTube API quota running low",
			zap.Int("used", ys.quotaUsed),
			zap.Time("resetTime", ys.quotaReset))
	}
}

// GetQuotaStatus reports locally accounted usage since the last reset.
func (ys *YouTubeService) GetQuotaStatus() (used int, remaining int, resetTime time.Time) {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	limit := constants.YouTubeQuota.DailyLimit
	if time.Now().After(ys.quotaReset) {
		return 0, limit, getNextQuotaReset()
	}
	return ys.quotaUsed, limit - ys.quotaUsed, ys.quotaReset
}

// SearchVideos runs a keyword video search ordered by relevance.
func (ys *YouTubeService) SearchVideos(ctx context.Context, query string, maxResults int64) ([]domain.VideoResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.VideoResult{}, nil
	}

	call := ys.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(maxResults)

	response, err := call.Context(ctx).Do()
	ys.consumeQuota(constants.YouTubeQuota.SearchCost)
	if err != nil {
		return nil, wrapAPIError("search videos", err)
	}

	videos := videoTitles(response.Items)
	ys.logger.Debug("Keyword video search completed",
		zap.String("query", query),
		zap.Int("count", len(videos)))

	return videos, nil
}

// ResolveChannelID maps a channel name to the id of the first search match.
// An empty id with a nil error means no channel matched.
func (ys *YouTubeService) ResolveChannelID(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}

	call := ys.service.Search.List([]string{"snippet"}).
		Q(name).
		Type("channel").
		MaxResults(int64(constants.FetchDefaults.ChannelMatchLimit))

	response, err := call.Context(ctx).Do()
	ys.consumeQuota(constants.YouTubeQuota.SearchCost)
	if err != nil {
		return "", wrapAPIError("resolve channel", err)
	}

	for _, item := range response.Items {
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
		if item.Snippet != nil && item.Snippet.ChannelId != "" {
			return item.Snippet.ChannelId, nil
		}
	}
	return "", nil
}

// ChannelVideos resolves name to a channel and lists its most recent videos.
// A name with no matching channel yields an empty list.
func (ys *YouTubeService) ChannelVideos(ctx context.Context, name string, maxResults int64) ([]domain.VideoResult, error) {
	channelID, err := ys.ResolveChannelID(ctx, name)
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		ys.logger.Info("No YouTube channel matched",
			zap.String("channel", name))
		return []domain.VideoResult{}, nil
	}

	call := ys.service.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(maxResults)

	response, err := call.Context(ctx).Do()
	ys.consumeQuota(constants.YouTubeQuota.SearchCost)
	if err != nil {
		return nil, wrapAPIError("list channel videos", err)
	}

	videos := videoTitles(response.Items)
	ys.logger.Debug("Channel videos fetched",
		zap.String("channel", name),
		zap.String("channel_id", channelID),
		zap.Int("count", len(videos)))

	return videos, nil
}

func videoTitles(items []*youtube.SearchResult) []domain.VideoResult {
	videos := make([]domain.VideoResult, 0, len(items))
	for _, item := range items {
		if item == nil || item.Snippet == nil || item.Snippet.Title == "" {
			continue
		}
		videos = append(videos, domain.VideoResult{Title: item.Snippet.Title})
	}
	return videos
}

// QuotaExceededError is returned when the API rejects a call for quota reasons.
type QuotaExceededError struct {
	Operation string
	Reason    string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("YouTube API quota exceeded during %s: %s", e.Operation, e.Reason)
}

func wrapAPIError(operation string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == 403 {
		reason := apiErr.Message
		for _, item := range apiErr.Errors {
			if item.Reason != "" {
				reason = item.Reason
				break
			}
		}
		if strings.Contains(strings.ToLower(reason), "quota") {
			return &QuotaExceededError{Operation: operation, Reason: reason}
		}
	}
	return fmt.Errorf("YouTube API error (%s): %w", operation, err)
}
