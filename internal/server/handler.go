package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kapu/content-strategy-go/internal/constants"
	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/internal/service/strategy"
	"github.com/kapu/content-strategy-go/pkg/errors"
	"go.uber.org/zap"
)

// StrategyGenerator runs the fetch, prompt and synthesis pipeline.
type StrategyGenerator interface {
	Generate(ctx context.Context, req *domain.StrategyRequest) (*strategy.Outcome, error)
}

// SecretChecker reports unset secrets by name.
type SecretChecker interface {
	MissingSecrets() []string
}

// QuotaReporter exposes locally accounted YouTube quota.
type QuotaReporter interface {
	GetQuotaStatus() (used int, remaining int, resetTime time.Time)
}

type HandlerConfig struct {
	Secrets   SecretChecker
	Generator StrategyGenerator
	Quota     QuotaReporter
	Provider  string
	Logger    *zap.Logger
}

type Handler struct {
	secrets   SecretChecker
	generator StrategyGenerator
	quota     QuotaReporter
	provider  string
	logger    *zap.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		secrets:   cfg.Secrets,
		generator: cfg.Generator,
		quota:     cfg.Quota,
		provider:  cfg.Provider,
		logger:    logger,
	}
}

// strategyRequestBody uses pointers so absent fields can be told apart
// from empty ones.
type strategyRequestBody struct {
	Audience           *string   `json:"audience"`
	Goal               *string   `json:"goal"`
	CompetitorChannels *[]string `json:"competitorYouTubeChannels"`
	Subreddits         *[]string `json:"relevantSubreddits"`
}

func (h *Handler) strategy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
		return
	}

	req, err := decodeStrategyRequest(r)
	if err != nil {
		var verr *errors.ValidationError
		if stderrors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message, fmt.Sprintf("field: %s", verr.Field))
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if missing := h.missingSecrets(); len(missing) > 0 {
		cfgErr := errors.NewConfigError(missing)
		h.logger.Error("Required secrets are not configured",
			zap.Strings("missing", cfgErr.Missing),
			zap.String("request_id", requestIDFromContext(r.Context())))
		writeError(w, cfgErr.StatusCode, cfgErr.Message, "")
		return
	}

	outcome, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		h.logger.Error("Strategy generation failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
		writeError(w, errors.StatusCode(err), "Internal server error", err.Error())
		return
	}

	if outcome.Report.HasDegraded() {
		w.Header().Set(headerSourcesDegraded, outcome.Report.String())
	}
	writeRawJSON(w, http.StatusOK, outcome.Result.Raw)
}

func (h *Handler) missingSecrets() []string {
	var missing []string
	if h.secrets != nil {
		missing = h.secrets.MissingSecrets()
	}
	if len(missing) == 0 && h.generator == nil {
		missing = []string{"strategy pipeline"}
	}
	return missing
}

func decodeStrategyRequest(r *http.Request) (*domain.StrategyRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, constants.RequestLimits.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > constants.RequestLimits.MaxBodyBytes {
		return nil, fmt.Errorf("request body exceeds %d bytes", constants.RequestLimits.MaxBodyBytes)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}

	var payload strategyRequestBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	switch {
	case payload.Audience == nil || strings.TrimSpace(*payload.Audience) == "":
		return nil, errors.NewValidationError("Missing required field: audience", "audience", nil)
	case payload.Goal == nil || strings.TrimSpace(*payload.Goal) == "":
		return nil, errors.NewValidationError("Missing required field: goal", "goal", nil)
	case payload.CompetitorChannels == nil:
		return nil, errors.NewValidationError("competitorYouTubeChannels must be an array", "competitorYouTubeChannels", nil)
	case payload.Subreddits == nil:
		return nil, errors.NewValidationError("relevantSubreddits must be an array", "relevantSubreddits", nil)
	}

	return &domain.StrategyRequest{
		Audience:           strings.TrimSpace(*payload.Audience),
		Goal:               strings.TrimSpace(*payload.Goal),
		CompetitorChannels: compact(*payload.CompetitorChannels),
		Subreddits:         compact(*payload.Subreddits),
	}, nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type healthResponse struct {
	Status           string `json:"status"`
	Provider         string `json:"provider,omitempty"`
	YouTubeQuotaUsed int    `json:"youtubeQuotaUsed"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Provider: h.provider}
	if h.quota != nil {
		resp.YouTubeQuotaUsed, _, _ = h.quota.GetQuotaStatus()
	}
	writeJSON(w, http.StatusOK, resp)
}
