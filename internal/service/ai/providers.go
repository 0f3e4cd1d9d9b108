package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/content-strategy-go/internal/config"
	"github.com/kapu/content-strategy-go/internal/constants"
	"go.uber.org/zap"
)

// JSONProvider is one LLM backend able to answer in JSON response mode.
type JSONProvider interface {
	Name() string
	DefaultModel() string
	Generate(ctx context.Context, prompt string, opts *GenerateOptions) (ProviderResult, error)
}

type ProviderResult struct {
	Text  string
	Model string
}

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint; empty uses the public API.
	BaseURL string
}

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg ProviderConfig, logger *zap.Logger) (JSONProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", cfg.Provider)
	}

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini, "":
		model := cfg.Model
		if model == "" {
			model = constants.ModelDefaults.Gemini
		}
		return NewGeminiProvider(ctx, cfg.APIKey, model, cfg.BaseURL, logger)
	case config.ProviderOpenAI:
		model := cfg.Model
		if model == "" {
			model = constants.ModelDefaults.OpenAI
		}
		return NewOpenAIProvider(cfg.APIKey, model, cfg.BaseURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (valid: %s, %s)", cfg.Provider, config.ProviderGemini, config.ProviderOpenAI)
	}
}

func resolveModel(defaultModel string, opts *GenerateOptions) string {
	if opts != nil && opts.Model != "" {
		return opts.Model
	}
	return defaultModel
}

func resolvePreset(opts *GenerateOptions) ModelPreset {
	if opts != nil && opts.Preset != "" {
		return opts.Preset
	}
	return PresetBalanced
}
