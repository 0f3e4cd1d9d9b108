package strategy

import (
	"context"
	"time"

	"github.com/kapu/content-strategy-go/internal/domain"
	"github.com/kapu/content-strategy-go/internal/prompt"
	"go.uber.org/zap"
)

// Synthesizer produces the strategy document from a prompt.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) (*domain.StrategyResult, error)
}

// Outcome is a successful generation plus the sources that degraded on the way.
type Outcome struct {
	Result *domain.StrategyResult
	Report *domain.SourceReport
}

// Service runs fetch, prompt assembly and synthesis for one request.
type Service struct {
	aggregator  *Aggregator
	synthesizer Synthesizer
	logger      *zap.Logger
}

func NewService(aggregator *Aggregator, synthesizer Synthesizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		aggregator:  aggregator,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Generate never fails because of a data source; only synthesis errors
// are returned.
func (s *Service) Generate(ctx context.Context, req *domain.StrategyRequest) (*Outcome, error) {
	start := time.Now()

	sources := s.aggregator.Collect(ctx, req)
	s.logger.Debug("Sources collected",
		zap.Int("trending", len(sources.Trending)),
		zap.Int("channels", len(sources.Channels)),
		zap.Int("subreddits", len(sources.Subreddits)),
		zap.Duration("elapsed", time.Since(start)))

	text := prompt.BuildStrategyPrompt(req.Audience, req.Goal, sources)

	result, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Strategy generated",
		zap.String("audience", req.Audience),
		zap.String("provider", result.Provider),
		zap.Strings("degraded", sources.Report.Degraded()),
		zap.Duration("elapsed", time.Since(start)))

	return &Outcome{Result: result, Report: sources.Report}, nil
}
