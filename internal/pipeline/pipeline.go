package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/extract"
	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/worker"
)

// Pipeline checks one claim: throttle, prompt, completion, parse
type Pipeline struct {
	provider llm.Provider
	throttle *worker.Limiter
	logger   *zap.Logger
}

// New builds the provider and throttle described by cfg
func New(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize inference provider: %w", err)
	}

	throttle := worker.NewLimiter(cfg.Throttle.RequestsPerSecond, cfg.Throttle.Burst)
	return NewPipeline(provider, throttle, logger), nil
}

// NewPipeline wires an existing provider. throttle may be nil.
func NewPipeline(provider llm.Provider, throttle *worker.Limiter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		provider: provider,
		throttle: throttle,
		logger:   logger.Named("pipeline"),
	}
}

// Provider returns the underlying inference provider
func (p *Pipeline) Provider() llm.Provider {
	return p.provider
}

// CheckClaim fact-checks one already validated claim.
//
// The completion runs on a context detached from ctx's cancellation: a caller
// that gives up does not abort calls already sent to the provider, their
// results are simply discarded. The provider's own timeout still applies.
func (p *Pipeline) CheckClaim(ctx context.Context, claim string) (*model.FactCheckResult, error) {
	if err := p.throttle.Wait(ctx, p.provider.Name()); err != nil {
		return nil, fmt.Errorf("wait for %s throttle: %w", p.provider.Name(), err)
	}

	raw, err := p.provider.Complete(context.WithoutCancel(ctx), llm.BuildPrompt(claim))
	if err != nil {
		return nil, err
	}

	result := extract.Parse(raw)
	if result.Verdict == model.VerdictUnclear {
		p.logger.Debug("completion had no recognizable verdict", zap.Int("length", len(raw)))
	}
	return &result, nil
}
