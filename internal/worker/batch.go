package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/validate"
)

// Checker fact-checks a single claim
type Checker interface {
	CheckClaim(ctx context.Context, claim string) (*model.FactCheckResult, error)
}

// BatchProcessor validates claims, checks the valid ones concurrently and
// assembles outcomes in input order
type BatchProcessor struct {
	checker     Checker
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int, logger *zap.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
		logger:      logger.Named("batch"),
	}
}

// checked is a successful check stamped with its completion time
type checked struct {
	result *model.FactCheckResult
	at     time.Time
}

// pending is a valid claim waiting for dispatch
type pending struct {
	index int
	claim string
}

// ProcessFacts checks a bulk submission. Items may be any JSON value; those
// that are not valid claims fail individually and are never dispatched.
func (b *BatchProcessor) ProcessFacts(ctx context.Context, facts []any) (*model.BatchReport, error) {
	if err := validate.CheckBatchSize(len(facts)); err != nil {
		return nil, err
	}
	return b.process(ctx, facts, validate.InvalidFactMessage), nil
}

// ProcessFact checks one claim as a batch of one
func (b *BatchProcessor) ProcessFact(ctx context.Context, claim string) model.ItemOutcome {
	report := b.process(ctx, []any{claim}, validate.InvalidFactMessage)
	return report.Results[0]
}

// ProcessLines checks claims taken from an uploaded file
func (b *BatchProcessor) ProcessLines(ctx context.Context, lines []string) *model.BatchReport {
	items := make([]any, len(lines))
	for i, line := range lines {
		items[i] = line
	}
	return b.process(ctx, items, validate.InvalidLineMessage)
}

// ProcessFile reads claims from a file, one per line, applying the upload limits
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) (*model.BatchReport, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	// A UTF-8 character is at most four bytes
	if info.Size() > int64(validate.MaxFileChars)*4 {
		return nil, validate.ErrFileSize
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	lines, err := validate.SplitFileContent(string(content))
	if err != nil {
		return nil, err
	}
	return b.ProcessLines(ctx, lines), nil
}

func (b *BatchProcessor) process(ctx context.Context, items []any, invalidMessage string) *model.BatchReport {
	start := time.Now()
	batchID := uuid.NewString()
	logger := b.logger.With(zap.String("batch_id", batchID))

	results := make([]model.ItemOutcome, len(items))
	var queue []pending

	for i, item := range items {
		claim, err := validate.ValidateItem(item)
		if err != nil {
			logger.Debug("claim rejected", zap.Int("index", i), zap.Error(err))
			results[i] = model.NewFailure(item, model.KindValidation, invalidMessage)
			continue
		}
		queue = append(queue, pending{index: i, claim: claim})
	}

	outcomes := Run(ctx, queue, b.concurrency, func(ctx context.Context, p pending) (checked, error) {
		result, err := b.checker.CheckClaim(ctx, p.claim)
		if err != nil {
			return checked{}, err
		}
		if result == nil {
			return checked{}, errors.New("checker returned no result")
		}
		return checked{result: result, at: time.Now()}, nil
	})

	for j, o := range outcomes {
		p := queue[j]
		if o.Err != nil {
			kind := Classify(o.Err)
			logger.Warn("claim check failed",
				zap.Int("index", p.index),
				zap.Stringer("kind", kind),
				zap.Error(o.Err),
			)
			results[p.index] = model.NewFailure(items[p.index], kind, o.Err.Error())
			continue
		}
		results[p.index] = model.NewSuccess(items[p.index], *o.Value.result, o.Value.at)
	}

	report := model.NewBatchReport(batchID, results, len(items))
	succeeded := report.Succeeded()
	logger.Info("batch complete",
		zap.Int("total", report.Total),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", report.Processed-succeeded),
		zap.Duration("duration", time.Since(start)),
	)

	return report
}

// KindError is implemented by errors that carry their own failure kind,
// such as llm.InferenceError
type KindError interface {
	error
	Kind() model.ErrorKind
}

// Classify maps an error to the kind reported for a failed item
func Classify(err error) model.ErrorKind {
	var verr *validate.ValidationError
	var kerr KindError
	switch {
	case err == nil:
		return model.KindNone
	case errors.As(err, &verr):
		return model.KindValidation
	case errors.As(err, &kerr):
		return kerr.Kind()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return model.KindInference
	default:
		return model.KindInternal
	}
}
