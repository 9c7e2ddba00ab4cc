package model

import (
	"encoding/json"
	"time"
)

// TimestampLayout renders UTC timestamps with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrorKind classifies why an item failed
type ErrorKind int

const (
	KindNone       ErrorKind = iota
	KindValidation           // Rejected locally, never sent to the provider
	KindInference            // Provider call failed or timed out
	KindInternal             // Programming fault (panic, unexpected error)
)

// String returns the kind name used in logs
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInference:
		return "inference"
	case KindInternal:
		return "internal"
	default:
		return "none"
	}
}

// ItemOutcome is the per-claim result inside a batch: either a success
// carrying a FactCheckResult or a failure carrying an error message.
type ItemOutcome struct {
	Fact      any              // Submitted value, verbatim (may be a non-string for rejected items)
	Result    *FactCheckResult // Set on success only
	Timestamp time.Time        // Completion time, success only
	Kind      ErrorKind        // KindNone on success
	Error     string           // Failure message, failure only
}

// NewSuccess builds a successful outcome
func NewSuccess(fact any, result FactCheckResult, at time.Time) ItemOutcome {
	return ItemOutcome{
		Fact:      fact,
		Result:    &result,
		Timestamp: at.UTC(),
	}
}

// NewFailure builds a failed outcome
func NewFailure(fact any, kind ErrorKind, message string) ItemOutcome {
	if kind == KindNone {
		kind = KindInternal
	}
	return ItemOutcome{
		Fact:  fact,
		Kind:  kind,
		Error: message,
	}
}

// OK reports whether the outcome is a success
func (o ItemOutcome) OK() bool {
	return o.Result != nil && o.Kind == KindNone
}

type successJSON struct {
	Success    bool       `json:"success" yaml:"success"`
	Fact       any        `json:"fact" yaml:"fact"`
	Verdict    Verdict    `json:"verdict" yaml:"verdict"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Reasoning  string     `json:"reasoning" yaml:"reasoning"`
	Sources    []string   `json:"sources" yaml:"sources"`
	Timestamp  string     `json:"timestamp" yaml:"timestamp"`
}

type failureJSON struct {
	Success bool   `json:"success" yaml:"success"`
	Fact    any    `json:"fact" yaml:"fact"`
	Error   string `json:"error" yaml:"error"`
}

func (o ItemOutcome) wire() any {
	if o.OK() {
		return successJSON{
			Success:    true,
			Fact:       o.Fact,
			Verdict:    o.Result.Verdict,
			Confidence: o.Result.Confidence,
			Reasoning:  o.Result.Reasoning,
			Sources:    o.Result.Sources,
			Timestamp:  o.Timestamp.Format(TimestampLayout),
		}
	}
	return failureJSON{
		Success: false,
		Fact:    o.Fact,
		Error:   o.Error,
	}
}

// MarshalJSON flattens the outcome into the wire shape of the HTTP API
func (o ItemOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.wire())
}

// MarshalYAML mirrors MarshalJSON for the CLI's YAML output
func (o ItemOutcome) MarshalYAML() (interface{}, error) {
	return o.wire(), nil
}

// BatchReport aggregates the outcomes of one batch in input order
type BatchReport struct {
	Success   bool          `json:"success" yaml:"success"` // Request-level status; items carry their own
	ID        string        `json:"batch_id" yaml:"batch_id"`
	Results   []ItemOutcome `json:"results" yaml:"results"`
	Total     int           `json:"total" yaml:"total"`         // Number of input claims
	Processed int           `json:"processed" yaml:"processed"` // Number of outcomes produced
}

// NewBatchReport builds a report for total inputs
func NewBatchReport(id string, results []ItemOutcome, total int) *BatchReport {
	if results == nil {
		results = []ItemOutcome{}
	}
	return &BatchReport{
		Success:   true,
		ID:        id,
		Results:   results,
		Total:     total,
		Processed: len(results),
	}
}

// Consistent reports whether every input produced exactly one outcome
func (r *BatchReport) Consistent() bool {
	return r.Total == r.Processed && r.Processed == len(r.Results)
}

// Succeeded counts successful outcomes
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, o := range r.Results {
		if o.OK() {
			n++
		}
	}
	return n
}
