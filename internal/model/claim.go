package model

// Verdict is the normalized veracity judgment for a claim
type Verdict string

const (
	VerdictTrue    Verdict = "TRUE"
	VerdictFalse   Verdict = "FALSE"
	VerdictUnclear Verdict = "UNCLEAR" // No recognizable verdict in the completion
)

// Confidence is the model's self-reported certainty
type Confidence string

const (
	ConfidenceHigh         Confidence = "High"
	ConfidenceMedium       Confidence = "Medium"
	ConfidenceLow          Confidence = "Low"
	ConfidenceNotSpecified Confidence = "Not specified"
)

// DefaultSource is used when no sources could be extracted
const DefaultSource = "No specific sources provided"

// FactCheckResult is the structured judgment for one claim.
// Every field is always populated; unknown values degrade to the defaults above.
type FactCheckResult struct {
	Verdict    Verdict    `json:"verdict" yaml:"verdict"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Reasoning  string     `json:"reasoning" yaml:"reasoning"`
	Sources    []string   `json:"sources" yaml:"sources"` // 1-3 entries
}

// DegradedResult returns the fallback result for a completion that could not be parsed
func DegradedResult(raw string) FactCheckResult {
	return FactCheckResult{
		Verdict:    VerdictUnclear,
		Confidence: ConfidenceNotSpecified,
		Reasoning:  raw,
		Sources:    []string{DefaultSource},
	}
}
