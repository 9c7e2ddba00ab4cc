// Package extract turns free-text model completions into structured results.
package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// MaxSources caps the number of extracted sources
const MaxSources = 3

// These patterns track the layout requested by llm.BuildPrompt; change both together.
var (
	reVerdict      = regexp.MustCompile(`(?i)Verdict:[*_\s]*(TRUE|FALSE)`)
	reVerdictLine  = regexp.MustCompile(`(?i)Verdict:[*_\s]*(TRUE|FALSE)[*_\s]*\n`)
	reStatement    = regexp.MustCompile(`(?i)Statement:.*?\n`)
	reConfidence   = regexp.MustCompile(`(?i)confidence[:*_\s]+(high|medium|low)`)
	reKnownSources = regexp.MustCompile(`(?s)Known sources[:\s]*(.*)`)
	reSourcesHead  = regexp.MustCompile(`(?ms)^[*_#> \t]*(?:Sources|References)[:\s]*(.*)`)
	reInlineBullet = regexp.MustCompile(`\s+[*•]\s+`)
)

const (
	reasoningMarker = "Reasoning:"
	sourcesMarker   = "Known sources"
	bulletChars     = "*-•"
	emphasisChars   = "*_ \t\r\n\f\v"
)

// Parse extracts a FactCheckResult from a raw completion. It never fails:
// missing markers fall back to defaults, and any panic during extraction
// yields model.DegradedResult for the unmodified input.
func Parse(raw string) (result model.FactCheckResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.DegradedResult(raw)
		}
	}()

	return model.FactCheckResult{
		Verdict:    parseVerdict(raw),
		Confidence: parseConfidence(raw),
		Reasoning:  parseReasoning(raw),
		Sources:    parseSources(raw),
	}
}

func parseVerdict(raw string) model.Verdict {
	m := reVerdict.FindStringSubmatch(raw)
	if m == nil {
		return model.VerdictUnclear
	}
	return model.Verdict(strings.ToUpper(m[1]))
}

func parseConfidence(raw string) model.Confidence {
	m := reConfidence.FindStringSubmatch(raw)
	if m == nil {
		return model.ConfidenceNotSpecified
	}
	level := strings.ToLower(m[1])
	return model.Confidence(strings.ToUpper(level[:1]) + level[1:])
}

func parseReasoning(raw string) string {
	text := removeFirst(raw, reStatement)
	text = removeFirst(text, reVerdictLine)

	idx := strings.Index(text, reasoningMarker)
	if idx < 0 {
		return strings.TrimSpace(text)
	}

	body := strings.TrimLeft(text[idx+len(reasoningMarker):], emphasisChars)
	end := len(body)
	if i := strings.Index(body, "\n\n"); i >= 0 && i < end {
		end = i
	}
	if i := strings.Index(body, sourcesMarker); i >= 0 && i < end {
		end = i
	}
	return strings.TrimSpace(body[:end])
}

func parseSources(raw string) []string {
	// A bare Sources heading only counts at the start of a line, so prose
	// mentioning sources is not mistaken for the list
	m := reKnownSources.FindStringSubmatch(raw)
	if m == nil {
		m = reSourcesHead.FindStringSubmatch(raw)
	}
	if m == nil {
		return []string{model.DefaultSource}
	}

	sources := make([]string, 0, MaxSources)
	for _, line := range strings.Split(m[1], "\n") {
		for _, part := range reInlineBullet.Split(line, -1) {
			part = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), bulletChars))
			if part == "" {
				continue
			}
			sources = append(sources, part)
			if len(sources) == MaxSources {
				return sources
			}
		}
	}

	if len(sources) == 0 {
		return []string{model.DefaultSource}
	}
	return sources
}

// removeFirst deletes the leftmost match of re from s
func removeFirst(s string, re *regexp.Regexp) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
