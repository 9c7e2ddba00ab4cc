package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxClaimLength is the longest accepted claim, in characters
	MaxClaimLength = 300
	// MaxBatchSize bounds a direct bulk submission
	MaxBatchSize = 50
	// MaxFileLines bounds the non-empty lines of an uploaded file
	MaxFileLines = 100
	// MaxFileChars bounds the raw file payload, checked before splitting
	MaxFileChars = 100_000
)

// Per-item failure messages, fixed by call site
const (
	InvalidFactMessage = "Invalid fact format"
	InvalidLineMessage = "Invalid line format"
)

// Request-level rejections
var (
	ErrInvalidFact  = errors.New("Invalid input. Fact must be a non-empty string under 300 characters.")
	ErrBatchSize    = errors.New("Invalid input. Please provide 1–50 facts.")
	ErrFileSize     = errors.New("Invalid or too large file. Max allowed is 100KB.")
	ErrTooManyLines = errors.New("Too many lines in file. Maximum 100 lines allowed.")
)

// ValidationError describes why a single item was rejected
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid claim: " + e.Reason
}

// ValidateItem checks that item is a usable claim and returns its text.
// It never touches the network.
func ValidateItem(item any) (string, error) {
	text, ok := item.(string)
	if !ok {
		return "", &ValidationError{Reason: fmt.Sprintf("expected text, got %T", item)}
	}
	return text, ValidateClaim(text)
}

// ValidateClaim checks length constraints on a claim string
func ValidateClaim(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Reason: "empty"}
	}
	if n := utf8.RuneCountInString(text); n > MaxClaimLength {
		return &ValidationError{Reason: fmt.Sprintf("%d characters exceeds limit of %d", n, MaxClaimLength)}
	}
	return nil
}

// CheckBatchSize rejects bulk submissions outside [1, MaxBatchSize]
func CheckBatchSize(n int) error {
	if n < 1 || n > MaxBatchSize {
		return ErrBatchSize
	}
	return nil
}

// SplitFileContent turns uploaded text into trimmed, non-empty claim lines.
// The size cap is applied to the raw payload before splitting.
func SplitFileContent(content string) ([]string, error) {
	if content == "" || utf8.RuneCountInString(content) > MaxFileChars {
		return nil, ErrFileSize
	}

	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) > MaxFileLines {
		return nil, ErrTooManyLines
	}
	return lines, nil
}
