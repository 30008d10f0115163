package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrEmptyCompletion indicates that no known response shape yielded a
// non-empty text payload. This is an upstream contract violation.
var ErrEmptyCompletion = errors.New("completion response contained no text")

// AuthError indicates a bad or missing completion-service credential.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("completion auth failure: %v", e.Cause)
	}
	return "completion auth failure: missing or invalid credential"
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// RejectedError indicates the completion service rejected the request
// (4xx: invalid model name, oversized prompt, etc.).
type RejectedError struct {
	Status int
	Cause  error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("completion rejected (status %d): %v", e.Status, e.Cause)
}

func (e *RejectedError) Unwrap() error {
	return e.Cause
}

// UpstreamError indicates the completion service was unreachable or failed
// (network error or 5xx).
type UpstreamError struct {
	Status int
	Cause  error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("completion upstream unavailable (status %d): %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("completion upstream unavailable: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// MalformedJSONError indicates the cleaned completion text failed a strict
// JSON parse. Raw carries the cleaned text so a prompt-compliance failure in
// the upstream model can be diagnosed from logs.
type MalformedJSONError struct {
	Raw   string
	Cause error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("completion returned malformed JSON: %v", e.Cause)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Cause
}

// InvalidShapeError indicates the completion JSON parsed but violated the
// evaluation contract (score range, explanation presence). Raw carries the
// cleaned text for diagnosis.
type InvalidShapeError struct {
	Raw    string
	Fields []string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("evaluation payload has invalid shape: %s", strings.Join(e.Fields, "; "))
}

// classifyAPIError maps a provider SDK error onto the failure taxonomy.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return &AuthError{Cause: err}
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return &RejectedError{Status: apiErr.Code, Cause: err}
		default:
			return &UpstreamError{Status: apiErr.Code, Cause: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &UpstreamError{Cause: err}
	}
	// Transport-level failure with no HTTP status attached.
	return &UpstreamError{Cause: err}
}
