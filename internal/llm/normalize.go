package llm

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/types"
)

// CleanJSONBlock removes markdown code block wrappers from a completion
// payload. Models often wrap output in ```json ... ``` blocks even when
// instructed not to. An opening fence without a matching closing fence is
// handled best-effort: only the opener is stripped. Already-clean input is
// returned unchanged apart from whitespace trimming.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// NormalizeText reduces a provider response to a cleaned, trimmed text
// payload for endpoints that require free text. Fails with
// ErrEmptyCompletion if nothing remains after cleaning.
func NormalizeText(resp *Response) (string, error) {
	text, err := resp.ExtractText()
	if err != nil {
		return "", err
	}

	cleaned := CleanJSONBlock(text)
	if cleaned == "" {
		return "", ErrEmptyCompletion
	}
	return cleaned, nil
}

// NormalizeEvaluation reduces a provider response to a validated evaluation
// payload: extract text across shapes, strip fences, strict-parse JSON, and
// validate the contract. Parse and shape failures carry the cleaned text so
// prompt-compliance failures in the upstream model are diagnosable.
func NormalizeEvaluation(resp *Response) (*types.Evaluation, error) {
	text, err := resp.ExtractText()
	if err != nil {
		return nil, err
	}
	return ParseEvaluation(CleanJSONBlock(text))
}

// ParseEvaluation strict-parses a cleaned completion payload into an
// Evaluation. JSON syntax failure and contract-shape failure are distinct
// error kinds; neither triggers a retry of the completion call.
func ParseEvaluation(cleaned string) (*types.Evaluation, error) {
	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &MalformedJSONError{Raw: cleaned, Cause: err}
	}

	fieldErrors, err := schemas.ValidateEvaluation(cleaned)
	if err != nil {
		return nil, &MalformedJSONError{Raw: cleaned, Cause: err}
	}
	if len(fieldErrors) > 0 {
		fields := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			fields = append(fields, fe.String())
		}
		return nil, &InvalidShapeError{Raw: cleaned, Fields: fields}
	}

	var evaluation types.Evaluation
	if err := json.Unmarshal([]byte(cleaned), &evaluation); err != nil {
		return nil, &MalformedJSONError{Raw: cleaned, Cause: err}
	}

	// The schema cannot reject whitespace-only explanations.
	if strings.TrimSpace(evaluation.Explanation) == "" {
		return nil, &InvalidShapeError{Raw: cleaned, Fields: []string{"explanation: must not be blank"}}
	}

	return &evaluation, nil
}
