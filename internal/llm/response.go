package llm

import (
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// Response is a provider-agnostic completion response. The completion API
// returns at least two incompatible shapes depending on call site and SDK
// version: a direct top-level text field (shape A) or a nested candidate
// list (shape B). Both are represented explicitly so extraction never relies
// on dynamic field probing.
type Response struct {
	// Text is the direct text payload (shape A), when present.
	Text string
	// Candidates is the nested candidate list (shape B), when present.
	Candidates []Candidate
}

// Candidate is one generation candidate in a shape-B response.
type Candidate struct {
	Content *Content
}

// Content holds the parts of a candidate.
type Content struct {
	Parts []Part
}

// Part is a single text fragment of candidate content.
type Part struct {
	Text string
}

// ExtractText returns the textual payload of the response, trying shape A
// first, then shape B. The result is whitespace-trimmed. If neither shape
// yields a non-empty string it returns ErrEmptyCompletion.
func (r *Response) ExtractText() (string, error) {
	if r != nil {
		if text := strings.TrimSpace(r.Text); text != "" {
			return text, nil
		}
		if text := strings.TrimSpace(r.candidateText()); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyCompletion
}

// candidateText concatenates the text parts of the first candidate, in order.
func (r *Response) candidateText() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	candidate := r.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, "")
}

// fromGenaiResponse converts the Gemini SDK response into the
// provider-agnostic shape-B representation.
func fromGenaiResponse(resp *genai.GenerateContentResponse) *Response {
	result := &Response{}
	if resp == nil {
		return result
	}

	for _, candidate := range resp.Candidates {
		converted := Candidate{}
		if candidate.Content != nil {
			content := &Content{}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content.Parts = append(content.Parts, Part{Text: string(text)})
				}
			}
			converted.Content = content
		}
		result.Candidates = append(result.Candidates, converted)
	}
	return result
}
