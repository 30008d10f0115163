package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/extract"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/prompts"
	"github.com/jonathan/resume-screener/internal/types"
)

// handleComplete runs a caller-supplied prompt through the completion
// service and returns the cleaned text.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req types.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil || strings.TrimSpace(req.Prompt) == "" {
		s.errorResponse(w, http.StatusBadRequest, "prompt is required")
		return
	}

	resp, err := s.client.Complete(r.Context(), req.Prompt, llm.TierStandard)
	if err != nil {
		s.completionFailure(w, err, "completion failed")
		return
	}

	text, err := llm.NormalizeText(resp)
	if err != nil {
		s.completionFailure(w, err, "completion returned no usable text")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.CompleteResponse{Response: text})
}

// handleEvaluate runs the full evaluation pipeline: fetch the résumé,
// extract its text, render the evaluation prompt, call the completion
// service, and normalize the response into the strict evaluation contract.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req types.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	// Input validation happens before any collaborator is touched.
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resumeUrl and skills are required: "+err.Error())
		return
	}

	doc, err := s.fetcher.Document(r.Context(), req.ResumeURL)
	if err != nil {
		s.logger.Error("resume fetch failed", zap.String("url", req.ResumeURL), zap.Error(err))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "fetch_failed",
			"details": err.Error(),
		})
		return
	}

	resumeText, err := extract.Text(doc.Bytes, doc.ContentType)
	if err != nil {
		s.logger.Error("resume extraction failed", zap.String("url", req.ResumeURL), zap.Error(err))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "extraction_failed",
			"details": err.Error(),
		})
		return
	}

	prompt, err := prompts.Render("evaluation.json", "resume_evaluation", map[string]string{
		"ResumeText":   resumeText,
		"Requirements": req.Skills,
	})
	if err != nil {
		s.logger.Error("prompt rendering failed", zap.Error(err))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "prompt_failed",
			"details": err.Error(),
		})
		return
	}

	resp, err := s.client.Complete(r.Context(), prompt, llm.TierStandard)
	if err != nil {
		s.logger.Error("completion call failed", zap.Error(err))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "completion_failed",
			"details": err.Error(),
		})
		return
	}

	evaluation, err := llm.NormalizeEvaluation(resp)
	if err != nil {
		s.evaluationFailure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.EvaluateResponse{Result: evaluation})
}

// handleSummary generates a polished résumé summary from a caller draft.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req types.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil || strings.TrimSpace(req.Prompt) == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "prompt is required and must not be blank",
		})
		return
	}

	summary, err := s.generate(r, "resume_summary", map[string]string{
		"Content": req.Prompt,
	})
	if err != nil {
		s.logger.Error("summary generation failed", zap.Error(err))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, types.SummaryResponse{Success: true, Summary: summary})
}

// handleProjectDescription generates a project description from the project
// name, technology list, and repository link.
func (s *Server) handleProjectDescription(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "projectName, technologies and repositoryUrl are required: " + err.Error(),
		})
		return
	}

	description, err := s.generate(r, "project_description", map[string]string{
		"ProjectName":   req.ProjectName,
		"Technologies":  req.Technologies,
		"RepositoryURL": req.RepositoryURL,
	})
	if err != nil {
		s.logger.Error("project description generation failed", zap.Error(err))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ProjectDescriptionResponse{Success: true, Description: description})
}

// generate renders a generation template, runs it through the completion
// service, and returns the cleaned free-text result.
func (s *Server) generate(r *http.Request, key string, data map[string]string) (string, error) {
	prompt, err := prompts.Render("generation.json", key, data)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Complete(r.Context(), prompt, llm.TierLite)
	if err != nil {
		return "", err
	}

	return llm.NormalizeText(resp)
}

// completionFailure maps completion-client errors onto the generic
// completion endpoint's failure body.
func (s *Server) completionFailure(w http.ResponseWriter, err error, message string) {
	s.logger.Error(message, zap.Error(err))
	s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
		"error":   "completion_failed",
		"details": err.Error(),
	})
}

// evaluationFailure maps normalization errors onto diagnostic response
// bodies. JSON-syntax and contract-shape failures carry the raw cleaned text
// so a prompt-compliance failure in the upstream model is inspectable rather
// than swallowed as a generic 500.
func (s *Server) evaluationFailure(w http.ResponseWriter, err error) {
	var malformed *llm.MalformedJSONError
	if errors.As(err, &malformed) {
		s.logger.Error("evaluation JSON malformed", zap.Error(err), zap.String("raw", malformed.Raw))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "malformed_json",
			"details": err.Error(),
			"raw":     malformed.Raw,
		})
		return
	}

	var invalid *llm.InvalidShapeError
	if errors.As(err, &invalid) {
		s.logger.Error("evaluation shape invalid", zap.Error(err), zap.String("raw", invalid.Raw))
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "invalid_evaluation_shape",
			"details": err.Error(),
			"raw":     invalid.Raw,
		})
		return
	}

	if errors.Is(err, llm.ErrEmptyCompletion) {
		s.logger.Error("completion returned no text")
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "empty_completion",
			"details": err.Error(),
		})
		return
	}

	s.logger.Error("evaluation normalization failed", zap.Error(err))
	s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
		"error":   "evaluation_failed",
		"details": err.Error(),
	})
}
