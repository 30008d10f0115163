// Package types provides type definitions for request and response payloads
// exchanged over the screening API.
package types

import (
	"github.com/go-playground/validator/v10"
)

// CompleteRequest represents the request body for the generic completion endpoint.
type CompleteRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// CompleteResponse represents the response for the generic completion endpoint.
type CompleteResponse struct {
	Response string `json:"response"`
}

// EvaluateRequest represents the request body for résumé evaluation.
type EvaluateRequest struct {
	ResumeURL string `json:"resumeUrl" validate:"required,url"`
	Skills    string `json:"skills" validate:"required,min=1"`
}

// EvaluateResponse wraps the validated evaluation returned by the model.
type EvaluateResponse struct {
	Result *Evaluation `json:"result"`
}

// Evaluation is the strict machine-readable contract the evaluation endpoint
// promises: a score in [0,100] and a non-empty explanation.
type Evaluation struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// SummaryRequest represents the request body for résumé summary generation.
type SummaryRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// SummaryResponse represents the response for résumé summary generation.
type SummaryResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

// ProjectDescriptionRequest represents the request body for project
// description generation.
type ProjectDescriptionRequest struct {
	ProjectName   string `json:"projectName" validate:"required,min=1"`
	Technologies  string `json:"technologies" validate:"required,min=1"`
	RepositoryURL string `json:"repositoryUrl" validate:"required,url"`
}

// ProjectDescriptionResponse represents the response for project description
// generation.
type ProjectDescriptionResponse struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
}

// Validate validates the CompleteRequest using the validator.
func (r *CompleteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the EvaluateRequest using the validator.
func (r *EvaluateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SummaryRequest using the validator.
func (r *SummaryRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ProjectDescriptionRequest using the validator.
func (r *ProjectDescriptionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
