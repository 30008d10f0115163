// Package schemas provides JSON Schema validation for structured payloads
// returned by the completion service. Schemas are embedded at compile time.
package schemas

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateEvaluation validates a JSON document against the evaluation
// contract. It returns the list of field-level violations (empty when the
// document is valid), or a non-nil error when the document or schema could
// not be processed at all.
func ValidateEvaluation(jsonContent string) ([]FieldError, error) {
	return validateAgainst("evaluation.schema.json", jsonContent)
}

// validateAgainst validates a JSON document against a named embedded schema.
func validateAgainst(name, jsonContent string) ([]FieldError, error) {
	schemaContent, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "schema not embedded", Cause: err}
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "validation failed during load", Cause: err}
	}

	if result.Valid() {
		return nil, nil
	}

	fieldErrors := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fieldErrors = append(fieldErrors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return fieldErrors, nil
}
