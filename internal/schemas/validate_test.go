package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEvaluation_Valid(t *testing.T) {
	fieldErrors, err := ValidateEvaluation(`{"score": 82, "explanation": "Good match"}`)
	require.NoError(t, err)
	assert.Empty(t, fieldErrors)
}

func TestValidateEvaluation_ExtraFieldsTolerated(t *testing.T) {
	fieldErrors, err := ValidateEvaluation(`{"score": 82, "explanation": "Good match", "confidence": 0.9}`)
	require.NoError(t, err)
	assert.Empty(t, fieldErrors)
}

func TestValidateEvaluation_Violations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing score", input: `{"explanation": "no score"}`},
		{name: "missing explanation", input: `{"score": 40}`},
		{name: "score above maximum", input: `{"score": 101, "explanation": "x"}`},
		{name: "score below minimum", input: `{"score": -1, "explanation": "x"}`},
		{name: "score not numeric", input: `{"score": "82", "explanation": "x"}`},
		{name: "explanation not string", input: `{"score": 50, "explanation": []}`},
		{name: "explanation empty", input: `{"score": 50, "explanation": ""}`},
		{name: "not an object", input: `"just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrors, err := ValidateEvaluation(tt.input)
			require.NoError(t, err)
			assert.NotEmpty(t, fieldErrors)
		})
	}
}

func TestValidateEvaluation_InvalidDocument(t *testing.T) {
	_, err := ValidateEvaluation(`{not json at all`)
	assert.Error(t, err)
}
