package generate

import "github.com/priyank/bookquiz/internal/llm"

// MCQBatchSchema defines the JSON schema for a batch of multiple-choice
// questions returned by the LLM.
var MCQBatchSchema = &llm.Schema{
	Name:        "mcq-batch",
	Description: "A batch of multiple choice questions generated from chapter text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the student",
						},
						"options": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"A": map[string]any{"type": "string"},
								"B": map[string]any{"type": "string"},
								"C": map[string]any{"type": "string"},
								"D": map[string]any{"type": "string"},
							},
							"required":             []any{"A", "B", "C", "D"},
							"additionalProperties": false,
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "The label of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Brief explanation of why the correct option is correct",
						},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// SubjectiveBatchSchema defines the JSON schema for a batch of open-ended
// questions with rubric data.
var SubjectiveBatchSchema = &llm.Schema{
	Name:        "subjective-batch",
	Description: "A batch of open-ended questions with grading rubrics",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the student",
						},
						"key_points": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Points a complete answer is expected to cover",
						},
						"sample_answer": map[string]any{
							"type":        "string",
							"description": "A model answer, not shown to the student",
						},
						"expected_length": map[string]any{
							"type":        "string",
							"description": "Expected answer depth, e.g. 'Brief explanation'",
						},
					},
					"required":             []any{"question", "key_points", "sample_answer", "expected_length"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
