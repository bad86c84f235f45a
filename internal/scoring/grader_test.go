package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyank/bookquiz/internal/llm"
)

func gradeInput() GradeInput {
	return GradeInput{
		Question:       "Explain why plants release oxygen.",
		KeyPoints:      []string{"water splitting", "light reactions"},
		SampleAnswer:   "Water is split during the light reactions, releasing oxygen.",
		ExpectedLength: "2-3 sentences",
		MaxMarks:       3,
		Answer:         "Oxygen comes from splitting water molecules in the light reactions.",
	}
}

func TestLLMGrader_ParsesGrade(t *testing.T) {
	reply := `{
		"score": 3,
		"feedback": "Covers both key points clearly.",
		"strengths": ["names the water-splitting step"],
		"improvements": [],
		"suggestions": ["mention where the light reactions happen"],
		"sub_scores": {"accuracy": 9, "completeness": 9, "clarity": 8, "relevance": 10}
	}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
	grader := NewLLMGrader(mock)

	res, err := grader.Grade(context.Background(), gradeInput())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, "Covers both key points clearly.", res.Feedback)
	assert.Equal(t, 9, res.SubScores.Accuracy)
	assert.Len(t, res.Strengths, 1)
	assert.Equal(t, []string{"mention where the light reactions happen"}, res.Suggestions)
}

func TestLLMGrader_RequestCarriesRubric(t *testing.T) {
	reply := `{"score":1,"feedback":"ok","strengths":[],"improvements":[],"sub_scores":{"accuracy":5,"completeness":5,"clarity":5,"relevance":5}}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
	grader := NewLLMGrader(mock)

	_, err := grader.Grade(context.Background(), gradeInput())
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)

	req := mock.Calls[0]
	require.NotNil(t, req.Schema)
	assert.Equal(t, "answer_grade", req.Schema.Name)
	props := req.Schema.Definition["properties"].(map[string]any)
	assert.Equal(t, 3, props["score"].(map[string]any)["maximum"])
	assert.Contains(t, req.Messages[0].Content, "water splitting")
	assert.Contains(t, req.Messages[0].Content, "3 marks")
	assert.Contains(t, req.Messages[0].Content, "Student's answer")
}

func TestLLMGrader_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	grader := NewLLMGrader(mock)

	_, err := grader.Grade(context.Background(), gradeInput())
	require.Error(t, err)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestLLMGrader_MalformedReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
	grader := NewLLMGrader(mock)

	_, err := grader.Grade(context.Background(), gradeInput())
	require.Error(t, err)
}
