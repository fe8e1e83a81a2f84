package service

import (
	"encoding/json"
	"testing"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/datatypes"
)

func rawJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func question(id uint, qt model.QuestionType, choices []string, answer interface{}, points int) model.Question {
	b, _ := json.Marshal(answer)
	q := model.Question{
		QuestionType: qt,
		Choices:      datatypes.NewJSONSlice(choices),
		Answer:       datatypes.JSON(b),
		Points:       points,
	}
	q.ID = id
	return q
}

func TestChoiceLabel(t *testing.T) {
	assert.Equal(t, "A", ChoiceLabel(0))
	assert.Equal(t, "B", ChoiceLabel(1))
	assert.Equal(t, "Z", ChoiceLabel(25))
	assert.Equal(t, "AA", ChoiceLabel(26))
	assert.Equal(t, "AB", ChoiceLabel(27))
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name    string
		q       model.Question
		wantErr bool
	}{
		{
			name: "valid single choice",
			q:    question(1, model.SingleChoice, []string{"Red", "Green", "Blue"}, "B", 1),
		},
		{
			name:    "single choice with one option",
			q:       question(1, model.SingleChoice, []string{"Red"}, "A", 1),
			wantErr: true,
		},
		{
			name:    "single choice duplicate options",
			q:       question(1, model.SingleChoice, []string{"Red", "Red"}, "A", 1),
			wantErr: true,
		},
		{
			name:    "single choice answer out of range",
			q:       question(1, model.SingleChoice, []string{"Red", "Green"}, "C", 1),
			wantErr: true,
		},
		{
			name:    "single choice answer is a list",
			q:       question(1, model.SingleChoice, []string{"Red", "Green"}, []string{"A"}, 1),
			wantErr: true,
		},
		{
			name: "valid multiple choice",
			q:    question(1, model.MultipleChoice, []string{"Go", "Rust", "Cobol"}, []string{"A", "B"}, 2),
		},
		{
			name:    "multiple choice empty answer",
			q:       question(1, model.MultipleChoice, []string{"Go", "Rust"}, []string{}, 2),
			wantErr: true,
		},
		{
			name:    "multiple choice scalar answer",
			q:       question(1, model.MultipleChoice, []string{"Go", "Rust"}, "A", 2),
			wantErr: true,
		},
		{
			name: "valid true/false",
			q:    question(1, model.TrueFalse, nil, "True", 1),
		},
		{
			name:    "true/false with lowercase answer",
			q:       question(1, model.TrueFalse, nil, "true", 1),
			wantErr: true,
		},
		{
			name: "valid short answer",
			q:    question(1, model.ShortAnswer, nil, "photosynthesis", 1),
		},
		{
			name:    "short answer blank",
			q:       question(1, model.ShortAnswer, nil, "   ", 1),
			wantErr: true,
		},
		{
			name:    "unknown type",
			q:       question(1, model.QuestionType("essay"), nil, "x", 1),
			wantErr: true,
		},
		{
			name:    "zero points",
			q:       question(1, model.TrueFalse, nil, "True", 0),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(&tt.q)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, util.ErrInvalidQuestion)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateQuestionCanonicalizes(t *testing.T) {
	tf := question(1, model.TrueFalse, []string{"yes", "no", "maybe"}, "False", 1)
	require.NoError(t, ValidateQuestion(&tf))
	assert.Equal(t, []string{"True", "False"}, []string(tf.Choices))

	sa := question(2, model.ShortAnswer, []string{"stray"}, "mitochondria", 1)
	require.NoError(t, ValidateQuestion(&sa))
	assert.Empty(t, []string(sa.Choices))
}

func TestValidateQuestionIdempotent(t *testing.T) {
	q := question(1, model.TrueFalse, nil, "True", 2)
	require.NoError(t, ValidateQuestion(&q))
	before := q
	require.NoError(t, ValidateQuestion(&q))
	assert.Equal(t, before, q)
}

func TestEvaluateQuizSingleChoice(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.Question{
			question(1, model.SingleChoice, []string{"Red", "Green", "Blue"}, "B", 1),
		},
	}

	tests := []struct {
		name      string
		submitted interface{}
		correct   bool
	}{
		{"exact label", "B", true},
		{"wrong label", "A", false},
		{"lowercase label", "b", false},
		{"list instead of string", []string{"B"}, false},
		{"number", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateQuiz(quiz, map[uint]json.RawMessage{1: rawJSON(t, tt.submitted)})
			assert.Equal(t, tt.correct, result.Results[0].IsCorrect)
		})
	}
}

func TestEvaluateQuizMultipleChoiceOrderIndependent(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.Question{
			question(1, model.MultipleChoice, []string{"Go", "Rust", "Cobol", "Fortran"}, []string{"A", "C"}, 2),
		},
	}

	tests := []struct {
		name      string
		submitted interface{}
		correct   bool
	}{
		{"same order", []string{"A", "C"}, true},
		{"reversed order", []string{"C", "A"}, true},
		{"subset", []string{"A"}, false},
		{"superset", []string{"A", "B", "C"}, false},
		{"duplicated correct label", []string{"A", "A"}, false},
		{"scalar", "A", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateQuiz(quiz, map[uint]json.RawMessage{1: rawJSON(t, tt.submitted)})
			assert.Equal(t, tt.correct, result.Results[0].IsCorrect)
		})
	}
}

func TestEvaluateQuizShortAnswer(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.Question{
			question(1, model.ShortAnswer, nil, "Photosynthesis|light reaction", 1),
		},
	}

	tests := []struct {
		name      string
		submitted string
		correct   bool
	}{
		{"exact", "Photosynthesis", true},
		{"case insensitive", "PHOTOSYNTHESIS", true},
		{"surrounding whitespace", "  photosynthesis \n", true},
		{"accepted variant", "Light Reaction", true},
		{"internal whitespace differs", "photo synthesis", false},
		{"wrong answer", "respiration", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateQuiz(quiz, map[uint]json.RawMessage{1: rawJSON(t, tt.submitted)})
			assert.Equal(t, tt.correct, result.Results[0].IsCorrect)
		})
	}
}

func TestEvaluateQuizTrueFalse(t *testing.T) {
	q := question(1, model.TrueFalse, nil, "True", 1)
	require.NoError(t, ValidateQuestion(&q))
	quiz := &model.Quiz{PassingScore: 50, Questions: []model.Question{q}}

	result := EvaluateQuiz(quiz, map[uint]json.RawMessage{1: rawJSON(t, "True")})
	assert.True(t, result.Results[0].IsCorrect)

	result = EvaluateQuiz(quiz, map[uint]json.RawMessage{1: rawJSON(t, "true")})
	assert.False(t, result.Results[0].IsCorrect)
}

func TestEvaluateQuizScoring(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.Question{
			question(1, model.SingleChoice, []string{"Red", "Green", "Blue"}, "B", 1),
			question(2, model.MultipleChoice, []string{"Go", "Rust", "Cobol"}, []string{"A", "B"}, 2),
		},
	}

	// All correct.
	result := EvaluateQuiz(quiz, map[uint]json.RawMessage{
		1: rawJSON(t, "B"),
		2: rawJSON(t, []string{"B", "A"}),
	})
	assert.Equal(t, 3, result.EarnedPoints)
	assert.Equal(t, 3, result.TotalPoints)
	assert.Equal(t, 100.0, result.Score)
	assert.True(t, result.Passed)

	// Only the two-pointer correct: 2/3 rounds to 66.7, below 70.
	result = EvaluateQuiz(quiz, map[uint]json.RawMessage{
		1: rawJSON(t, "A"),
		2: rawJSON(t, []string{"A", "B"}),
	})
	assert.Equal(t, 2, result.EarnedPoints)
	assert.Equal(t, 66.7, result.Score)
	assert.False(t, result.Passed)
}

func TestEvaluateQuizOmittedAndMalformed(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 50,
		Questions: []model.Question{
			question(1, model.SingleChoice, []string{"Red", "Green"}, "A", 1),
			question(2, model.ShortAnswer, nil, "ok", 1),
		},
	}

	// Question 2 omitted, question 1 malformed: both simply incorrect.
	result := EvaluateQuiz(quiz, map[uint]json.RawMessage{
		1: json.RawMessage(`{"not": "a label"}`),
	})
	assert.Equal(t, 0, result.EarnedPoints)
	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.Passed)
	assert.Len(t, result.Results, 2)
}

func TestEvaluateQuizIgnoresUnknownQuestionIDs(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 100,
		Questions: []model.Question{
			question(1, model.SingleChoice, []string{"Red", "Green"}, "A", 1),
		},
	}
	result := EvaluateQuiz(quiz, map[uint]json.RawMessage{
		1:   rawJSON(t, "A"),
		999: rawJSON(t, "A"),
	})
	assert.Equal(t, 100.0, result.Score)
	assert.Len(t, result.Results, 1)
}

func TestEvaluateQuizEmptyQuiz(t *testing.T) {
	quiz := &model.Quiz{PassingScore: 70}
	result := EvaluateQuiz(quiz, nil)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0, result.TotalPoints)
	assert.False(t, result.Passed)
}
