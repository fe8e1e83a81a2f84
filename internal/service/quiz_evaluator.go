package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/internal/util"

	"gorm.io/datatypes"
)

// ChoiceLabel returns the positional label for a choice: A, B, ... Z,
// AA, AB and so on. Choice questions store and grade these labels, not
// the choice text.
func ChoiceLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

func choiceLabels(n int) map[string]bool {
	labels := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		labels[ChoiceLabel(i)] = true
	}
	return labels
}

func decodeString(raw []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeStringList(raw []byte) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

// ValidateQuestion enforces the type/answer-shape invariants before a
// question becomes gradable, and canonicalizes the choice set for
// true_false and short_answer questions. It is idempotent: a question
// that already passed validation passes again unchanged.
func ValidateQuestion(q *model.Question) error {
	switch q.QuestionType {
	case model.SingleChoice, model.MultipleChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("%w: choice questions must have at least 2 choices", util.ErrInvalidQuestion)
		}
		seen := make(map[string]bool, len(q.Choices))
		for _, choice := range q.Choices {
			if seen[choice] {
				return fmt.Errorf("%w: choices must be unique", util.ErrInvalidQuestion)
			}
			seen[choice] = true
		}
		valid := choiceLabels(len(q.Choices))
		if q.QuestionType == model.SingleChoice {
			answer, ok := decodeString(q.Answer)
			if !ok {
				return fmt.Errorf("%w: single-choice answer must be a string label", util.ErrInvalidQuestion)
			}
			if !valid[answer] {
				return fmt.Errorf("%w: answer %q is not a choice label", util.ErrInvalidQuestion, answer)
			}
		} else {
			answers, ok := decodeStringList(q.Answer)
			if !ok {
				return fmt.Errorf("%w: multiple-choice answer must be a list of labels", util.ErrInvalidQuestion)
			}
			if len(answers) == 0 {
				return fmt.Errorf("%w: multiple-choice answer must not be empty", util.ErrInvalidQuestion)
			}
			for _, answer := range answers {
				if !valid[answer] {
					return fmt.Errorf("%w: answer %q is not a choice label", util.ErrInvalidQuestion, answer)
				}
			}
		}

	case model.TrueFalse:
		q.Choices = datatypes.NewJSONSlice([]string{"True", "False"})
		answer, ok := decodeString(q.Answer)
		if !ok || (answer != "True" && answer != "False") {
			return fmt.Errorf("%w: true/false answer must be \"True\" or \"False\"", util.ErrInvalidQuestion)
		}

	case model.ShortAnswer:
		q.Choices = datatypes.NewJSONSlice([]string{})
		answer, ok := decodeString(q.Answer)
		if !ok || strings.TrimSpace(answer) == "" {
			return fmt.Errorf("%w: short-answer questions need a non-empty answer", util.ErrInvalidQuestion)
		}

	default:
		return fmt.Errorf("%w: unknown question type %q", util.ErrInvalidQuestion, q.QuestionType)
	}

	if q.Points <= 0 {
		return fmt.Errorf("%w: points must be positive", util.ErrInvalidQuestion)
	}

	return nil
}

// QuestionResult is the per-question feedback of one graded submission.
type QuestionResult struct {
	QuestionID    uint            `json:"questionId"`
	Text          string          `json:"text"`
	Submitted     json.RawMessage `json:"submitted,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	IsCorrect     bool            `json:"isCorrect"`
	Points        int             `json:"points"`
	PointsAwarded int             `json:"pointsAwarded"`
	Explanation   string          `json:"explanation,omitempty"`
}

type EvaluationResult struct {
	EarnedPoints int              `json:"earnedPoints"`
	TotalPoints  int              `json:"totalPoints"`
	Score        float64          `json:"score"` // Percentage 0-100
	Passed       bool             `json:"passed"`
	Results      []QuestionResult `json:"results"`
}

// EvaluateQuiz scores a submission against the quiz's question set. It is
// a pure function: malformed or omitted answers score zero, they never
// fail the evaluation, and nothing is persisted here.
func EvaluateQuiz(quiz *model.Quiz, answers map[uint]json.RawMessage) *EvaluationResult {
	result := &EvaluationResult{
		Results: make([]QuestionResult, 0, len(quiz.Questions)),
	}

	for _, q := range quiz.Questions {
		submitted := answers[q.ID]
		correct := gradeQuestion(&q, submitted)

		awarded := 0
		if correct {
			awarded = q.Points
			result.EarnedPoints += awarded
		}
		result.TotalPoints += q.Points

		result.Results = append(result.Results, QuestionResult{
			QuestionID:    q.ID,
			Text:          q.Text,
			Submitted:     json.RawMessage(submitted),
			CorrectAnswer: json.RawMessage(q.Answer),
			IsCorrect:     correct,
			Points:        q.Points,
			PointsAwarded: awarded,
			Explanation:   q.Explanation,
		})
	}

	if result.TotalPoints > 0 {
		result.Score = math.Round(float64(result.EarnedPoints)/float64(result.TotalPoints)*1000) / 10
	}
	result.Passed = result.Score >= float64(quiz.PassingScore)

	return result
}

func gradeQuestion(q *model.Question, submitted json.RawMessage) bool {
	if len(submitted) == 0 {
		return false
	}

	switch q.QuestionType {
	case model.SingleChoice, model.TrueFalse:
		answer, ok := decodeString(q.Answer)
		if !ok {
			return false
		}
		got, ok := decodeString(submitted)
		// Exact, case-sensitive label match.
		return ok && got == answer

	case model.MultipleChoice:
		answers, ok := decodeStringList(q.Answer)
		if !ok {
			return false
		}
		got, ok := decodeStringList(submitted)
		if !ok {
			// A non-list submission is wrong, not an error.
			return false
		}
		if len(got) != len(answers) {
			return false
		}
		sort.Strings(answers)
		sort.Strings(got)
		for i := range answers {
			if got[i] != answers[i] {
				return false
			}
		}
		return true

	case model.ShortAnswer:
		answer, ok := decodeString(q.Answer)
		if !ok {
			return false
		}
		got, ok := decodeString(submitted)
		if !ok {
			return false
		}
		normalized := strings.ToLower(strings.TrimSpace(got))
		// The stored answer may carry |-delimited accepted variants.
		for _, accepted := range strings.Split(answer, "|") {
			if normalized == strings.ToLower(strings.TrimSpace(accepted)) {
				return true
			}
		}
		return false
	}

	return false
}
