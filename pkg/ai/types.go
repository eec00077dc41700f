package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// QuestionType is the kind of question a test can hold.
type QuestionType string

const (
	QuestionMCQ    QuestionType = "MCQ"
	QuestionLong   QuestionType = "Long"
	QuestionCoding QuestionType = "Coding"
)

// MaxQuestionsPerRequest caps a single generation request.
const MaxQuestionsPerRequest = 20

// ErrUnsupportedQuestionType is returned for unknown question types.
var ErrUnsupportedQuestionType = errors.New("unsupported question type")

// ParseQuestionType accepts the type name in any letter case.
func ParseQuestionType(value string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mcq":
		return QuestionMCQ, nil
	case "long":
		return QuestionLong, nil
	case "coding":
		return QuestionCoding, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, value)
	}
}

// Question is a generated test question. Options and CorrectOption are only set
// for MCQ, ExpectedOutput only for Coding.
type Question struct {
	Type           QuestionType `json:"type"`
	Question       string       `json:"question"`
	Options        []string     `json:"options,omitempty"`
	CorrectOption  string       `json:"correctOption,omitempty"`
	ExpectedOutput string       `json:"expectedOutput,omitempty"`
	Marks          int          `json:"marks"`
}

// GenerateRequest describes the questions to produce.
type GenerateRequest struct {
	Type  QuestionType
	Topic string
	Count int
}

// QuestionGenerator produces questions for a test.
type QuestionGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]Question, error)
}

func normalizeCount(count int) int {
	if count <= 0 {
		return 1
	}
	if count > MaxQuestionsPerRequest {
		return MaxQuestionsPerRequest
	}
	return count
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	if q.Marks <= 0 {
		return fmt.Errorf("question marks must be positive")
	}
	if q.Type == QuestionMCQ {
		if len(q.Options) != 4 {
			return fmt.Errorf("mcq question needs 4 options, got %d", len(q.Options))
		}
		switch q.CorrectOption {
		case "A", "B", "C", "D":
		default:
			return fmt.Errorf("mcq correct option %q is not one of A-D", q.CorrectOption)
		}
	}
	return nil
}
