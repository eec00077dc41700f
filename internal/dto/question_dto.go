package dto

import "github.com/noah-isme/stc-api/pkg/ai"

// GenerateQuestionsRequest asks for generated test questions.
type GenerateQuestionsRequest struct {
	Type  string `json:"type" validate:"required,oneof=MCQ Long Coding mcq long coding"`
	Topic string `json:"topic" validate:"omitempty,max=200"`
	Count int    `json:"count" validate:"omitempty,min=1,max=20"`
}

// GenerateQuestionsResponse carries generated questions.
type GenerateQuestionsResponse struct {
	Type      ai.QuestionType `json:"type"`
	Provider  string          `json:"provider"`
	Questions []ai.Question   `json:"questions"`
}
