package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/dto"
	"github.com/noah-isme/stc-api/pkg/ai"
)

// QuestionService generates questions for mentors building tests.
type QuestionService interface {
	Generate(ctx context.Context, req dto.GenerateQuestionsRequest) (dto.GenerateQuestionsResponse, error)
}

type questionService struct {
	generator ai.QuestionGenerator
	provider  string
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionService wraps a generator. provider names it in responses.
func NewQuestionService(generator ai.QuestionGenerator, provider string, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	if strings.TrimSpace(provider) == "" {
		provider = "mock"
	}
	return &questionService{
		generator: generator,
		provider:  provider,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) Generate(ctx context.Context, req dto.GenerateQuestionsRequest) (dto.GenerateQuestionsResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return dto.GenerateQuestionsResponse{}, err
	}

	questionType, err := ai.ParseQuestionType(req.Type)
	if err != nil {
		return dto.GenerateQuestionsResponse{}, err
	}

	questions, err := s.generator.Generate(ctx, ai.GenerateRequest{
		Type:  questionType,
		Topic: strings.TrimSpace(req.Topic),
		Count: req.Count,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(questionType)).Msg("question generation failed")
		return dto.GenerateQuestionsResponse{}, err
	}

	return dto.GenerateQuestionsResponse{
		Type:      questionType,
		Provider:  s.provider,
		Questions: questions,
	}, nil
}
