package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/dto"
	"github.com/noah-isme/stc-api/internal/service"
	"github.com/noah-isme/stc-api/internal/utils"
	"github.com/noah-isme/stc-api/pkg/ai"
)

// QuestionHandler exposes question generation to mentors.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler creates a question handler instance.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register binds question routes under the provided router group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Post("/generate", h.generate)
}

func (h *QuestionHandler) generate(c *fiber.Ctx) error {
	var payload dto.GenerateQuestionsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Generate(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "questions generated", response)
}

func (h *QuestionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, ai.ErrUnsupportedQuestionType):
		return utils.SendError(c, fiber.StatusBadRequest, "unsupported question type")
	case errors.As(err, &validationErrors):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid question request", validationDetails(validationErrors))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("question generation failed")
		return utils.SendError(c, fiber.StatusBadGateway, "question generation is unavailable, please try again later")
	}
}
