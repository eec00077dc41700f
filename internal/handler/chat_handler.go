package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/dto"
	"github.com/noah-isme/stc-api/internal/middleware"
	"github.com/noah-isme/stc-api/internal/service"
	"github.com/noah-isme/stc-api/internal/utils"
)

// ChatHandler exposes the help assistant.
type ChatHandler struct {
	service service.AssistantService
	logger  zerolog.Logger
}

// NewChatHandler creates a chat handler instance.
func NewChatHandler(service service.AssistantService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds chat routes under the provided router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Get("/welcome", h.welcome)
	router.Post("/messages", h.send)
}

func (h *ChatHandler) welcome(c *fiber.Ctx) error {
	var query dto.ChatWelcomeQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	reply := h.service.Welcome(c.UserContext(), callerFromContext(c), query.Name)
	return utils.SendSuccess(c, "welcome", reply)
}

func (h *ChatHandler) send(c *fiber.Ctx) error {
	var payload dto.ChatMessageRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	reply, err := h.service.Reply(c.UserContext(), callerFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "reply generated", reply)
}

func (h *ChatHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEmptyChatMessage):
		return utils.SendError(c, fiber.StatusBadRequest, "message is required")
	case errors.As(err, &validationErrors):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid chat request", validationDetails(validationErrors))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("assistant reply failed")
		return utils.SendError(c, fiber.StatusInternalServerError, service.AssistantFallbackReply)
	}
}

func callerFromContext(c *fiber.Ctx) service.ChatCaller {
	identity := middleware.CurrentIdentity(c)
	return service.ChatCaller{
		UserID: identity.UserID,
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   identity.Role,
	}
}
