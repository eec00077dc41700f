package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/middleware"
	"github.com/noah-isme/stc-api/internal/results"
	"github.com/noah-isme/stc-api/internal/service"
	"github.com/noah-isme/stc-api/internal/utils"
)

// ResultsHandler serves submission records and graded results to mentors.
type ResultsHandler struct {
	service service.MentorResultsService
	logger  zerolog.Logger
}

// NewResultsHandler builds a results handler instance.
func NewResultsHandler(service service.MentorResultsService, logger zerolog.Logger) *ResultsHandler {
	return &ResultsHandler{
		service: service,
		logger:  logger.With().Str("component", "results_handler").Logger(),
	}
}

// RegisterSubmissions attaches the submission listing routes.
func (h *ResultsHandler) RegisterSubmissions(router fiber.Router) {
	router.Get("/mentor", h.mentorSubmissions)
	router.Get("/all-for-mentor", h.allSubmissions)
}

// RegisterResults attaches the aggregated results routes.
func (h *ResultsHandler) RegisterResults(router fiber.Router) {
	router.Get("/mentor", h.mentorResults)
	router.Get("/mentor/:id", h.mentorResult)
}

func (h *ResultsHandler) mentorSubmissions(c *fiber.Ctx) error {
	mentor := middleware.CurrentIdentity(c)

	records, err := h.service.ListMentorSubmissions(c.UserContext(), mentor.UserID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", records)
}

func (h *ResultsHandler) allSubmissions(c *fiber.Ctx) error {
	mentor := middleware.CurrentIdentity(c)

	records, err := h.service.ListAllSubmissions(c.UserContext(), mentor.UserID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", records)
}

// mentorResults serves the grouped listing. refresh=true drops the cached set first.
func (h *ResultsHandler) mentorResults(c *fiber.Ctx) error {
	mentor := middleware.CurrentIdentity(c)

	if c.QueryBool("refresh") {
		if err := h.service.InvalidateMentor(c.UserContext(), mentor.UserID); err != nil {
			requestLogger(h.logger, c).Warn().Err(err).Msg("failed to drop cached results")
		}
	}

	view, err := h.service.MentorResults(c.UserContext(), mentor.UserID, c.Query("search"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, view, "results retrieved", fiber.Map{"groups": len(view.Groups)})
}

func (h *ResultsHandler) mentorResult(c *fiber.Ctx) error {
	mentor := middleware.CurrentIdentity(c)
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "result id is required")
	}

	result, err := h.service.MentorResult(c.UserContext(), mentor.UserID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *ResultsHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrMentorRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("results request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, results.MessageGeneric)
	}
}
