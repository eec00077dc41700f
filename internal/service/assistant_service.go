package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/chatbot"
	"github.com/noah-isme/stc-api/internal/dto"
	"github.com/noah-isme/stc-api/internal/observability"
)

// AssistantFallbackReply is sent when the assistant cannot produce an answer.
const AssistantFallbackReply = "I'm sorry, I'm having trouble responding right now. Please try again later or visit our help section for more information."

// ErrEmptyChatMessage is returned when a message holds no text after sanitizing.
var ErrEmptyChatMessage = errors.New("message is empty")

// ChatCaller is the authenticated user behind a chat request, if any.
type ChatCaller struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// AssistantService answers help questions for logged-in users and guests.
type AssistantService interface {
	Reply(ctx context.Context, caller ChatCaller, req dto.ChatMessageRequest) (dto.ChatReplyResponse, error)
	Welcome(ctx context.Context, caller ChatCaller, guestName string) dto.ChatReplyResponse
}

type assistantService struct {
	bot       *chatbot.Bot
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAssistantService wires the rule-based assistant.
func NewAssistantService(bot *chatbot.Bot, validate *validator.Validate, logger zerolog.Logger) AssistantService {
	return &assistantService{
		bot:       bot,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "assistant_service").Logger(),
		now:       time.Now,
	}
}

func (s *assistantService) Reply(ctx context.Context, caller ChatCaller, req dto.ChatMessageRequest) (dto.ChatReplyResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return dto.ChatReplyResponse{}, err
	}

	session, err := s.session(ctx, caller, req.Name, req.Email, true)
	if err != nil {
		return dto.ChatReplyResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if message == "" {
		return dto.ChatReplyResponse{}, ErrEmptyChatMessage
	}

	reply := s.bot.Reply(session, message)
	observability.ChatbotReplies().WithLabelValues(reply.Rule).Inc()
	s.logger.Debug().
		Str("rule", reply.Rule).
		Str("role", session.Role).
		Str("email", maskEmailAddress(session.Email)).
		Msg("assistant replied")

	return dto.ChatReplyResponse{
		Sender:    "bot",
		Text:      reply.Text,
		Rule:      reply.Rule,
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *assistantService) Welcome(ctx context.Context, caller ChatCaller, guestName string) dto.ChatReplyResponse {
	session, _ := s.session(ctx, caller, guestName, "", false)
	return dto.ChatReplyResponse{
		Sender:    "bot",
		Text:      s.bot.Welcome(session),
		Rule:      chatbot.RuleGreeting,
		Timestamp: s.now().UTC(),
	}
}

// session resolves who is chatting. Guests must identify themselves when
// strict is set.
func (s *assistantService) session(ctx context.Context, caller ChatCaller, name, email string, strict bool) (chatbot.Session, error) {
	if caller.UserID != "" {
		role := caller.Role
		if role == "" {
			role = "student"
		}
		return chatbot.Session{Name: caller.Name, Email: caller.Email, Role: role}, nil
	}

	guest := dto.ChatGuestIdentity{
		Name:  strings.TrimSpace(s.sanitizer.Sanitize(name)),
		Email: strings.TrimSpace(email),
	}
	if strict {
		if err := s.validator.StructCtx(ctx, guest); err != nil {
			return chatbot.Session{}, err
		}
	}

	return chatbot.Session{Name: guest.Name, Email: guest.Email, Role: chatbot.RoleGuest}, nil
}
