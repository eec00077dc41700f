package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stc-api/internal/chatbot"
	"github.com/noah-isme/stc-api/internal/dto"
)

func newAssistantForTest(hour int) AssistantService {
	clock := func() time.Time { return time.Date(2024, 5, 6, hour, 0, 0, 0, time.UTC) }
	bot := chatbot.New("https://stc.example.com/signup", chatbot.WithClock(clock))
	return NewAssistantService(bot, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestAssistantRepliesToLoggedInMentor(t *testing.T) {
	svc := newAssistantForTest(10)
	caller := ChatCaller{UserID: "m1", Name: "Grace", Email: "grace@example.com", Role: "mentor"}

	reply, err := svc.Reply(context.Background(), caller, dto.ChatMessageRequest{Message: "How do I create a test?"})
	require.NoError(t, err)
	require.Equal(t, "bot", reply.Sender)
	require.Equal(t, chatbot.RuleTests, reply.Rule)
	require.Contains(t, reply.Text, "As a mentor")
}

func TestAssistantRequiresGuestIdentity(t *testing.T) {
	svc := newAssistantForTest(10)

	_, err := svc.Reply(context.Background(), ChatCaller{}, dto.ChatMessageRequest{Message: "hello"})
	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	_, err = svc.Reply(context.Background(), ChatCaller{}, dto.ChatMessageRequest{Message: "hello", Name: "Sam", Email: "not-an-email"})
	require.True(t, errors.As(err, &validationErrors))

	reply, err := svc.Reply(context.Background(), ChatCaller{}, dto.ChatMessageRequest{Message: "hello", Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Good morning Sam! I'm STC Assistant, your Smart Test Center AI helper. How can I assist you today?", reply.Text)
}

func TestAssistantSanitizesMarkup(t *testing.T) {
	svc := newAssistantForTest(10)
	caller := ChatCaller{UserID: "s1", Name: "Ada", Role: "student"}

	_, err := svc.Reply(context.Background(), caller, dto.ChatMessageRequest{Message: "<script>alert(1)</script>"})
	require.ErrorIs(t, err, ErrEmptyChatMessage)

	reply, err := svc.Reply(context.Background(), caller, dto.ChatMessageRequest{Message: "<b>homework</b>"})
	require.NoError(t, err)
	require.Equal(t, chatbot.RuleAssignments, reply.Rule)
}

func TestAssistantWelcome(t *testing.T) {
	svc := newAssistantForTest(20)

	welcome := svc.Welcome(context.Background(), ChatCaller{UserID: "m1", Name: "Grace", Role: "mentor"}, "ignored")
	require.Equal(t, "Good evening Grace! I'm STC Assistant, your Smart Test Center AI helper. How can I assist you today?", welcome.Text)

	guest := svc.Welcome(context.Background(), ChatCaller{}, "")
	require.Contains(t, guest.Text, "Good evening User!")
}
