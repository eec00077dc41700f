// Package chatbot answers help questions about the platform with an ordered
// set of keyword rules.
package chatbot

import (
	"fmt"
	"strings"
	"time"
)

// Role names used to personalise replies.
const (
	RoleMentor = "mentor"
	RoleGuest  = "guest"
)

// DefaultName is used when a session carries no display name.
const DefaultName = "User"

// Session identifies who the assistant is talking to.
type Session struct {
	Name  string
	Email string
	Role  string
}

// DisplayName returns the session name or DefaultName.
func (s Session) DisplayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return DefaultName
}

// IsMentor reports whether replies should use the mentor variant.
func (s Session) IsMentor() bool {
	return s.Role == RoleMentor
}

// Reply is the assistant's answer together with the rule that produced it.
type Reply struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}

// Rule pairs a predicate over the lower-cased message with a response template.
type Rule struct {
	Name    string
	Match   func(message string) bool
	Respond func(session Session, now time.Time) string
}

// Bot evaluates rules in priority order; the first match wins.
type Bot struct {
	rules    []Rule
	fallback Rule
	now      func() time.Time
}

// Option customises a Bot.
type Option func(*Bot)

// WithClock overrides the time source used for greetings.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) {
		if now != nil {
			b.now = now
		}
	}
}

// New builds the assistant with the default rule set.
func New(signupURL string, opts ...Option) *Bot {
	bot := &Bot{
		rules:    DefaultRules(signupURL),
		fallback: helpRule,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(bot)
	}
	return bot
}

// Reply answers a message.
func (b *Bot) Reply(session Session, message string) Reply {
	lower := strings.ToLower(message)
	now := b.now()

	for _, rule := range b.rules {
		if rule.Match(lower) {
			return Reply{Rule: rule.Name, Text: rule.Respond(session, now)}
		}
	}

	return Reply{Rule: b.fallback.Name, Text: b.fallback.Respond(session, now)}
}

// Welcome is the first message of a conversation.
func (b *Bot) Welcome(session Session) string {
	return welcomeText(session, b.now())
}

// Greeting returns the time-of-day salutation for the given hour.
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func welcomeText(session Session, now time.Time) string {
	return fmt.Sprintf("%s %s! I'm STC Assistant, your Smart Test Center AI helper. How can I assist you today?", Greeting(now.Hour()), session.DisplayName())
}

func containsAny(message string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}
