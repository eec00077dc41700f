package dto

import "time"

// ChatMessageRequest is a message sent to the assistant. Guests must supply
// their name and email; logged-in callers are identified from the token.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
	Name    string `json:"name" validate:"omitempty,min=1,max=120"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
}

// ChatGuestIdentity is the identity a guest provides before chatting.
type ChatGuestIdentity struct {
	Name  string `validate:"required,min=1,max=120"`
	Email string `validate:"required,email,max=254"`
}

// ChatWelcomeQuery identifies a guest asking for the welcome message.
type ChatWelcomeQuery struct {
	Name string `query:"name" validate:"omitempty,max=120"`
}

// ChatReplyResponse is the assistant's answer.
type ChatReplyResponse struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Rule      string    `json:"rule"`
	Timestamp time.Time `json:"timestamp"`
}
