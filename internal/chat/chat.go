// Package chat is the boundary to the chat platform. The rest of the
// system talks to it through the Messenger interface and receives gateway
// events through an EventHandler; the platform's own protocol stays here.
package chat

import "context"

// Message is an inbound message event from the gateway.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	Bot       bool   `json:"bot"`
}

// Reaction is an inbound reaction event from the gateway.
type Reaction struct {
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
	Bot       bool   `json:"bot"`
}

// Messenger sends, deletes and decorates messages on the chat platform.
type Messenger interface {
	// SendMessage posts content to a channel and returns the message id.
	SendMessage(ctx context.Context, channelID, content string) (string, error)
	// DeleteMessage removes a message. Deleting an already-gone message is
	// reported as an error by the platform; callers treat it as best-effort.
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// AddReaction attaches a reaction affordance to a message.
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
}

// EventHandler receives decoded gateway events.
type EventHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandleReaction(ctx context.Context, r Reaction)
}
